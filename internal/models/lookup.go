package models

import "time"

type PaymentMethod struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	BusinessID  uint      `gorm:"index" json:"business_id"`
	Name        string    `gorm:"column:nome;size:60;not null" json:"nome"`
	Description string    `gorm:"column:descricao;size:255" json:"descricao"`
	Order       int       `gorm:"column:ordem;default:0" json:"ordem"`
	Active      bool      `gorm:"column:ativo;default:true" json:"ativo"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (PaymentMethod) TableName() string { return "formas_pagamento" }

type Category struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	BusinessID  uint      `gorm:"index" json:"business_id"`
	Name        string    `gorm:"column:nome;size:60;not null" json:"nome"`
	Description string    `gorm:"column:descricao;size:255" json:"descricao"`
	Active      bool      `gorm:"column:ativo;default:true" json:"ativo"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Category) TableName() string { return "categorias" }

type Origin struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	BusinessID  uint      `gorm:"index" json:"business_id"`
	Name        string    `gorm:"column:nome;size:60;not null" json:"nome"`
	Description string    `gorm:"column:descricao;size:255" json:"descricao"`
	Active      bool      `gorm:"column:ativo;default:true" json:"ativo"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Origin) TableName() string { return "origens" }
