package models

import "time"

// Client is soft-deleted through Active; historical rows keep pointing at it.
type Client struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	BusinessID uint `gorm:"index" json:"business_id"`

	Name     string `gorm:"column:nome;size:100;not null" json:"nome"`
	Phone    string `gorm:"column:telefone;size:20" json:"telefone"`
	Email    string `gorm:"size:100" json:"email"`
	CPF      string `gorm:"column:cpf;size:14" json:"cpf"`
	Address  string `gorm:"column:endereco;size:255" json:"endereco"`
	District string `gorm:"column:bairro;size:100" json:"bairro"`
	City     string `gorm:"column:cidade;size:100" json:"cidade"`
	State    string `gorm:"column:estado;size:2" json:"estado"`
	ZipCode  string `gorm:"column:cep;size:9" json:"cep"`

	CategoryID *uint     `gorm:"column:categoria_id" json:"categoria_id"`
	Category   *Category `gorm:"foreignKey:CategoryID" json:"categoria,omitempty"`
	OriginID   *uint     `gorm:"column:origem_id" json:"origem_id"`
	Origin     *Origin   `gorm:"foreignKey:OriginID" json:"origem,omitempty"`

	PhotoURL        string `gorm:"column:foto_url;size:255" json:"foto_url"`
	AcceptsEmail    bool   `gorm:"column:recebe_email;default:true" json:"recebe_email"`
	AcceptsSMS      bool   `gorm:"column:recebe_sms;default:true" json:"recebe_sms"`
	AcceptsWhatsApp bool   `gorm:"column:recebe_whatsapp;default:true" json:"recebe_whatsapp"`

	Active bool `gorm:"column:ativo;default:true;index" json:"ativo"`

	CreatedBy *uint     `json:"created_by"`
	UpdatedBy *uint     `json:"updated_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Client) TableName() string { return "clientes" }
