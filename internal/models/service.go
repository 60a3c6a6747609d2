package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Service struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	BusinessID uint `gorm:"index" json:"business_id"`

	Name        string          `gorm:"column:nome;size:100;not null" json:"nome"`
	Description string          `gorm:"column:descricao;size:255" json:"descricao"`
	Price       decimal.Decimal `gorm:"column:preco;type:numeric(12,2);not null;default:0" json:"preco"`
	DurationMin int             `gorm:"column:duracao_minutos;not null;default:60" json:"duracao_minutos"`
	Active      bool            `gorm:"column:ativo;default:true;index" json:"ativo"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Service) TableName() string { return "servicos" }
