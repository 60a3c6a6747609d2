package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Consultant struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	BusinessID uint `gorm:"index" json:"business_id"`

	Name    string `gorm:"column:nome;size:100;not null" json:"nome"`
	Email   string `gorm:"size:100" json:"email"`
	Phone   string `gorm:"column:telefone;size:20" json:"telefone"`
	CPF     string `gorm:"column:cpf;size:14" json:"cpf"`
	Address string `gorm:"column:endereco;size:255" json:"endereco"`
	City    string `gorm:"column:cidade;size:100" json:"cidade"`
	State   string `gorm:"column:estado;size:2" json:"estado"`

	// 0..100
	CommissionPercent decimal.Decimal `gorm:"column:percentual_comissao;type:numeric(5,2);not null;default:0" json:"percentual_comissao"`

	Active bool `gorm:"column:ativo;default:true;index" json:"ativo"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Consultant) TableName() string { return "consultores" }
