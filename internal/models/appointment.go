package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Appointment is a row of the agenda. It is never physically deleted.
type Appointment struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	BusinessID uint `gorm:"index" json:"business_id"`

	ClientID uint   `gorm:"column:cliente_id;index" json:"cliente_id"`
	Client   Client `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"cliente"`

	ConsultantID uint       `gorm:"column:consultor_id;index" json:"consultor_id"`
	Consultant   Consultant `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"consultor"`

	ServiceID uint    `gorm:"column:servico_id" json:"servico_id"`
	Service   Service `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"servico"`

	StartTime time.Time `gorm:"column:data_agendamento;index" json:"data_agendamento"`
	EndTime   time.Time `gorm:"column:data_fim" json:"data_fim"`

	Status string `gorm:"size:20;default:'scheduled';index" json:"status"`

	ServiceValue     decimal.Decimal `gorm:"column:valor_servico;type:numeric(12,2);not null;default:0" json:"valor_servico"`
	CommissionAmount decimal.Decimal `gorm:"column:comissao_consultor;type:numeric(12,2);not null;default:0" json:"comissao_consultor"`

	Notes       string     `gorm:"column:observacoes;size:500" json:"observacoes"`
	ConfirmedAt *time.Time `json:"confirmed_at"`
	CancelledAt *time.Time `json:"cancelled_at"`
	FulfilledAt *time.Time `json:"fulfilled_at"`

	CreatedBy *uint     `json:"created_by"`
	UpdatedBy *uint     `json:"updated_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Appointment) TableName() string { return "agenda" }
