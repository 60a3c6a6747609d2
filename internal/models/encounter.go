package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Encounter (historico) is the snapshot of a fulfilled appointment. Settlement
// rows reference it instead of the appointment.
type Encounter struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	BusinessID uint `gorm:"index" json:"business_id"`

	AppointmentID uint `gorm:"column:agenda_id;uniqueIndex;not null" json:"agenda_id"`

	ClientID uint   `gorm:"column:cliente_id;index" json:"cliente_id"`
	Client   Client `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"cliente"`

	ConsultantID uint       `gorm:"column:consultor_id;index" json:"consultor_id"`
	Consultant   Consultant `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"consultor"`

	ServiceID uint    `gorm:"column:servico_id" json:"servico_id"`
	Service   Service `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"servico"`

	ScheduledAt *time.Time `gorm:"column:data_agendamento" json:"data_agendamento"`
	ServedAt    time.Time  `gorm:"column:data_atendimento;index" json:"data_atendimento"`

	ServiceValue     decimal.Decimal     `gorm:"column:valor_servico;type:numeric(12,2);not null;default:0" json:"valor_servico"`
	FinalValue       decimal.NullDecimal `gorm:"column:valor_final;type:numeric(12,2)" json:"valor_final"`
	CommissionAmount decimal.Decimal     `gorm:"column:comissao_consultor;type:numeric(12,2);not null;default:0" json:"comissao_consultor"`

	PaymentMethodID *uint          `gorm:"column:forma_pagamento" json:"forma_pagamento"`
	PaymentMethod   *PaymentMethod `gorm:"foreignKey:PaymentMethodID" json:"forma_pagamento_detalhe,omitempty"`

	Procedures string                      `gorm:"column:procedimentos_realizados;type:text" json:"procedimentos_realizados"`
	Notes      string                      `gorm:"column:observacoes_atendimento;type:text" json:"observacoes_atendimento"`
	PhotoURLs  datatypes.JSONSlice[string] `gorm:"column:fotos_urls" json:"fotos_urls"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Encounter) TableName() string { return "historico" }

// AmountDue is the value a settling payment is expected to cover.
func (e *Encounter) AmountDue() decimal.Decimal {
	if e.FinalValue.Valid {
		return e.FinalValue.Decimal
	}
	return e.ServiceValue
}
