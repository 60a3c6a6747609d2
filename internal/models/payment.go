package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Payment struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	BusinessID uint `gorm:"index:idx_pagamentos_business_data,priority:1" json:"business_id"`

	EncounterID uint      `gorm:"column:atendimento_id;index;not null" json:"atendimento_id"`
	Encounter   Encounter `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"-"`

	ClientID     uint `gorm:"column:cliente_id;index" json:"cliente_id"`
	ConsultantID uint `gorm:"column:consultor_id" json:"consultor_id"`
	ServiceID    uint `gorm:"column:servico_id" json:"servico_id"`

	PaymentMethodID uint          `gorm:"column:forma_pagamento_id" json:"forma_pagamento_id"`
	PaymentMethod   PaymentMethod `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"forma_pagamento"`

	Amount          decimal.Decimal     `gorm:"column:valor;type:numeric(12,2);not null" json:"valor"`
	OriginalAmount  decimal.NullDecimal `gorm:"column:valor_original;type:numeric(12,2)" json:"valor_original"`
	Installments    int                 `gorm:"column:numero_parcelas;not null;default:1" json:"numero_parcelas"`
	TransactionType string              `gorm:"column:tipo_transacao;size:10;not null;default:'entrada'" json:"tipo_transacao"`
	PaidAt          time.Time           `gorm:"column:data_pagamento;index:idx_pagamentos_business_data,priority:2" json:"data_pagamento"`
	Notes           string              `gorm:"column:observacoes;size:500" json:"observacoes"`

	GatewayID     string `gorm:"column:gateway_id;size:64" json:"gateway_id,omitempty"`
	GatewayStatus string `gorm:"column:gateway_status;size:32" json:"gateway_status,omitempty"`

	CreatedBy *uint     `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Payment) TableName() string { return "pagamentos" }

// Installment (parcela) of a payment.
type Installment struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	PaymentID uint            `gorm:"column:pagamento_id;not null;index" json:"pagamento_id"`
	Number    int             `gorm:"column:numero_parcela;not null" json:"numero_parcela"`
	Amount    decimal.Decimal `gorm:"column:valor_parcela;type:numeric(12,2);not null" json:"valor_parcela"`
	DueDate   time.Time       `gorm:"column:data_vencimento;not null" json:"data_vencimento"`
	Status    string          `gorm:"size:20;not null;default:'pendente';index" json:"status"`
	PaidAt    *time.Time      `gorm:"column:data_pagamento" json:"data_pagamento"`
	Notes     string          `gorm:"column:observacoes;size:255" json:"observacoes"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func (Installment) TableName() string { return "parcelas" }

// Commission (comissao) carries name snapshots so it reads on its own.
type Commission struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	BusinessID uint `gorm:"index" json:"business_id"`

	ConsultantID uint  `gorm:"column:consultor_id;index" json:"consultor_id"`
	PaymentID    *uint `gorm:"column:pagamento_id;index" json:"pagamento_id"`

	ClientName   string          `gorm:"column:cliente_nome;size:100;not null" json:"cliente_nome"`
	ServiceName  string          `gorm:"column:servico_nome;size:100;not null" json:"servico_nome"`
	ServiceValue decimal.Decimal `gorm:"column:valor_servico;type:numeric(12,2);not null" json:"valor_servico"`
	Percent      decimal.Decimal `gorm:"column:percentual_comissao;type:numeric(5,2);not null" json:"percentual_comissao"`
	Amount       decimal.Decimal `gorm:"column:valor_comissao;type:numeric(12,2);not null" json:"valor_comissao"`
	Operation    string          `gorm:"column:tipo_operacao;size:20;not null;default:'entrada'" json:"tipo_operacao"`
	OperatedAt   time.Time       `gorm:"column:data_operacao;index" json:"data_operacao"`
	Notes        string          `gorm:"column:observacoes;size:255" json:"observacoes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Commission) TableName() string { return "comissoes" }
