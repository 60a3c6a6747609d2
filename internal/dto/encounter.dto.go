package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/consultapp/internal/models"
	"github.com/BruksfildServices01/consultapp/internal/money"
	"github.com/BruksfildServices01/consultapp/internal/timezone"
)

type EncounterDTO struct {
	ID            uint      `json:"id"`
	AppointmentID uint      `json:"agenda_id"`
	ServedAt      time.Time `json:"data_atendimento"`
	Date          string    `json:"data"`

	ClientName     string `json:"cliente_nome"`
	ConsultantName string `json:"consultor_nome"`
	ServiceName    string `json:"servico_nome"`

	ServiceValue decimal.Decimal     `json:"valor_servico"`
	FinalValue   decimal.NullDecimal `json:"valor_final"`
	AmountDue    decimal.Decimal     `json:"valor_devido"`
	AmountLabel  string              `json:"valor_formatado"`

	PaymentMethod string   `json:"forma_pagamento,omitempty"`
	Procedures    string   `json:"procedimentos_realizados"`
	Notes         string   `json:"observacoes_atendimento"`
	PhotoURLs     []string `json:"fotos_urls"`
}

func NewEncounterDTO(enc models.Encounter, tz string) EncounterDTO {
	due := enc.AmountDue()
	out := EncounterDTO{
		ID:             enc.ID,
		AppointmentID:  enc.AppointmentID,
		ServedAt:       enc.ServedAt.In(timezone.Location(tz)),
		Date:           timezone.FormatDate(enc.ServedAt, tz),
		ClientName:     enc.Client.Name,
		ConsultantName: enc.Consultant.Name,
		ServiceName:    enc.Service.Name,
		ServiceValue:   enc.ServiceValue,
		FinalValue:     enc.FinalValue,
		AmountDue:      due,
		AmountLabel:    money.FormatBRL(due),
		Procedures:     enc.Procedures,
		Notes:          enc.Notes,
		PhotoURLs:      []string(enc.PhotoURLs),
	}
	if enc.PaymentMethod != nil {
		out.PaymentMethod = enc.PaymentMethod.Name
	}
	if out.PhotoURLs == nil {
		out.PhotoURLs = []string{}
	}
	return out
}

type ClientHistoryDTO struct {
	ClientID        uint            `json:"cliente_id"`
	ClientName      string          `json:"cliente_nome"`
	Visits          int             `json:"total_atendimentos"`
	TotalSpent      decimal.Decimal `json:"total_gasto"`
	TotalSpentLabel string          `json:"total_gasto_formatado"`
	Encounters      []EncounterDTO  `json:"atendimentos"`
}
