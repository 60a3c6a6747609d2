package dto

import "github.com/shopspring/decimal"

type DashboardDTO struct {
	TodayAppointments   int64                `json:"agendamentos_hoje"`
	ActiveClients       int64                `json:"clientes_ativos"`
	MonthlyRevenue      decimal.Decimal      `json:"faturamento_mes"`
	MonthlyRevenueLabel string               `json:"faturamento_mes_formatado"`
	Today               []AppointmentListDTO `json:"agenda_hoje"`
}
