package db

import (
	"gorm.io/gorm"

	"github.com/BruksfildServices01/consultapp/internal/models"
)

// SeedLookups creates the payment methods, categories and origins a new
// business starts with. It runs inside the registration transaction.
func SeedLookups(tx *gorm.DB, businessID uint) error {
	methods := []models.PaymentMethod{
		{BusinessID: businessID, Name: "Dinheiro", Description: "Pagamento em espécie", Order: 1, Active: true},
		{BusinessID: businessID, Name: "PIX", Description: "Transferência instantânea", Order: 2, Active: true},
		{BusinessID: businessID, Name: "Cartão de Crédito", Description: "Pagamento no crédito", Order: 3, Active: true},
		{BusinessID: businessID, Name: "Cartão de Débito", Description: "Pagamento no débito", Order: 4, Active: true},
	}
	if err := tx.Create(&methods).Error; err != nil {
		return err
	}

	categories := []models.Category{
		{BusinessID: businessID, Name: "Cliente Regular", Description: "Cliente com atendimentos eventuais", Active: true},
		{BusinessID: businessID, Name: "Cliente VIP", Description: "Cliente com atendimento prioritário", Active: true},
	}
	if err := tx.Create(&categories).Error; err != nil {
		return err
	}

	origins := []models.Origin{
		{BusinessID: businessID, Name: "Indicação", Description: "Indicado por outro cliente", Active: true},
		{BusinessID: businessID, Name: "Redes Sociais", Description: "Instagram, Facebook e similares", Active: true},
		{BusinessID: businessID, Name: "Site", Description: "Encontrou pelo site", Active: true},
	}
	return tx.Create(&origins).Error
}
