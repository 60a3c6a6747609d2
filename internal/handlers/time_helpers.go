package handlers

import (
	"time"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/consultapp/internal/models"
	"github.com/BruksfildServices01/consultapp/internal/timezone"
)

// --------------------------------------------------
// Timezone centralizado por empresa
// --------------------------------------------------

func businessLocation(db *gorm.DB, businessID uint) (*time.Location, error) {
	var business models.Business
	if err := db.Select("id", "timezone").First(&business, businessID).Error; err != nil {
		return nil, err
	}
	return timezone.Location(business.Timezone), nil
}

// parseDateIn reads a yyyy-mm-dd query value as midnight in loc.
func parseDateIn(loc *time.Location, dateStr string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", dateStr, loc)
}
