package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/consultapp/internal/httperr"
	"github.com/BruksfildServices01/consultapp/internal/middleware"
	"github.com/BruksfildServices01/consultapp/internal/models"
)

type WorkingHoursHandler struct {
	db *gorm.DB
}

func NewWorkingHoursHandler(db *gorm.DB) *WorkingHoursHandler {
	return &WorkingHoursHandler{db: db}
}

type WorkingDayConfig struct {
	Weekday    int    `json:"weekday" binding:"min=0,max=6"`
	Active     bool   `json:"active"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
	LunchStart string `json:"lunch_start"`
	LunchEnd   string `json:"lunch_end"`
}

type WorkingHoursUpdateRequest struct {
	Days []WorkingDayConfig `json:"days" binding:"required,dive"`
}

func (h *WorkingHoursHandler) Get(c *gin.Context) {
	consultantID, ok := h.consultantID(c)
	if !ok {
		return
	}

	var hours []models.WorkingHours
	if err := h.db.WithContext(c.Request.Context()).
		Where("consultant_id = ?", consultantID).
		Order("weekday ASC").
		Find(&hours).Error; err != nil {

		httperr.Internal(c, "failed_to_get_working_hours", "Erro ao buscar horários.")
		return
	}

	c.JSON(http.StatusOK, hours)
}

// Update replaces the whole week of the consultant.
func (h *WorkingHoursHandler) Update(c *gin.Context) {
	consultantID, ok := h.consultantID(c)
	if !ok {
		return
	}

	var req WorkingHoursUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.InvalidRequest(c, err)
		return
	}

	seen := map[int]bool{}
	toCreate := make([]models.WorkingHours, 0, len(req.Days))
	for _, d := range req.Days {
		if seen[d.Weekday] {
			httperr.BadRequest(c, "duplicated_weekday", "Dia da semana repetido.")
			return
		}
		seen[d.Weekday] = true

		if d.Active && !validDay(d) {
			httperr.BadRequest(c, "invalid_working_hours", "Horário de atendimento inválido.")
			return
		}

		toCreate = append(toCreate, models.WorkingHours{
			ConsultantID: consultantID,
			Weekday:      d.Weekday,
			Active:       d.Active,
			StartTime:    d.StartTime,
			EndTime:      d.EndTime,
			LunchStart:   d.LunchStart,
			LunchEnd:     d.LunchEnd,
		})
	}

	err := h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("consultant_id = ?", consultantID).Delete(&models.WorkingHours{}).Error; err != nil {
			return err
		}
		if len(toCreate) == 0 {
			return nil
		}
		return tx.Create(&toCreate).Error
	})
	if err != nil {
		httperr.Internal(c, "failed_to_save_working_hours", "Erro ao salvar horários.")
		return
	}

	c.JSON(http.StatusOK, toCreate)
}

func (h *WorkingHoursHandler) consultantID(c *gin.Context) (uint, bool) {
	businessID := c.GetUint(middleware.ContextBusinessID)

	id, ok := idParam(c, "id")
	if !ok {
		return 0, false
	}

	var count int64
	if err := h.db.WithContext(c.Request.Context()).
		Model(&models.Consultant{}).
		Where("id = ? AND business_id = ?", id, businessID).
		Count(&count).Error; err != nil {

		httperr.Internal(c, "failed_to_get_consultant", "Erro ao buscar consultor.")
		return 0, false
	}
	if count == 0 {
		httperr.NotFound(c, "consultant_not_found", "Consultor não encontrado.")
		return 0, false
	}

	return id, true
}

// validDay requires start < end and, when a lunch break is given, that it
// sits inside the working window.
func validDay(d WorkingDayConfig) bool {
	start, err1 := time.Parse("15:04", d.StartTime)
	end, err2 := time.Parse("15:04", d.EndTime)
	if err1 != nil || err2 != nil || !start.Before(end) {
		return false
	}

	if d.LunchStart == "" && d.LunchEnd == "" {
		return true
	}

	ls, err1 := time.Parse("15:04", d.LunchStart)
	le, err2 := time.Parse("15:04", d.LunchEnd)
	if err1 != nil || err2 != nil || !ls.Before(le) {
		return false
	}
	return !ls.Before(start) && !le.After(end)
}
