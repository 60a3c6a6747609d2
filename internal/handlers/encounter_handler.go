package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/consultapp/internal/httperr"
	"github.com/BruksfildServices01/consultapp/internal/infra/storage"
	"github.com/BruksfildServices01/consultapp/internal/middleware"
	ucSettlement "github.com/BruksfildServices01/consultapp/internal/usecase/settlement"
)

type EncounterHandler struct {
	get    *ucSettlement.GetEncounter
	update *ucSettlement.UpdateEncounter
	photo  *ucSettlement.AttachEncounterPhoto
}

func NewEncounterHandler(
	get *ucSettlement.GetEncounter,
	update *ucSettlement.UpdateEncounter,
	photo *ucSettlement.AttachEncounterPhoto,
) *EncounterHandler {
	return &EncounterHandler{
		get:    get,
		update: update,
		photo:  photo,
	}
}

type UpdateEncounterRequest struct {
	FinalValue      *decimal.Decimal `json:"valor_final"`
	ClearFinalValue bool             `json:"limpar_valor_final"`
	PaymentMethodID *uint            `json:"forma_pagamento"`
	Procedures      *string          `json:"procedimentos_realizados"`
	Notes           *string          `json:"observacoes_atendimento"`
}

var encounterRules = map[string]httperr.Rule{
	"encounter_not_found":      {Status: http.StatusNotFound, Message: "Atendimento não encontrado."},
	"payment_method_not_found": {Status: http.StatusBadRequest, Message: "Forma de pagamento não encontrada."},
	"encounter_settled":        {Status: http.StatusConflict, Message: "Atendimento já possui pagamento e não pode ser alterado."},
	"photo_storage_disabled":   {Status: http.StatusServiceUnavailable, Message: "Armazenamento de fotos não configurado."},
	"photo_too_large":          {Status: http.StatusRequestEntityTooLarge, Message: "Foto excede o tamanho máximo de 10 MB."},
	"invalid_photo":            {Status: http.StatusBadRequest, Message: "Arquivo de imagem inválido."},
}

func (h *EncounterHandler) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	out, err := h.get.Execute(c.Request.Context(), middleware.Actor(c), id)
	if err != nil {
		fail(c, err, encounterRules, "failed_to_get_encounter")
		return
	}

	c.JSON(http.StatusOK, out)
}

func (h *EncounterHandler) Update(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req UpdateEncounterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.InvalidRequest(c, err)
		return
	}

	out, err := h.update.Execute(c.Request.Context(), middleware.Actor(c), id, ucSettlement.UpdateEncounterInput{
		FinalValue:      req.FinalValue,
		ClearFinalValue: req.ClearFinalValue,
		PaymentMethodID: req.PaymentMethodID,
		Procedures:      req.Procedures,
		Notes:           req.Notes,
	})
	if err != nil {
		fail(c, err, encounterRules, "failed_to_update_encounter")
		return
	}

	c.JSON(http.StatusOK, out)
}

// UploadPhoto expects a multipart form with the image in the "photo" field.
func (h *EncounterHandler) UploadPhoto(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	fh, err := c.FormFile("photo")
	if err != nil {
		httperr.BadRequest(c, "missing_photo", "Envie a imagem no campo \"photo\".")
		return
	}
	if fh.Size > storage.MaxUploadBytes {
		fail(c, httperr.ErrBusiness("photo_too_large"), encounterRules, "failed_to_upload_photo")
		return
	}

	file, err := fh.Open()
	if err != nil {
		httperr.BadRequest(c, "invalid_photo", "Arquivo de imagem inválido.")
		return
	}
	defer file.Close()

	out, err := h.photo.Execute(c.Request.Context(), middleware.Actor(c), id, file)
	if err != nil {
		fail(c, err, encounterRules, "failed_to_upload_photo")
		return
	}

	c.JSON(http.StatusCreated, out)
}
