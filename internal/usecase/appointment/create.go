package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/consultapp/internal/audit"
	domain "github.com/BruksfildServices01/consultapp/internal/domain/appointment"
	"github.com/BruksfildServices01/consultapp/internal/httperr"
	"github.com/BruksfildServices01/consultapp/internal/models"
	"github.com/BruksfildServices01/consultapp/internal/money"
	"github.com/BruksfildServices01/consultapp/internal/session"
	"github.com/BruksfildServices01/consultapp/internal/validators"
)

// ======================================================
// INPUT
// ======================================================

type CreateAppointmentInput struct {
	ClientID     uint   `validate:"required"`
	ConsultantID uint   `validate:"required"`
	ServiceID    uint   `validate:"required"`
	Date         string `validate:"required,date"`
	Time         string `validate:"required,hhmm"`
	Notes        string `validate:"max=500"`
}

// ======================================================
// USE CASE
// ======================================================

type CreateAppointment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewCreateAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *CreateAppointment {
	return &CreateAppointment{
		repo:  repo,
		audit: audit,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateAppointment) Execute(
	ctx context.Context,
	actor session.Actor,
	in CreateAppointmentInput,
) (*models.Appointment, error) {

	if err := validators.Struct(in); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 1️⃣ Empresa
	// --------------------------------------------------
	business, err := uc.repo.GetBusinessByID(ctx, actor.BusinessID)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 2️⃣ Data / hora no timezone da empresa
	// --------------------------------------------------
	start, err := parseSlot(business, in.Date, in.Time)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 3️⃣ Cadastros ativos
	// --------------------------------------------------
	client, err := uc.repo.GetActiveClient(ctx, actor.BusinessID, in.ClientID)
	if err != nil {
		return nil, notFoundAs(err, "client_not_found")
	}

	consultant, err := uc.repo.GetActiveConsultant(ctx, actor.BusinessID, in.ConsultantID)
	if err != nil {
		return nil, notFoundAs(err, "consultant_not_found")
	}

	service, err := uc.repo.GetActiveService(ctx, actor.BusinessID, in.ServiceID)
	if err != nil {
		return nil, notFoundAs(err, "service_not_found")
	}

	end := start.Add(time.Duration(service.DurationMin) * time.Minute)

	// --------------------------------------------------
	// 4️⃣ Expediente do consultor (quando configurado)
	// --------------------------------------------------
	if err := checkWorkingHours(ctx, uc.repo, consultant.ID, start, end); err != nil {
		return nil, err
	}

	ap := &models.Appointment{
		BusinessID:       actor.BusinessID,
		ClientID:         client.ID,
		ConsultantID:     consultant.ID,
		ServiceID:        service.ID,
		StartTime:        start,
		EndTime:          end,
		Status:           string(domain.InitialStatus()),
		ServiceValue:     service.Price,
		CommissionAmount: money.Percent(service.Price, consultant.CommissionPercent),
		Notes:            in.Notes,
		CreatedBy:        actor.UserRef(),
		UpdatedBy:        actor.UserRef(),
	}

	// --------------------------------------------------
	// 5️⃣ Conflito de horário + criação
	// --------------------------------------------------
	err = uc.repo.WithinTx(ctx, func(tx domain.Repository) error {
		if err := tx.AssertNoTimeConflict(ctx, consultant.ID, start, end, 0); err != nil {
			return err
		}
		return tx.CreateAppointment(ctx, ap)
	})
	if err != nil {
		if httperr.IsExclusionConflict(err) {
			return nil, httperr.ErrBusiness("time_conflict")
		}
		return nil, err
	}

	ap.Client = *client
	ap.Consultant = *consultant
	ap.Service = *service

	uc.audit.Dispatch(audit.Event{
		BusinessID: actor.BusinessID,
		UserID:     actor.UserRef(),
		Action:     "appointment_created",
		Entity:     "appointment",
		EntityID:   &ap.ID,
	})

	return ap, nil
}
