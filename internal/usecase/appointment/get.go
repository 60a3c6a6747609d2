package appointment

import (
	"context"

	domain "github.com/BruksfildServices01/consultapp/internal/domain/appointment"
	"github.com/BruksfildServices01/consultapp/internal/dto"
	"github.com/BruksfildServices01/consultapp/internal/session"
)

type GetAppointment struct {
	repo domain.Repository
}

func NewGetAppointment(repo domain.Repository) *GetAppointment {
	return &GetAppointment{repo: repo}
}

func (uc *GetAppointment) Execute(
	ctx context.Context,
	actor session.Actor,
	appointmentID uint,
) (*dto.AppointmentListDTO, error) {

	business, err := uc.repo.GetBusinessByID(ctx, actor.BusinessID)
	if err != nil {
		return nil, err
	}

	ap, err := uc.repo.GetAppointment(ctx, actor.BusinessID, appointmentID)
	if err != nil {
		return nil, notFoundAs(err, "appointment_not_found")
	}

	out := dto.NewAppointmentListDTO(*ap, business.Timezone)
	return &out, nil
}
