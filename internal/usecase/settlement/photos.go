package settlement

import (
	"context"
	"io"

	"github.com/BruksfildServices01/consultapp/internal/audit"
	domain "github.com/BruksfildServices01/consultapp/internal/domain/settlement"
	"github.com/BruksfildServices01/consultapp/internal/dto"
	"github.com/BruksfildServices01/consultapp/internal/httperr"
	"github.com/BruksfildServices01/consultapp/internal/session"
)

// PhotoStore persists an encounter photo and returns its public URL.
type PhotoStore interface {
	SaveEncounterPhoto(ctx context.Context, encounterID uint, r io.Reader) (string, error)
}

type AttachEncounterPhoto struct {
	repo  domain.Repository
	store PhotoStore
	audit *audit.Dispatcher
}

// NewAttachEncounterPhoto accepts a nil store when storage is not
// configured; every call then fails with photo_storage_disabled.
func NewAttachEncounterPhoto(
	repo domain.Repository,
	store PhotoStore,
	audit *audit.Dispatcher,
) *AttachEncounterPhoto {
	return &AttachEncounterPhoto{repo: repo, store: store, audit: audit}
}

func (uc *AttachEncounterPhoto) Execute(
	ctx context.Context,
	actor session.Actor,
	encounterID uint,
	photo io.Reader,
) (*dto.EncounterDTO, error) {

	if uc.store == nil {
		return nil, httperr.ErrBusiness("photo_storage_disabled")
	}

	business, err := uc.repo.GetBusinessByID(ctx, actor.BusinessID)
	if err != nil {
		return nil, err
	}

	enc, err := uc.repo.GetEncounter(ctx, actor.BusinessID, encounterID)
	if err != nil {
		return nil, notFoundAs(err, "encounter_not_found")
	}
	if err := assertUnsettled(ctx, uc.repo, enc.ID); err != nil {
		return nil, err
	}

	url, err := uc.store.SaveEncounterPhoto(ctx, enc.ID, photo)
	if err != nil {
		return nil, err
	}

	// a payment may have landed during the upload
	err = uc.repo.WithinTx(ctx, func(tx domain.Repository) error {
		fresh, err := tx.GetEncounter(ctx, actor.BusinessID, encounterID)
		if err != nil {
			return notFoundAs(err, "encounter_not_found")
		}
		if err := assertUnsettled(ctx, tx, fresh.ID); err != nil {
			return err
		}

		fresh.PhotoURLs = append(fresh.PhotoURLs, url)
		if err := tx.UpdateEncounter(ctx, fresh); err != nil {
			return err
		}
		enc = fresh
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		BusinessID: actor.BusinessID,
		UserID:     actor.UserRef(),
		Action:     "encounter_photo_added",
		Entity:     "encounter",
		EntityID:   &enc.ID,
		Metadata:   map[string]string{"url": url},
	})

	out := dto.NewEncounterDTO(*enc, business.Timezone)
	return &out, nil
}

func assertUnsettled(ctx context.Context, repo domain.Repository, encounterID uint) error {
	paid, err := repo.CountEncounterPayments(ctx, encounterID)
	if err != nil {
		return err
	}
	if paid > 0 {
		return httperr.ErrBusiness("encounter_settled")
	}
	return nil
}
