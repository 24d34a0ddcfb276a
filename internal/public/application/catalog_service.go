package application

import (
	"context"

	"github.com/sngm3741/stagelink/api/internal/public/domain"
)

type catalogService struct {
	services ServiceRepository
	users    UserRepository
	now      Clock
}

// NewCatalogService wires the premium service catalogue.
func NewCatalogService(services ServiceRepository, users UserRepository, clock Clock) CatalogService {
	if clock == nil {
		clock = systemClock
	}
	return &catalogService{services: services, users: users, now: clock}
}

func (s *catalogService) Create(ctx context.Context, professionalID string, draft domain.ServiceDraft) (*domain.PremiumService, error) {
	user, err := s.users.FindByID(ctx, professionalID)
	if err != nil {
		return nil, err
	}
	if !user.IsProfessional() || !user.IsActive() {
		return nil, domain.ErrForbidden
	}
	now := s.now()
	svc := &domain.PremiumService{
		ProfessionalID: professionalID,
		Active:         true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := draft.Apply(svc); err != nil {
		return nil, err
	}
	if err := s.services.Create(ctx, svc); err != nil {
		return nil, err
	}
	return svc, nil
}

func (s *catalogService) owned(ctx context.Context, professionalID, id string) (*domain.PremiumService, error) {
	svc, err := s.services.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if svc.ProfessionalID != professionalID {
		return nil, domain.ErrForbidden
	}
	return svc, nil
}

func (s *catalogService) Update(ctx context.Context, professionalID, id string, draft domain.ServiceDraft) (*domain.PremiumService, error) {
	svc, err := s.owned(ctx, professionalID, id)
	if err != nil {
		return nil, err
	}
	if err := draft.Apply(svc); err != nil {
		return nil, err
	}
	svc.UpdatedAt = s.now()
	if err := s.services.Update(ctx, svc); err != nil {
		return nil, err
	}
	return svc, nil
}

// Deactivate hides the service from the catalogue. Payments keep referencing it.
func (s *catalogService) Deactivate(ctx context.Context, professionalID, id string) error {
	svc, err := s.owned(ctx, professionalID, id)
	if err != nil {
		return err
	}
	if !svc.Active {
		return nil
	}
	svc.Active = false
	svc.UpdatedAt = s.now()
	return s.services.Update(ctx, svc)
}

func (s *catalogService) Get(ctx context.Context, id string) (*domain.PremiumService, error) {
	svc, err := s.services.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !svc.Active {
		return nil, domain.ErrNotFound
	}
	return svc, nil
}

func (s *catalogService) List(ctx context.Context, filter ServiceFilter, paging Paging) ([]domain.PremiumService, int64, error) {
	switch paging.Sort {
	case "", "newest", "price_asc", "price_desc":
	default:
		return nil, 0, domain.Invalid("sort", "must be newest, price_asc or price_desc")
	}
	return s.services.Find(ctx, filter, paging)
}
