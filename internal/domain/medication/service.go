package medication

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/pilares/clinic-api/internal/platform/apperr"
)

type Service struct {
	medications Repository
}

func NewService(medications Repository) *Service {
	return &Service{medications: medications}
}

func (s *Service) Create(ctx context.Context, m *Medication) error {
	m.Name = strings.TrimSpace(m.Name)
	if m.Name == "" {
		return apperr.Validation("name is required")
	}
	return s.medications.Create(ctx, m)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Medication, error) {
	return s.medications.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*Medication, error) {
	return s.medications.List(ctx)
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, name string) (*Medication, error) {
	m, err := s.medications.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.Validation("name is required")
	}
	m.Name = name
	if err := s.medications.Update(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// Delete removes a medication. Deletion is rejected while any session still
// references it.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.medications.Delete(ctx, id)
	if apperr.IsKind(err, apperr.KindIntegrity) {
		return apperr.Integrity("cannot delete medication linked to sessions")
	}
	return err
}
