package substance

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/pilares/clinic-api/internal/platform/apperr"
)

type Service struct {
	substances Repository
}

func NewService(substances Repository) *Service {
	return &Service{substances: substances}
}

func (s *Service) Create(ctx context.Context, sub *Substance) error {
	sub.Name = strings.TrimSpace(sub.Name)
	if sub.Name == "" {
		return apperr.Validation("name is required")
	}
	return s.substances.Create(ctx, sub)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Substance, error) {
	return s.substances.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*Substance, error) {
	return s.substances.List(ctx)
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, name string) (*Substance, error) {
	sub, err := s.substances.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.Validation("name is required")
	}
	sub.Name = name
	if err := s.substances.Update(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.substances.Delete(ctx, id)
}
