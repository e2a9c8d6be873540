package activator

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/pilares/clinic-api/internal/domain/substance"
	"github.com/pilares/clinic-api/internal/platform/apperr"
	"github.com/pilares/clinic-api/internal/platform/db"
)

type Service struct {
	activators Repository
	substances substance.Repository
	tx         db.TxRunner
}

func NewService(activators Repository, substances substance.Repository, tx db.TxRunner) *Service {
	return &Service{activators: activators, substances: substances, tx: tx}
}

// validateSubstances checks that every referenced substance exists.
func (s *Service) validateSubstances(ctx context.Context, items []CompositionInput) error {
	seen := make(map[uuid.UUID]bool, len(items))
	for _, item := range items {
		if seen[item.SubstanceID] {
			continue
		}
		seen[item.SubstanceID] = true
		if _, err := s.substances.GetByID(ctx, item.SubstanceID); err != nil {
			if apperr.IsKind(err, apperr.KindNotFound) {
				return apperr.NotFound("one or more substances")
			}
			return err
		}
	}
	return nil
}

func (s *Service) Create(ctx context.Context, name string, compositions []CompositionInput) (*Activator, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.Validation("name is required")
	}
	if err := s.validateSubstances(ctx, compositions); err != nil {
		return nil, err
	}

	a := Activator{Name: name}
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		if err := s.activators.Create(ctx, &a); err != nil {
			return err
		}
		for _, item := range compositions {
			if err := s.activators.AddComposition(ctx, a.ID, item.SubstanceID, item.VolumeML); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.activators.GetByID(ctx, a.ID)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Activator, error) {
	return s.activators.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*Activator, error) {
	return s.activators.List(ctx)
}

// UpdateInput carries the optional fields of an activator update. A nil
// Compositions leaves the existing composition set untouched; a non-nil one
// replaces it entirely.
type UpdateInput struct {
	Name         *string            `json:"name"`
	Compositions []CompositionInput `json:"compositions"`
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, in UpdateInput) (*Activator, error) {
	if _, err := s.activators.GetByID(ctx, id); err != nil {
		return nil, err
	}

	if in.Compositions != nil {
		if err := s.validateSubstances(ctx, in.Compositions); err != nil {
			return nil, err
		}
	}

	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		if in.Name != nil {
			name := strings.TrimSpace(*in.Name)
			if name == "" {
				return apperr.Validation("name is required")
			}
			if err := s.activators.UpdateName(ctx, id, name); err != nil {
				return err
			}
		}
		if in.Compositions != nil {
			if err := s.activators.DeleteCompositions(ctx, id); err != nil {
				return err
			}
			for _, item := range in.Compositions {
				if err := s.activators.AddComposition(ctx, id, item.SubstanceID, item.VolumeML); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.activators.GetByID(ctx, id)
}

// AddSubstance links one more substance to an existing activator. Linking the
// same substance twice is rejected.
func (s *Service) AddSubstance(ctx context.Context, id uuid.UUID, in CompositionInput) (*Activator, error) {
	if _, err := s.activators.GetByID(ctx, id); err != nil {
		return nil, err
	}
	if _, err := s.substances.GetByID(ctx, in.SubstanceID); err != nil {
		return nil, err
	}

	exists, err := s.activators.CompositionExists(ctx, id, in.SubstanceID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperr.Conflict("substance already linked to this activator")
	}

	if err := s.activators.AddComposition(ctx, id, in.SubstanceID, in.VolumeML); err != nil {
		return nil, err
	}
	return s.activators.GetByID(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.activators.Delete(ctx, id)
}
