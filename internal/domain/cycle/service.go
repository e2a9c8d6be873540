package cycle

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/pilares/clinic-api/internal/platform/apperr"
)

var (
	validPeriodicities = map[string]bool{
		PeriodicityWeekly: true, PeriodicityBiweekly: true, PeriodicityMonthly: true,
	}
	validTypes = map[string]bool{TypeNormal: true, TypeMaintenance: true}
)

type Service struct {
	cycles   Repository
	patients PatientChecker
}

func NewService(cycles Repository, patients PatientChecker) *Service {
	return &Service{cycles: cycles, patients: patients}
}

func (s *Service) validate(c *Cycle) error {
	if c.MaxSessions < 1 {
		return apperr.Validation("max_sessions must be at least 1")
	}
	if !validPeriodicities[c.Periodicity] {
		return apperr.Validation("periodicity must be weekly, biweekly or monthly")
	}
	if c.Type == "" {
		c.Type = TypeNormal
	}
	if !validTypes[c.Type] {
		return apperr.Validation("type must be normal or maintenance")
	}
	if c.CycleDate.IsZero() {
		return apperr.Validation("cycle_date is required")
	}
	return nil
}

func (s *Service) Create(ctx context.Context, c *Cycle) error {
	ok, err := s.patients.Exists(ctx, c.PatientID)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFound("patient")
	}
	if err := s.validate(c); err != nil {
		return err
	}
	return s.cycles.Create(ctx, c)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Cycle, error) {
	return s.cycles.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*Cycle, error) {
	return s.cycles.List(ctx)
}

func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Cycle, error) {
	ok, err := s.patients.Exists(ctx, patientID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.NotFound("patient")
	}
	return s.cycles.ListByPatient(ctx, patientID)
}

// UpdateInput carries the optional fields of a cycle update.
type UpdateInput struct {
	MaxSessions *int       `json:"max_sessions"`
	Periodicity *string    `json:"periodicity"`
	Type        *string    `json:"type"`
	CycleDate   *time.Time `json:"cycle_date"`
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, in UpdateInput) (*Cycle, error) {
	c, err := s.cycles.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.MaxSessions != nil {
		c.MaxSessions = *in.MaxSessions
	}
	if in.Periodicity != nil {
		c.Periodicity = *in.Periodicity
	}
	if in.Type != nil {
		c.Type = *in.Type
	}
	if in.CycleDate != nil {
		c.CycleDate = *in.CycleDate
	}

	if err := s.validate(c); err != nil {
		return nil, err
	}
	if err := s.cycles.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.cycles.Delete(ctx, id)
}
