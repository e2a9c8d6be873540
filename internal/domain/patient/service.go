package patient

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pilares/clinic-api/internal/domain/medication"
	"github.com/pilares/clinic-api/internal/platform/apperr"
	"github.com/pilares/clinic-api/pkg/dateonly"
	"github.com/pilares/clinic-api/pkg/pagination"
)

var (
	validGenders   = map[string]bool{GenderMale: true, GenderFemale: true}
	validLocations = map[string]bool{LocationClinic: true, LocationHome: true}
	validStatuses  = map[string]bool{StatusActive: true, StatusInactive: true, StatusCompleted: true}
)

type Service struct {
	patients    Repository
	medications medication.Repository
}

func NewService(patients Repository, medications medication.Repository) *Service {
	return &Service{patients: patients, medications: medications}
}

func (s *Service) validate(ctx context.Context, p *Patient) error {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return apperr.Validation("name is required")
	}
	if !validGenders[p.Gender] {
		return apperr.Validation("gender must be male or female")
	}
	if p.TreatmentLocation == "" {
		p.TreatmentLocation = LocationClinic
	}
	if !validLocations[p.TreatmentLocation] {
		return apperr.Validation("treatment_location must be clinic or home")
	}
	if p.Status == "" {
		p.Status = StatusActive
	}
	if !validStatuses[p.Status] {
		return apperr.Validation("status must be active, inactive or completed")
	}
	if p.BirthDate.IsZero() {
		return apperr.Validation("birth_date is required")
	}
	if p.PreferredMedicationID != nil {
		if _, err := s.medications.GetByID(ctx, *p.PreferredMedicationID); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) Create(ctx context.Context, p *Patient) error {
	if err := s.validate(ctx, p); err != nil {
		return err
	}
	return s.patients.Create(ctx, p)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Patient, error) {
	p, err := s.patients.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.attachPreferredMedication(ctx, p)
	return p, nil
}

func (s *Service) attachPreferredMedication(ctx context.Context, p *Patient) {
	if p.PreferredMedicationID == nil {
		return
	}
	if m, err := s.medications.GetByID(ctx, *p.PreferredMedicationID); err == nil {
		p.PreferredMedication = m
	}
}

// UpdateInput carries the optional fields of a patient update.
type UpdateInput struct {
	Name                  *string        `json:"name"`
	Gender                *string        `json:"gender"`
	BirthDate             *dateonly.Date `json:"birth_date"`
	ProcessNumber         *string        `json:"process_number"`
	TreatmentLocation     *string        `json:"treatment_location"`
	Status                *string        `json:"status"`
	PreferredMedicationID *uuid.UUID     `json:"preferred_medication_id"`
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, in UpdateInput) (*Patient, error) {
	p, err := s.patients.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		p.Name = *in.Name
	}
	if in.Gender != nil {
		p.Gender = *in.Gender
	}
	if in.BirthDate != nil {
		p.BirthDate = *in.BirthDate
	}
	if in.ProcessNumber != nil {
		p.ProcessNumber = in.ProcessNumber
	}
	if in.TreatmentLocation != nil {
		p.TreatmentLocation = *in.TreatmentLocation
	}
	if in.Status != nil {
		p.Status = *in.Status
	}
	if in.PreferredMedicationID != nil {
		p.PreferredMedicationID = in.PreferredMedicationID
	}

	if err := s.validate(ctx, p); err != nil {
		return nil, err
	}
	if err := s.patients.Update(ctx, p); err != nil {
		return nil, err
	}
	s.attachPreferredMedication(ctx, p)
	return p, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.patients.Delete(ctx, id)
}

// List returns one page of the joined patient listing, newest first.
func (s *Service) List(ctx context.Context, nameFilter string, pg pagination.Params) (pagination.Response[ListItem], error) {
	rows, total, err := s.patients.ListPage(ctx, nameFilter, pg.PageSize, pg.Offset())
	if err != nil {
		return pagination.Response[ListItem]{}, err
	}

	now := time.Now()
	items := make([]ListItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, ListItem{
			ID:                 row.ID,
			Name:               row.Name,
			ProcessNumber:      row.ProcessNumber,
			Gender:             row.Gender,
			Age:                AgeAt(row.BirthDate.Time, now),
			CurrentCycleNumber: row.CycleCount,
			LastSessionDate:    row.LastSessionDate,
			CreatedAt:          row.CreatedAt,
		})
	}
	return pagination.NewResponse(items, pg, total), nil
}

func (s *Service) Search(ctx context.Context, name string, limit, offset int) ([]*Patient, error) {
	if limit < 1 || limit > pagination.MaxPageSize {
		limit = pagination.DefaultPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return s.patients.SearchByName(ctx, name, limit, offset)
}

// Summary assembles the consolidated client record.
func (s *Service) Summary(ctx context.Context, id uuid.UUID) (*Summary, error) {
	p, err := s.patients.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.attachPreferredMedication(ctx, p)

	first, last, err := s.patients.SessionEndpoints(ctx, id)
	if err != nil {
		return nil, err
	}

	sum := Summary{
		ID:                  p.ID,
		Name:                p.Name,
		ProcessNumber:       p.ProcessNumber,
		BirthDate:           p.BirthDate,
		Gender:              p.Gender,
		TreatmentLocation:   p.TreatmentLocation,
		Status:              p.Status,
		PreferredMedication: p.PreferredMedication,
		CreatedAt:           p.CreatedAt,
	}
	if first != nil {
		d := first.SessionDate
		b := first.Body
		sum.FirstSessionDate = &d
		sum.BodyCompositionInitial = &b
	}
	if last != nil {
		d := last.SessionDate
		b := last.Body
		sum.LastSessionDate = &d
		sum.BodyCompositionLatest = &b
	}
	return &sum, nil
}

// AgeAt computes whole-year age by calendar subtraction, adjusted when the
// reference month/day precedes the birth month/day.
func AgeAt(birthDate, now time.Time) int {
	age := now.Year() - birthDate.Year()
	if now.Month() < birthDate.Month() ||
		(now.Month() == birthDate.Month() && now.Day() < birthDate.Day()) {
		age--
	}
	if age < 0 {
		age = 0
	}
	return age
}
