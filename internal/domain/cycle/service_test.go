package cycle

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/pilares/clinic-api/internal/platform/apperr"
)

type mockRepo struct {
	cycles map[uuid.UUID]*Cycle
}

func newMockRepo() *mockRepo {
	return &mockRepo{cycles: make(map[uuid.UUID]*Cycle)}
}

func (m *mockRepo) Create(ctx context.Context, c *Cycle) error {
	c.ID = uuid.New()
	cp := *c
	m.cycles[c.ID] = &cp
	return nil
}

func (m *mockRepo) GetByID(ctx context.Context, id uuid.UUID) (*Cycle, error) {
	c, ok := m.cycles[id]
	if !ok {
		return nil, apperr.NotFound("cycle")
	}
	cp := *c
	return &cp, nil
}

func (m *mockRepo) GetForUpdate(ctx context.Context, id uuid.UUID) (*Cycle, error) {
	return m.GetByID(ctx, id)
}

func (m *mockRepo) List(ctx context.Context) ([]*Cycle, error) {
	var items []*Cycle
	for _, c := range m.cycles {
		cp := *c
		items = append(items, &cp)
	}
	return items, nil
}

func (m *mockRepo) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Cycle, error) {
	var items []*Cycle
	for _, c := range m.cycles {
		if c.PatientID == patientID {
			cp := *c
			items = append(items, &cp)
		}
	}
	return items, nil
}

func (m *mockRepo) Update(ctx context.Context, c *Cycle) error {
	if _, ok := m.cycles[c.ID]; !ok {
		return apperr.NotFound("cycle")
	}
	cp := *c
	m.cycles[c.ID] = &cp
	return nil
}

func (m *mockRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.cycles[id]; !ok {
		return apperr.NotFound("cycle")
	}
	delete(m.cycles, id)
	return nil
}

type mockPatients struct {
	existing map[uuid.UUID]bool
}

func (m *mockPatients) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	return m.existing[id], nil
}

func newTestService() (*Service, *mockPatients) {
	patients := &mockPatients{existing: make(map[uuid.UUID]bool)}
	return NewService(newMockRepo(), patients), patients
}

func validCycle(patientID uuid.UUID) *Cycle {
	return &Cycle{
		PatientID:   patientID,
		MaxSessions: 8,
		Periodicity: PeriodicityWeekly,
		CycleDate:   time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC),
	}
}

func TestCreateCycle(t *testing.T) {
	svc, patients := newTestService()
	patientID := uuid.New()
	patients.existing[patientID] = true

	c := validCycle(patientID)
	if err := svc.Create(context.Background(), c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Type != TypeNormal {
		t.Errorf("expected default type normal, got %s", c.Type)
	}
}

func TestCreateCycleUnknownPatient(t *testing.T) {
	svc, _ := newTestService()

	err := svc.Create(context.Background(), validCycle(uuid.New()))
	if !apperr.IsKind(err, apperr.KindNotFound) {
		t.Errorf("expected not found error, got %v", err)
	}
}

func TestCreateCycleMaxSessionsBelowOne(t *testing.T) {
	svc, patients := newTestService()
	patientID := uuid.New()
	patients.existing[patientID] = true

	c := validCycle(patientID)
	c.MaxSessions = 0
	err := svc.Create(context.Background(), c)
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestUpdateCycleRejectsInvalidMaxSessions(t *testing.T) {
	svc, patients := newTestService()
	patientID := uuid.New()
	patients.existing[patientID] = true

	c := validCycle(patientID)
	if err := svc.Create(context.Background(), c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bad := 0
	_, err := svc.Update(context.Background(), c.ID, UpdateInput{MaxSessions: &bad})
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestListByPatientUnknownPatient(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.ListByPatient(context.Background(), uuid.New())
	if !apperr.IsKind(err, apperr.KindNotFound) {
		t.Errorf("expected not found error, got %v", err)
	}
}
