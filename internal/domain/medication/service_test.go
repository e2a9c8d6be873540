package medication

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/pilares/clinic-api/internal/platform/apperr"
)

type mockRepo struct {
	medications map[uuid.UUID]*Medication
	inUse       map[uuid.UUID]bool
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		medications: make(map[uuid.UUID]*Medication),
		inUse:       make(map[uuid.UUID]bool),
	}
}

func (m *mockRepo) Create(ctx context.Context, med *Medication) error {
	for _, existing := range m.medications {
		if existing.Name == med.Name {
			return apperr.Conflict("medication already exists")
		}
	}
	med.ID = uuid.New()
	cp := *med
	m.medications[med.ID] = &cp
	return nil
}

func (m *mockRepo) GetByID(ctx context.Context, id uuid.UUID) (*Medication, error) {
	med, ok := m.medications[id]
	if !ok {
		return nil, apperr.NotFound("medication")
	}
	cp := *med
	return &cp, nil
}

func (m *mockRepo) List(ctx context.Context) ([]*Medication, error) {
	var items []*Medication
	for _, med := range m.medications {
		cp := *med
		items = append(items, &cp)
	}
	return items, nil
}

func (m *mockRepo) Update(ctx context.Context, med *Medication) error {
	if _, ok := m.medications[med.ID]; !ok {
		return apperr.NotFound("medication")
	}
	cp := *med
	m.medications[med.ID] = &cp
	return nil
}

func (m *mockRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.medications[id]; !ok {
		return apperr.NotFound("medication")
	}
	if m.inUse[id] {
		return apperr.Integrity("foreign key violation")
	}
	delete(m.medications, id)
	return nil
}

func TestCreateMedication(t *testing.T) {
	svc := NewService(newMockRepo())

	m := Medication{Name: "Semaglutide"}
	if err := svc.Create(context.Background(), &m); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.ID == uuid.Nil {
		t.Error("expected ID to be assigned")
	}
}

func TestCreateMedicationEmptyName(t *testing.T) {
	svc := NewService(newMockRepo())

	err := svc.Create(context.Background(), &Medication{Name: "   "})
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestCreateMedicationDuplicateName(t *testing.T) {
	svc := NewService(newMockRepo())

	if err := svc.Create(context.Background(), &Medication{Name: "Tirzepatide"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err := svc.Create(context.Background(), &Medication{Name: "Tirzepatide"})
	if !apperr.IsKind(err, apperr.KindConflict) {
		t.Errorf("expected conflict error, got %v", err)
	}
}

func TestDeleteMedicationInUse(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)

	m := Medication{Name: "Liraglutide"}
	if err := svc.Create(context.Background(), &m); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	repo.inUse[m.ID] = true

	err := svc.Delete(context.Background(), m.ID)
	if !apperr.IsKind(err, apperr.KindIntegrity) {
		t.Fatalf("expected integrity error, got %v", err)
	}

	repo.inUse[m.ID] = false
	if err := svc.Delete(context.Background(), m.ID); err != nil {
		t.Fatalf("expected unreferenced medication to delete, got %v", err)
	}
}

func TestUpdateMedicationNotFound(t *testing.T) {
	svc := NewService(newMockRepo())

	_, err := svc.Update(context.Background(), uuid.New(), "NewName")
	if !apperr.IsKind(err, apperr.KindNotFound) {
		t.Errorf("expected not found error, got %v", err)
	}
}
