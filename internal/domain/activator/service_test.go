package activator

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/pilares/clinic-api/internal/domain/substance"
	"github.com/pilares/clinic-api/internal/platform/apperr"
)

type mockRepo struct {
	activators   map[uuid.UUID]*Activator
	compositions map[uuid.UUID][]Composition
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		activators:   make(map[uuid.UUID]*Activator),
		compositions: make(map[uuid.UUID][]Composition),
	}
}

func (m *mockRepo) Create(ctx context.Context, a *Activator) error {
	a.ID = uuid.New()
	cp := *a
	m.activators[a.ID] = &cp
	return nil
}

func (m *mockRepo) GetByID(ctx context.Context, id uuid.UUID) (*Activator, error) {
	a, ok := m.activators[id]
	if !ok {
		return nil, apperr.NotFound("activator")
	}
	cp := *a
	cp.Compositions = append([]Composition{}, m.compositions[id]...)
	return &cp, nil
}

func (m *mockRepo) List(ctx context.Context) ([]*Activator, error) {
	var items []*Activator
	for id := range m.activators {
		a, _ := m.GetByID(ctx, id)
		items = append(items, a)
	}
	return items, nil
}

func (m *mockRepo) UpdateName(ctx context.Context, id uuid.UUID, name string) error {
	a, ok := m.activators[id]
	if !ok {
		return apperr.NotFound("activator")
	}
	a.Name = name
	return nil
}

func (m *mockRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.activators[id]; !ok {
		return apperr.NotFound("activator")
	}
	delete(m.activators, id)
	delete(m.compositions, id)
	return nil
}

func (m *mockRepo) AddComposition(ctx context.Context, activatorID, substanceID uuid.UUID, volumeML float64) error {
	m.compositions[activatorID] = append(m.compositions[activatorID], Composition{
		SubstanceID: substanceID,
		VolumeML:    volumeML,
	})
	return nil
}

func (m *mockRepo) DeleteCompositions(ctx context.Context, activatorID uuid.UUID) error {
	delete(m.compositions, activatorID)
	return nil
}

func (m *mockRepo) CompositionExists(ctx context.Context, activatorID, substanceID uuid.UUID) (bool, error) {
	for _, c := range m.compositions[activatorID] {
		if c.SubstanceID == substanceID {
			return true, nil
		}
	}
	return false, nil
}

type mockSubstanceRepo struct {
	substances map[uuid.UUID]*substance.Substance
}

func newMockSubstanceRepo() *mockSubstanceRepo {
	return &mockSubstanceRepo{substances: make(map[uuid.UUID]*substance.Substance)}
}

func (m *mockSubstanceRepo) Create(ctx context.Context, s *substance.Substance) error {
	s.ID = uuid.New()
	cp := *s
	m.substances[s.ID] = &cp
	return nil
}

func (m *mockSubstanceRepo) GetByID(ctx context.Context, id uuid.UUID) (*substance.Substance, error) {
	s, ok := m.substances[id]
	if !ok {
		return nil, apperr.NotFound("substance")
	}
	cp := *s
	return &cp, nil
}

func (m *mockSubstanceRepo) List(ctx context.Context) ([]*substance.Substance, error) {
	return nil, nil
}

func (m *mockSubstanceRepo) Update(ctx context.Context, s *substance.Substance) error { return nil }
func (m *mockSubstanceRepo) Delete(ctx context.Context, id uuid.UUID) error           { return nil }

type mockTxRunner struct{}

func (mockTxRunner) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func newTestService(t *testing.T) (*Service, *mockRepo, *mockSubstanceRepo) {
	t.Helper()
	repo := newMockRepo()
	subs := newMockSubstanceRepo()
	return NewService(repo, subs, mockTxRunner{}), repo, subs
}

func addSubstance(t *testing.T, subs *mockSubstanceRepo, name string) uuid.UUID {
	t.Helper()
	s := substance.Substance{Name: name}
	if err := subs.Create(context.Background(), &s); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return s.ID
}

func TestCreateActivatorWithCompositions(t *testing.T) {
	svc, _, subs := newTestService(t)
	subA := addSubstance(t, subs, "L-Carnitine")
	subB := addSubstance(t, subs, "Vitamin B12")

	a, err := svc.Create(context.Background(), "Lipo Mix", []CompositionInput{
		{SubstanceID: subA, VolumeML: 2.5},
		{SubstanceID: subB, VolumeML: 1.0},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(a.Compositions) != 2 {
		t.Errorf("expected 2 compositions, got %d", len(a.Compositions))
	}
}

func TestCreateActivatorUnknownSubstance(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Create(context.Background(), "Lipo Mix", []CompositionInput{
		{SubstanceID: uuid.New(), VolumeML: 2.5},
	})
	if !apperr.IsKind(err, apperr.KindNotFound) {
		t.Errorf("expected not found error, got %v", err)
	}
}

func TestUpdateActivatorReplacesCompositions(t *testing.T) {
	svc, _, subs := newTestService(t)
	subA := addSubstance(t, subs, "L-Carnitine")
	subB := addSubstance(t, subs, "Magnesium")

	a, err := svc.Create(context.Background(), "Lipo Mix", []CompositionInput{
		{SubstanceID: subA, VolumeML: 2.5},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	updated, err := svc.Update(context.Background(), a.ID, UpdateInput{
		Compositions: []CompositionInput{{SubstanceID: subB, VolumeML: 3.0}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(updated.Compositions) != 1 {
		t.Fatalf("expected 1 composition after replace, got %d", len(updated.Compositions))
	}
	if updated.Compositions[0].SubstanceID != subB {
		t.Error("expected old composition to be replaced")
	}
}

func TestUpdateActivatorNilCompositionsUntouched(t *testing.T) {
	svc, _, subs := newTestService(t)
	subA := addSubstance(t, subs, "L-Carnitine")

	a, err := svc.Create(context.Background(), "Lipo Mix", []CompositionInput{
		{SubstanceID: subA, VolumeML: 2.5},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	name := "Lipo Mix v2"
	updated, err := svc.Update(context.Background(), a.ID, UpdateInput{Name: &name})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Name != "Lipo Mix v2" {
		t.Errorf("expected renamed activator, got %s", updated.Name)
	}
	if len(updated.Compositions) != 1 {
		t.Errorf("expected compositions untouched, got %d", len(updated.Compositions))
	}
}

func TestAddSubstanceAlreadyLinked(t *testing.T) {
	svc, _, subs := newTestService(t)
	subA := addSubstance(t, subs, "L-Carnitine")

	a, err := svc.Create(context.Background(), "Lipo Mix", []CompositionInput{
		{SubstanceID: subA, VolumeML: 2.5},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = svc.AddSubstance(context.Background(), a.ID, CompositionInput{SubstanceID: subA, VolumeML: 1.0})
	if !apperr.IsKind(err, apperr.KindConflict) {
		t.Errorf("expected conflict error, got %v", err)
	}
}

func TestAddSubstanceToActivator(t *testing.T) {
	svc, _, subs := newTestService(t)
	subA := addSubstance(t, subs, "L-Carnitine")
	subB := addSubstance(t, subs, "Taurine")

	a, err := svc.Create(context.Background(), "Lipo Mix", []CompositionInput{
		{SubstanceID: subA, VolumeML: 2.5},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	updated, err := svc.AddSubstance(context.Background(), a.ID, CompositionInput{SubstanceID: subB, VolumeML: 1.5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(updated.Compositions) != 2 {
		t.Errorf("expected 2 compositions, got %d", len(updated.Compositions))
	}
}
