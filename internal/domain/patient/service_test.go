package patient

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/pilares/clinic-api/internal/domain/medication"
	"github.com/pilares/clinic-api/internal/platform/apperr"
	"github.com/pilares/clinic-api/pkg/dateonly"
	"github.com/pilares/clinic-api/pkg/pagination"
)

type mockRepo struct {
	patients  map[uuid.UUID]*Patient
	created   []uuid.UUID // insertion order
	endpoints map[uuid.UUID][2]*SessionEndpoint
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		patients:  make(map[uuid.UUID]*Patient),
		endpoints: make(map[uuid.UUID][2]*SessionEndpoint),
	}
}

func (m *mockRepo) Create(ctx context.Context, p *Patient) error {
	p.ID = uuid.New()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	cp := *p
	m.patients[p.ID] = &cp
	m.created = append(m.created, p.ID)
	return nil
}

func (m *mockRepo) GetByID(ctx context.Context, id uuid.UUID) (*Patient, error) {
	p, ok := m.patients[id]
	if !ok {
		return nil, apperr.NotFound("patient")
	}
	cp := *p
	return &cp, nil
}

func (m *mockRepo) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	_, ok := m.patients[id]
	return ok, nil
}

func (m *mockRepo) Update(ctx context.Context, p *Patient) error {
	if _, ok := m.patients[p.ID]; !ok {
		return apperr.NotFound("patient")
	}
	cp := *p
	m.patients[p.ID] = &cp
	return nil
}

func (m *mockRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.patients[id]; !ok {
		return apperr.NotFound("patient")
	}
	delete(m.patients, id)
	return nil
}

func (m *mockRepo) ListPage(ctx context.Context, nameFilter string, limit, offset int) ([]listRow, int64, error) {
	var all []*Patient
	for _, p := range m.patients {
		all = append(all, p)
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID.String() > all[j].ID.String()
	})

	total := int64(len(all))
	var rows []listRow
	for i := offset; i < len(all) && len(rows) < limit; i++ {
		p := all[i]
		rows = append(rows, listRow{
			ID:            p.ID,
			Name:          p.Name,
			ProcessNumber: p.ProcessNumber,
			Gender:        p.Gender,
			BirthDate:     p.BirthDate,
			CreatedAt:     p.CreatedAt,
		})
	}
	return rows, total, nil
}

func (m *mockRepo) SearchByName(ctx context.Context, name string, limit, offset int) ([]*Patient, error) {
	return nil, nil
}

func (m *mockRepo) SessionEndpoints(ctx context.Context, id uuid.UUID) (*SessionEndpoint, *SessionEndpoint, error) {
	eps := m.endpoints[id]
	return eps[0], eps[1], nil
}

type mockMedRepo struct {
	medications map[uuid.UUID]*medication.Medication
}

func newMockMedRepo() *mockMedRepo {
	return &mockMedRepo{medications: make(map[uuid.UUID]*medication.Medication)}
}

func (m *mockMedRepo) Create(ctx context.Context, med *medication.Medication) error {
	med.ID = uuid.New()
	cp := *med
	m.medications[med.ID] = &cp
	return nil
}

func (m *mockMedRepo) GetByID(ctx context.Context, id uuid.UUID) (*medication.Medication, error) {
	med, ok := m.medications[id]
	if !ok {
		return nil, apperr.NotFound("medication")
	}
	cp := *med
	return &cp, nil
}

func (m *mockMedRepo) List(ctx context.Context) ([]*medication.Medication, error) { return nil, nil }
func (m *mockMedRepo) Update(ctx context.Context, med *medication.Medication) error {
	return nil
}
func (m *mockMedRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }

func newTestService() (*Service, *mockRepo, *mockMedRepo) {
	repo := newMockRepo()
	meds := newMockMedRepo()
	return NewService(repo, meds), repo, meds
}

func validPatient() *Patient {
	return &Patient{
		Name:      "Maria Silva",
		Gender:    GenderFemale,
		BirthDate: dateonly.New(1985, time.March, 12),
	}
}

func TestCreatePatientDefaults(t *testing.T) {
	svc, _, _ := newTestService()

	p := validPatient()
	if err := svc.Create(context.Background(), p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.TreatmentLocation != LocationClinic {
		t.Errorf("expected default location clinic, got %s", p.TreatmentLocation)
	}
	if p.Status != StatusActive {
		t.Errorf("expected default status active, got %s", p.Status)
	}
}

func TestCreatePatientInvalidGender(t *testing.T) {
	svc, _, _ := newTestService()

	p := validPatient()
	p.Gender = "other"
	err := svc.Create(context.Background(), p)
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestCreatePatientUnknownPreferredMedication(t *testing.T) {
	svc, _, _ := newTestService()

	medID := uuid.New()
	p := validPatient()
	p.PreferredMedicationID = &medID
	err := svc.Create(context.Background(), p)
	if !apperr.IsKind(err, apperr.KindNotFound) {
		t.Errorf("expected not found error, got %v", err)
	}
}

func TestCreatePatientWithPreferredMedication(t *testing.T) {
	svc, _, meds := newTestService()

	med := medication.Medication{Name: "Semaglutide"}
	if err := meds.Create(context.Background(), &med); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	p := validPatient()
	p.PreferredMedicationID = &med.ID
	if err := svc.Create(context.Background(), p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestUpdatePatientPartial(t *testing.T) {
	svc, _, _ := newTestService()

	p := validPatient()
	if err := svc.Create(context.Background(), p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	status := StatusCompleted
	updated, err := svc.Update(context.Background(), p.ID, UpdateInput{Status: &status})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Status != StatusCompleted {
		t.Errorf("expected status completed, got %s", updated.Status)
	}
	if updated.Name != "Maria Silva" {
		t.Errorf("expected name untouched, got %s", updated.Name)
	}
}

func TestAgeAt(t *testing.T) {
	tests := []struct {
		name  string
		birth dateonly.Date
		now   time.Time
		want  int
	}{
		{"birthday passed", dateonly.New(1990, time.March, 10), time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC), 34},
		{"birthday not yet", dateonly.New(1990, time.September, 10), time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC), 33},
		{"birthday today", dateonly.New(1990, time.June, 1), time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC), 34},
		{"same month earlier day", dateonly.New(1990, time.June, 15), time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC), 33},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AgeAt(tt.birth.Time, tt.now); got != tt.want {
				t.Errorf("expected age %d, got %d", tt.want, got)
			}
		})
	}
}

func TestListOrderAndEnvelope(t *testing.T) {
	svc, repo, _ := newTestService()

	base := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		p := validPatient()
		p.CreatedAt = base.Add(time.Duration(i) * time.Hour)
		if err := svc.Create(context.Background(), p); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		repo.patients[p.ID].CreatedAt = p.CreatedAt
	}

	resp, err := svc.List(context.Background(), "", pagination.Params{Page: 1, PageSize: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resp.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(resp.Items))
	}
	if !resp.HasNext {
		t.Error("expected has_next true")
	}
	if resp.Total != 3 {
		t.Errorf("expected total 3, got %d", resp.Total)
	}
	if resp.Items[0].CreatedAt.Before(resp.Items[1].CreatedAt) {
		t.Error("expected newest-first ordering")
	}
}

func TestSummaryIncludesEndpoints(t *testing.T) {
	svc, repo, _ := newTestService()

	p := validPatient()
	if err := svc.Create(context.Background(), p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	first := &SessionEndpoint{
		SessionDate: time.Date(2024, time.January, 10, 10, 0, 0, 0, time.UTC),
		Body:        BodyCompositionSummary{WeightKg: 85.2},
	}
	last := &SessionEndpoint{
		SessionDate: time.Date(2024, time.February, 15, 10, 0, 0, 0, time.UTC),
		Body:        BodyCompositionSummary{WeightKg: 82.7},
	}
	repo.endpoints[p.ID] = [2]*SessionEndpoint{first, last}

	sum, err := svc.Summary(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sum.FirstSessionDate == nil || !sum.FirstSessionDate.Equal(first.SessionDate) {
		t.Error("expected first session date to be populated")
	}
	if sum.BodyCompositionLatest == nil || sum.BodyCompositionLatest.WeightKg != 82.7 {
		t.Error("expected latest body composition to be populated")
	}
}

func TestSummaryNoSessions(t *testing.T) {
	svc, _, _ := newTestService()

	p := validPatient()
	if err := svc.Create(context.Background(), p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sum, err := svc.Summary(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sum.FirstSessionDate != nil || sum.BodyCompositionInitial != nil {
		t.Error("expected empty endpoints for patient with no sessions")
	}
}
