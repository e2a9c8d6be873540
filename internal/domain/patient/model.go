package patient

import (
	"time"

	"github.com/google/uuid"

	"github.com/pilares/clinic-api/internal/domain/medication"
	"github.com/pilares/clinic-api/pkg/dateonly"
)

const (
	GenderMale   = "male"
	GenderFemale = "female"

	LocationClinic = "clinic"
	LocationHome   = "home"

	StatusActive    = "active"
	StatusInactive  = "inactive"
	StatusCompleted = "completed"
)

// Patient is a clinic client undergoing treatment cycles.
type Patient struct {
	ID                    uuid.UUID     `db:"id" json:"id"`
	Name                  string        `db:"name" json:"name"`
	Gender                string        `db:"gender" json:"gender"`
	BirthDate             dateonly.Date `db:"birth_date" json:"birth_date"`
	ProcessNumber         *string       `db:"process_number" json:"process_number"`
	TreatmentLocation     string        `db:"treatment_location" json:"treatment_location"`
	Status                string        `db:"status" json:"status"`
	PreferredMedicationID *uuid.UUID    `db:"preferred_medication_id" json:"preferred_medication_id,omitempty"`
	CreatedAt             time.Time     `db:"created_at" json:"created_at"`

	PreferredMedication *medication.Medication `json:"preferred_medication,omitempty"`
}

// ListItem is one row of the paginated patient listing, joined with derived
// metadata.
type ListItem struct {
	ID                 uuid.UUID  `json:"id"`
	Name               string     `json:"name"`
	ProcessNumber      *string    `json:"process_number"`
	Gender             string     `json:"gender"`
	Age                int        `json:"age"`
	CurrentCycleNumber int        `json:"current_cycle_number"`
	LastSessionDate    *time.Time `json:"last_session_date"`
	CreatedAt          time.Time  `json:"created_at"`
}

// listRow is the repo-level row backing ListItem, before age computation.
type listRow struct {
	ID              uuid.UUID
	Name            string
	ProcessNumber   *string
	Gender          string
	BirthDate       dateonly.Date
	CycleCount      int
	LastSessionDate *time.Time
	CreatedAt       time.Time
}

// BodyCompositionSummary is the measurement snapshot embedded in the patient
// summary.
type BodyCompositionSummary struct {
	RegisteredAt         time.Time `json:"registered_at"`
	WeightKg             float64   `json:"weight_kg"`
	FatPercentage        float64   `json:"fat_percentage"`
	FatKg                float64   `json:"fat_kg"`
	MuscleMassPercentage float64   `json:"muscle_mass_percentage"`
	H2OPercentage        float64   `json:"h2o_percentage"`
	MetabolicAge         int       `json:"metabolic_age"`
	VisceralFat          int       `json:"visceral_fat"`
}

// Summary is the consolidated client record: patient fields plus first/last
// session dates and the initial/latest body compositions.
type Summary struct {
	ID                     uuid.UUID               `json:"id"`
	Name                   string                  `json:"name"`
	ProcessNumber          *string                 `json:"process_number"`
	BirthDate              dateonly.Date           `json:"birth_date"`
	Gender                 string                  `json:"gender"`
	TreatmentLocation      string                  `json:"treatment_location"`
	Status                 string                  `json:"status"`
	PreferredMedication    *medication.Medication  `json:"preferred_medication"`
	CreatedAt              time.Time               `json:"created_at"`
	FirstSessionDate       *time.Time              `json:"first_session_date"`
	LastSessionDate        *time.Time              `json:"last_session_date"`
	BodyCompositionInitial *BodyCompositionSummary `json:"body_composition_initial"`
	BodyCompositionLatest  *BodyCompositionSummary `json:"body_composition_latest"`
}
