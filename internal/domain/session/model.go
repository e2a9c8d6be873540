package session

import (
	"time"

	"github.com/google/uuid"

	"github.com/pilares/clinic-api/internal/domain/activator"
	"github.com/pilares/clinic-api/internal/domain/medication"
)

// Session is one treatment visit within a cycle, pairing a medication and
// optional activator dosage event with a body-composition measurement.
type Session struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	CycleID      uuid.UUID  `db:"cycle_id" json:"cycle_id"`
	MedicationID uuid.UUID  `db:"medication_id" json:"medication_id"`
	ActivatorID  *uuid.UUID `db:"activator_id" json:"activator_id"`
	DosageMg     *float64   `db:"dosage_mg" json:"dosage_mg"`
	SessionDate  time.Time  `db:"session_date" json:"session_date"`
	Notes        *string    `db:"notes" json:"notes"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`

	Medication      *medication.Medication `json:"medication,omitempty"`
	Activator       *activator.Activator   `json:"activator,omitempty"`
	BodyComposition *BodyComposition       `json:"body_composition,omitempty"`
}

// BodyComposition is a snapshot of body metrics tied 1:1 to a session. The
// patient reference is denormalized from the session's cycle.
type BodyComposition struct {
	ID                   uuid.UUID `db:"id" json:"id"`
	PatientID            uuid.UUID `db:"patient_id" json:"patient_id"`
	SessionID            uuid.UUID `db:"session_id" json:"session_id"`
	WeightKg             float64   `db:"weight_kg" json:"weight_kg"`
	FatPercentage        float64   `db:"fat_percentage" json:"fat_percentage"`
	FatKg                float64   `db:"fat_kg" json:"fat_kg"`
	MuscleMassPercentage float64   `db:"muscle_mass_percentage" json:"muscle_mass_percentage"`
	H2OPercentage        float64   `db:"h2o_percentage" json:"h2o_percentage"`
	MetabolicAge         int       `db:"metabolic_age" json:"metabolic_age"`
	VisceralFat          int       `db:"visceral_fat" json:"visceral_fat"`
	CreatedAt            time.Time `db:"created_at" json:"created_at"`
}

// BodyCompositionInput carries the measurement fields for creating or
// replacing a session's body composition.
type BodyCompositionInput struct {
	WeightKg             float64 `json:"weight_kg"`
	FatPercentage        float64 `json:"fat_percentage"`
	FatKg                float64 `json:"fat_kg"`
	MuscleMassPercentage float64 `json:"muscle_mass_percentage"`
	H2OPercentage        float64 `json:"h2o_percentage"`
	MetabolicAge         int     `json:"metabolic_age"`
	VisceralFat          int     `json:"visceral_fat"`
}

// CreateInput is the payload for creating a session within a cycle.
type CreateInput struct {
	CycleID         uuid.UUID             `json:"cycle_id"`
	SessionDate     time.Time             `json:"session_date"`
	Notes           *string               `json:"notes"`
	MedicationID    uuid.UUID             `json:"medication_id"`
	ActivatorID     *uuid.UUID            `json:"activator_id"`
	DosageMg        *float64              `json:"dosage_mg"`
	BodyComposition *BodyCompositionInput `json:"body_composition"`
}
