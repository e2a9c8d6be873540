package dashboard

import (
	"time"

	"github.com/google/uuid"
)

// UsageItem is one bar of a grouped-count chart.
type UsageItem struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Stats is the dashboard overview payload.
type Stats struct {
	TotalPatients                 int64          `json:"total_patients"`
	SessionsLast30Days            int64          `json:"sessions_last_30_days"`
	TotalWeightLostKg             float64        `json:"total_weight_lost_kg"`
	ActivatorsUsage               []UsageItem    `json:"activators_usage"`
	MedicationsPreference         []UsageItem    `json:"medications_preference"`
	GenderDistribution            map[string]int `json:"gender_distribution"`
	TreatmentLocationDistribution map[string]int `json:"treatment_location_distribution"`
	AverageAge                    float64        `json:"average_age"`
}

// WeightLossEntry is one row of the weight-loss ranking.
type WeightLossEntry struct {
	Rank            int       `json:"rank"`
	PatientID       uuid.UUID `json:"patient_id"`
	PatientName     string    `json:"patient_name"`
	InitialWeightKg float64   `json:"initial_weight_kg"`
	FinalWeightKg   float64   `json:"final_weight_kg"`
	WeightLossKg    float64   `json:"weight_loss_kg"`
	SessionsCount   int       `json:"sessions_count"`
}

// WeightGainEntry is one row of the weight-gain ranking.
type WeightGainEntry struct {
	Rank            int       `json:"rank"`
	PatientID       uuid.UUID `json:"patient_id"`
	PatientName     string    `json:"patient_name"`
	InitialWeightKg float64   `json:"initial_weight_kg"`
	FinalWeightKg   float64   `json:"final_weight_kg"`
	WeightGainKg    float64   `json:"weight_gain_kg"`
	SessionsCount   int       `json:"sessions_count"`
}

// RankingResponse wraps a ranking with its date window.
type RankingResponse[T any] struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Items     []T    `json:"items"`
}

// DosageGroup is one row of the medication/dosage report: how many distinct
// patients received a given medication at a given dosage within the window.
type DosageGroup struct {
	MedicationName string  `json:"medication_name"`
	DosageMg       float64 `json:"dosage_mg"`
	PatientCount   int     `json:"patient_count"`
}

// weightEndpoints is the repo-level reduction row: a patient's earliest and
// latest body-composition-bearing sessions inside a window.
type weightEndpoints struct {
	PatientID      uuid.UUID
	PatientName    string
	FirstWeightKg  float64
	LastWeightKg   float64
	FirstSessionID uuid.UUID
	LastSessionID  uuid.UUID
	SessionCount   int
}

// Window is an inclusive day-boundary date range.
type Window struct {
	From time.Time
	To   time.Time
}
