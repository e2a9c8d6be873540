package cycle

import (
	"time"

	"github.com/google/uuid"
)

const (
	PeriodicityWeekly   = "weekly"
	PeriodicityBiweekly = "biweekly"
	PeriodicityMonthly  = "monthly"

	TypeNormal      = "normal"
	TypeMaintenance = "maintenance"
)

// Cycle is a bounded series of treatment sessions for one patient, capped at
// MaxSessions.
type Cycle struct {
	ID          uuid.UUID `db:"id" json:"id"`
	PatientID   uuid.UUID `db:"patient_id" json:"patient_id"`
	MaxSessions int       `db:"max_sessions" json:"max_sessions"`
	Periodicity string    `db:"periodicity" json:"periodicity"`
	Type        string    `db:"type" json:"type"`
	CycleDate   time.Time `db:"cycle_date" json:"cycle_date"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
