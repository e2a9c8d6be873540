package activator

import (
	"time"

	"github.com/google/uuid"
)

// Activator is a metabolic compound administered during sessions, built from
// weighted substance volumes.
type Activator struct {
	ID           uuid.UUID     `db:"id" json:"id"`
	Name         string        `db:"name" json:"name"`
	CreatedAt    time.Time     `db:"created_at" json:"created_at"`
	Compositions []Composition `json:"compositions"`
}

// Composition links one substance, with its volume, to an activator.
type Composition struct {
	SubstanceID   uuid.UUID `db:"substance_id" json:"substance_id"`
	VolumeML      float64   `db:"volume_ml" json:"volume_ml"`
	SubstanceName string    `db:"substance_name" json:"substance_name"`
}

// CompositionInput is the write-side shape of a composition entry.
type CompositionInput struct {
	SubstanceID uuid.UUID `json:"substance_id"`
	VolumeML    float64   `json:"volume_ml"`
}
