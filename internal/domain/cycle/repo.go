package cycle

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, c *Cycle) error
	GetByID(ctx context.Context, id uuid.UUID) (*Cycle, error)

	// GetForUpdate loads a cycle with a row lock held for the remainder of
	// the ambient transaction. Callers must be running inside one.
	GetForUpdate(ctx context.Context, id uuid.UUID) (*Cycle, error)

	List(ctx context.Context) ([]*Cycle, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Cycle, error)
	Update(ctx context.Context, c *Cycle) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// PatientChecker reports whether a patient exists. Implemented by the patient
// repository.
type PatientChecker interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}
