package patient

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, p *Patient) error
	GetByID(ctx context.Context, id uuid.UUID) (*Patient, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	Update(ctx context.Context, p *Patient) error
	Delete(ctx context.Context, id uuid.UUID) error

	// ListPage returns one page of the joined listing plus the total row
	// count for the same filter.
	ListPage(ctx context.Context, nameFilter string, limit, offset int) ([]listRow, int64, error)

	// SearchByName returns patients whose name contains the given substring,
	// case-insensitively, ordered by name.
	SearchByName(ctx context.Context, name string, limit, offset int) ([]*Patient, error)

	// SessionEndpoints loads the patient's earliest and latest sessions that
	// carry a body composition, for the summary view. Either may be nil.
	SessionEndpoints(ctx context.Context, id uuid.UUID) (first, last *SessionEndpoint, err error)
}

// SessionEndpoint is one end (earliest or latest) of a patient's session
// history, with its body composition.
type SessionEndpoint struct {
	SessionDate time.Time
	Body        BodyCompositionSummary
}
