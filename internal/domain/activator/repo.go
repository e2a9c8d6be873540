package activator

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, a *Activator) error
	GetByID(ctx context.Context, id uuid.UUID) (*Activator, error)
	List(ctx context.Context) ([]*Activator, error)
	UpdateName(ctx context.Context, id uuid.UUID, name string) error
	Delete(ctx context.Context, id uuid.UUID) error

	AddComposition(ctx context.Context, activatorID, substanceID uuid.UUID, volumeML float64) error
	DeleteCompositions(ctx context.Context, activatorID uuid.UUID) error
	CompositionExists(ctx context.Context, activatorID, substanceID uuid.UUID) (bool, error)
}
