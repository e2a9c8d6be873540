package substance

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, s *Substance) error
	GetByID(ctx context.Context, id uuid.UUID) (*Substance, error)
	List(ctx context.Context) ([]*Substance, error)
	Update(ctx context.Context, s *Substance) error
	Delete(ctx context.Context, id uuid.UUID) error
}
