package session

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, s *Session) error
	GetByID(ctx context.Context, id uuid.UUID) (*Session, error)
	ListByCycle(ctx context.Context, cycleID uuid.UUID) ([]*Session, error)
	CountByCycle(ctx context.Context, cycleID uuid.UUID) (int, error)
	Update(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id uuid.UUID) error

	CreateBodyComposition(ctx context.Context, bc *BodyComposition) error
	UpdateBodyComposition(ctx context.Context, bc *BodyComposition) error
	GetBodyCompositionBySession(ctx context.Context, sessionID uuid.UUID) (*BodyComposition, error)
}
