package substance

import (
	"time"

	"github.com/google/uuid"
)

// Substance is an ingredient that activators are composed of.
type Substance struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
