package medication

import (
	"time"

	"github.com/google/uuid"
)

// Medication is an administrable product referenced by sessions and by
// patients' preferred-medication field.
type Medication struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
