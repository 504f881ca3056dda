package location

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Location represents a destination catalog services can be tied to
type Location struct {
	ID        uuid.UUID `db:"id"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`

	Name    string         `db:"name"`
	Country string         `db:"country"`
	Region  sql.NullString `db:"region"`

	Timezone sql.NullString `db:"timezone"`
	Active   bool           `db:"active"`
}
