package domain

import (
	"time"

	"github.com/google/uuid"
)

// User anchors ledger foreign keys. Credential handling lives outside this
// core; the PIN is stored as an opaque string set by the admin flow.
type User struct {
	ID        uuid.UUID
	Name      string
	Email     string
	Pin       string
	IsAdmin   bool
	CreatedAt time.Time
}
