package shared

import (
	"github.com/google/uuid"
)

// User represents an authenticated user in the system. Registration and
// credential handling live upstream; the service only reads users for
// capability checks and display projections.
type User struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}
