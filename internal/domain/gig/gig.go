package gig

import (
	"time"

	"github.com/google/uuid"
)

// Status represents the current status of a gig
type Status string

const (
	StatusOpen     Status = "open"
	StatusAssigned Status = "assigned"
)

// Gig represents a unit of work posted by an owner, open for bidding until assigned
type Gig struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Budget      float64   `json:"budget"`
	OwnerID     uuid.UUID `json:"owner_id"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// IsOpen returns true if the gig is still accepting bids
func (g *Gig) IsOpen() bool {
	return g.Status == StatusOpen
}

// IsAssigned returns true if the gig has been assigned to a freelancer
func (g *Gig) IsAssigned() bool {
	return g.Status == StatusAssigned
}

// IsOwnedBy returns true if the given user owns this gig
func (g *Gig) IsOwnedBy(userID uuid.UUID) bool {
	return g.OwnerID == userID
}

// Assign marks the gig as assigned. The only forward transition; there is no
// way back to open.
func (g *Gig) Assign() {
	g.Status = StatusAssigned
	g.UpdatedAt = time.Now()
}
