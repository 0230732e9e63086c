package bid

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// Status represents the status of a bid
type Status string

const (
	StatusPending  Status = "pending"
	StatusHired    Status = "hired"
	StatusRejected Status = "rejected"
)

// Bid represents a freelancer's proposal (price + message) against a specific gig
type Bid struct {
	ID           uuid.UUID `json:"id"`
	GigID        uuid.UUID `json:"gig_id"`
	FreelancerID uuid.UUID `json:"freelancer_id"`
	Message      string    `json:"message"`
	Price        float64   `json:"price"`
	Status       Status    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IsValid returns true if the bid carries a non-empty message and a finite,
// non-negative price
func (b *Bid) IsValid() bool {
	return b.Message != "" && b.Price >= 0 && !math.IsInf(b.Price, 0) && !math.IsNaN(b.Price)
}

// IsPending returns true if the bid has not reached a terminal status
func (b *Bid) IsPending() bool {
	return b.Status == StatusPending
}

// Hire marks the bid as hired
func (b *Bid) Hire() {
	b.Status = StatusHired
	b.UpdatedAt = time.Now()
}

// Reject marks the bid as rejected
func (b *Bid) Reject() {
	b.Status = StatusRejected
	b.UpdatedAt = time.Now()
}

// IsHired returns true if the bid was hired
func (b *Bid) IsHired() bool {
	return b.Status == StatusHired
}

// IsRejected returns true if the bid was rejected
func (b *Bid) IsRejected() bool {
	return b.Status == StatusRejected
}
