package outbound

import (
	"context"

	"gigflow-marketplace-service/internal/domain/bid"
	"gigflow-marketplace-service/internal/domain/gig"
	"gigflow-marketplace-service/internal/domain/shared"

	"github.com/google/uuid"
)

// GigRepository defines the interface for gig data operations
type GigRepository interface {
	// Create creates a new gig
	Create(ctx context.Context, gig *gig.Gig) error

	// GetByID retrieves a gig by ID
	GetByID(ctx context.Context, id uuid.UUID) (*gig.Gig, error)

	// ListOpen retrieves open gigs, optionally filtered by a search term
	// matched against title and description
	ListOpen(ctx context.Context, search string, page, pageSize int) ([]*gig.Gig, error)

	// GetByOwnerID retrieves all gigs owned by a user
	GetByOwnerID(ctx context.Context, ownerID uuid.UUID) ([]*gig.Gig, error)
}

// HireCommit is the state written by a successful hire transaction
type HireCommit struct {
	Gig      *gig.Gig
	HiredBid *bid.Bid
}

// BidRepository defines the interface for bid data operations
type BidRepository interface {
	// Create persists a new bid. The storage layer enforces uniqueness of
	// (gig_id, freelancer_id) and returns shared.ErrDuplicateBid on conflict.
	Create(ctx context.Context, bid *bid.Bid) error

	// GetByID retrieves a bid by ID
	GetByID(ctx context.Context, id uuid.UUID) (*bid.Bid, error)

	// GetByGigID retrieves all bids for a gig, newest first
	GetByGigID(ctx context.Context, gigID uuid.UUID) ([]*bid.Bid, error)

	// GetByFreelancerID retrieves all bids submitted by a freelancer, newest first
	GetByFreelancerID(ctx context.Context, freelancerID uuid.UUID) ([]*bid.Bid, error)

	// ExistsForGigAndFreelancer reports whether the freelancer already bid on
	// the gig. Advisory only; Create is the authoritative duplicate check.
	ExistsForGigAndFreelancer(ctx context.Context, gigID, freelancerID uuid.UUID) (bool, error)

	// Hire executes the hire transition as one atomic, isolated unit: it
	// re-validates the bid and its gig under lock, marks the gig assigned and
	// the bid hired, and rejects every sibling bid still pending. Either all
	// writes commit or none do. Validation failures surface as the shared
	// sentinel errors (ErrBidNotFound, ErrGigNotFound, ErrForbidden,
	// ErrGigAlreadyAssigned, ErrBidNotPending).
	Hire(ctx context.Context, bidID, requesterID uuid.UUID) (*HireCommit, error)
}

// UserRepository defines the read surface over user records. User lifecycle
// belongs to the upstream account system; this service only looks users up.
type UserRepository interface {
	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id uuid.UUID) (*shared.User, error)
}
