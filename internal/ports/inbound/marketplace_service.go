package inbound

import (
	"context"

	"gigflow-marketplace-service/internal/domain/bid"
	"gigflow-marketplace-service/internal/domain/gig"
	"gigflow-marketplace-service/internal/domain/shared"

	"github.com/google/uuid"
)

// GigService defines the interface for gig operations
type GigService interface {
	// CreateGig creates a new open gig
	CreateGig(ctx context.Context, req CreateGigRequest) (*gig.Gig, error)

	// GetGig retrieves a gig by ID
	GetGig(ctx context.Context, gigID uuid.UUID) (*gig.Gig, error)

	// ListOpenGigs retrieves open gigs, optionally filtered by a search term
	ListOpenGigs(ctx context.Context, req ListGigsRequest) ([]*gig.Gig, error)

	// GetMyGigs retrieves all gigs owned by a user, open and assigned
	GetMyGigs(ctx context.Context, ownerID uuid.UUID) ([]*gig.Gig, error)
}

// BidService defines the interface for bid operations
type BidService interface {
	// SubmitBid validates and persists a new pending bid on an open gig
	SubmitBid(ctx context.Context, req SubmitBidRequest) (*BidView, error)

	// Hire atomically assigns the gig to the chosen bid, rejecting all other
	// pending bids, and notifies the hired freelancer
	Hire(ctx context.Context, req HireRequest) (*HireResult, error)

	// GetBidsForGig retrieves all bids for a gig; gig owner only
	GetBidsForGig(ctx context.Context, gigID, requesterID uuid.UUID) ([]*BidView, error)

	// GetMyBids retrieves all bids submitted by a freelancer
	GetMyBids(ctx context.Context, freelancerID uuid.UUID) ([]*BidView, error)
}

// request to create a gig
type CreateGigRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Budget      float64   `json:"budget"`
	OwnerID     uuid.UUID `json:"owner_id"`
}

// request to list open gigs
type ListGigsRequest struct {
	Search   string `json:"search,omitempty"`
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
}

// request to submit a bid
type SubmitBidRequest struct {
	GigID        uuid.UUID `json:"gig_id"`
	FreelancerID uuid.UUID `json:"freelancer_id"`
	Message      string    `json:"message"`
	Price        float64   `json:"price"`
}

// request to hire the freelancer behind a bid
type HireRequest struct {
	BidID       uuid.UUID `json:"bid_id"`
	RequesterID uuid.UUID `json:"requester_id"`
}

// BidView is a read-side projection of a bid with display fields resolved by
// explicit lookups, independent of the storage layer
type BidView struct {
	bid.Bid
	Freelancer *shared.User `json:"freelancer,omitempty"`
	GigTitle   string       `json:"gig_title,omitempty"`
}

// HireResult is the authoritative post-commit view returned by Hire: the hired
// bid plus every sibling bid in its terminal status
type HireResult struct {
	Bid     *BidView   `json:"bid"`
	AllBids []*BidView `json:"all_bids"`
}
