package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"gigflow-marketplace-service/internal/domain/bid"
	"gigflow-marketplace-service/internal/domain/gig"
	"gigflow-marketplace-service/internal/domain/shared"
	"gigflow-marketplace-service/internal/ports/outbound"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const uniqueViolation = "23505"

// BidRepository implements the bid repository interface
type BidRepository struct {
	conn *Connection
}

// NewBidRepository creates a new bid repository
func NewBidRepository(conn *Connection) *BidRepository {
	return &BidRepository{conn: conn}
}

// Create persists a new bid. The bids table carries a UNIQUE constraint on
// (gig_id, freelancer_id); a violation maps to shared.ErrDuplicateBid so the
// loser of a concurrent double-submit gets the same typed error as the
// service-level pre-check.
func (r *BidRepository) Create(ctx context.Context, bid *bid.Bid) error {
	query := `
		INSERT INTO bids (id, gig_id, freelancer_id, message, price, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.conn.DB().ExecContext(ctx, query,
		bid.ID,
		bid.GigID,
		bid.FreelancerID,
		bid.Message,
		bid.Price,
		bid.Status,
		bid.CreatedAt,
		bid.UpdatedAt,
	)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return shared.ErrDuplicateBid
		}
		return fmt.Errorf("failed to create bid: %w", err)
	}

	return nil
}

// GetByID retrieves a bid by ID
func (r *BidRepository) GetByID(ctx context.Context, id uuid.UUID) (*bid.Bid, error) {
	query := `
		SELECT id, gig_id, freelancer_id, message, price, status, created_at, updated_at
		FROM bids
		WHERE id = $1
	`

	var bid bid.Bid
	err := r.conn.DB().QueryRowContext(ctx, query, id).Scan(
		&bid.ID,
		&bid.GigID,
		&bid.FreelancerID,
		&bid.Message,
		&bid.Price,
		&bid.Status,
		&bid.CreatedAt,
		&bid.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, shared.ErrBidNotFound
		}
		return nil, fmt.Errorf("failed to get bid: %w", err)
	}

	return &bid, nil
}

// GetByGigID retrieves all bids for a gig, newest first
func (r *BidRepository) GetByGigID(ctx context.Context, gigID uuid.UUID) ([]*bid.Bid, error) {
	query := `
		SELECT id, gig_id, freelancer_id, message, price, status, created_at, updated_at
		FROM bids
		WHERE gig_id = $1
		ORDER BY created_at DESC
	`

	return r.queryBids(ctx, query, gigID)
}

// GetByFreelancerID retrieves all bids submitted by a freelancer, newest first
func (r *BidRepository) GetByFreelancerID(ctx context.Context, freelancerID uuid.UUID) ([]*bid.Bid, error) {
	query := `
		SELECT id, gig_id, freelancer_id, message, price, status, created_at, updated_at
		FROM bids
		WHERE freelancer_id = $1
		ORDER BY created_at DESC
	`

	return r.queryBids(ctx, query, freelancerID)
}

// ExistsForGigAndFreelancer reports whether the freelancer already bid on the gig
func (r *BidRepository) ExistsForGigAndFreelancer(ctx context.Context, gigID, freelancerID uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM bids WHERE gig_id = $1 AND freelancer_id = $2
		)
	`

	var exists bool
	if err := r.conn.DB().QueryRowContext(ctx, query, gigID, freelancerID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check for existing bid: %w", err)
	}

	return exists, nil
}

/*
Hire executes the hire transition inside one transaction:
 1. Lock the target bid row, then its gig row (FOR UPDATE). The gig row lock
    serializes concurrent hires on the same gig: the loser blocks here and
    re-observes the committed state once the winner's transaction lands.
 2. Validate requester capability, gig still open, bid still pending.
 3. Mark the gig assigned, the bid hired, and every sibling pending bid
    rejected. Bids already terminal are left untouched.

Every validation failure rolls back with no writes; a storage fault during the
writes rolls back the entire unit.
*/
func (r *BidRepository) Hire(ctx context.Context, bidID, requesterID uuid.UUID) (*outbound.HireCommit, error) {
	var commit *outbound.HireCommit

	err := r.conn.InTx(ctx, func(tx *sql.Tx) error {
		bidQuery := `
			SELECT id, gig_id, freelancer_id, message, price, status, created_at, updated_at
			FROM bids
			WHERE id = $1
			FOR UPDATE
		`

		var targetBid bid.Bid
		err := tx.QueryRowContext(ctx, bidQuery, bidID).Scan(
			&targetBid.ID,
			&targetBid.GigID,
			&targetBid.FreelancerID,
			&targetBid.Message,
			&targetBid.Price,
			&targetBid.Status,
			&targetBid.CreatedAt,
			&targetBid.UpdatedAt,
		)
		if err != nil {
			if err == sql.ErrNoRows {
				return shared.ErrBidNotFound
			}
			return fmt.Errorf("failed to get bid for hire: %w", err)
		}

		gigQuery := `
			SELECT id, title, description, budget, owner_id, status, created_at, updated_at
			FROM gigs
			WHERE id = $1
			FOR UPDATE
		`

		var targetGig gig.Gig
		err = tx.QueryRowContext(ctx, gigQuery, targetBid.GigID).Scan(
			&targetGig.ID,
			&targetGig.Title,
			&targetGig.Description,
			&targetGig.Budget,
			&targetGig.OwnerID,
			&targetGig.Status,
			&targetGig.CreatedAt,
			&targetGig.UpdatedAt,
		)
		if err != nil {
			if err == sql.ErrNoRows {
				return shared.ErrGigNotFound
			}
			return fmt.Errorf("failed to get gig for hire: %w", err)
		}

		if !targetGig.IsOwnedBy(requesterID) {
			return shared.ErrForbidden
		}
		if !targetGig.IsOpen() {
			return shared.ErrGigAlreadyAssigned
		}
		if !targetBid.IsPending() {
			return shared.ErrBidNotPending
		}

		now := time.Now()

		result, err := tx.ExecContext(ctx,
			`UPDATE gigs SET status = $2, updated_at = $3 WHERE id = $1 AND status = $4`,
			targetGig.ID, gig.StatusAssigned, now, gig.StatusOpen,
		)
		if err != nil {
			return fmt.Errorf("failed to assign gig: %w", err)
		}
		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rowsAffected == 0 {
			return shared.ErrGigAlreadyAssigned
		}

		result, err = tx.ExecContext(ctx,
			`UPDATE bids SET status = $2, updated_at = $3 WHERE id = $1 AND status = $4`,
			targetBid.ID, bid.StatusHired, now, bid.StatusPending,
		)
		if err != nil {
			return fmt.Errorf("failed to mark bid hired: %w", err)
		}
		rowsAffected, err = result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rowsAffected == 0 {
			return shared.ErrBidNotPending
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE bids SET status = $3, updated_at = $4 WHERE gig_id = $1 AND id <> $2 AND status = $5`,
			targetGig.ID, targetBid.ID, bid.StatusRejected, now, bid.StatusPending,
		)
		if err != nil {
			return fmt.Errorf("failed to reject sibling bids: %w", err)
		}

		targetGig.Status = gig.StatusAssigned
		targetGig.UpdatedAt = now
		targetBid.Status = bid.StatusHired
		targetBid.UpdatedAt = now

		commit = &outbound.HireCommit{Gig: &targetGig, HiredBid: &targetBid}
		return nil
	})

	if err != nil {
		return nil, err
	}

	return commit, nil
}

func (r *BidRepository) queryBids(ctx context.Context, query string, args ...interface{}) ([]*bid.Bid, error) {
	rows, err := r.conn.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get bids: %w", err)
	}
	defer rows.Close()

	var bids []*bid.Bid
	for rows.Next() {
		var bid bid.Bid
		err := rows.Scan(
			&bid.ID,
			&bid.GigID,
			&bid.FreelancerID,
			&bid.Message,
			&bid.Price,
			&bid.Status,
			&bid.CreatedAt,
			&bid.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bid: %w", err)
		}
		bids = append(bids, &bid)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bids: %w", err)
	}

	return bids, nil
}
