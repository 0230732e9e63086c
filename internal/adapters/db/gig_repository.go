package db

import (
	"context"
	"database/sql"
	"fmt"

	"gigflow-marketplace-service/internal/domain/gig"
	"gigflow-marketplace-service/internal/domain/shared"

	"github.com/google/uuid"
)

// GigRepository implements the gig repository interface
type GigRepository struct {
	conn *Connection
}

// NewGigRepository creates a new gig repository
func NewGigRepository(conn *Connection) *GigRepository {
	return &GigRepository{conn: conn}
}

// Create creates a new gig
func (r *GigRepository) Create(ctx context.Context, gig *gig.Gig) error {
	query := `
		INSERT INTO gigs (id, title, description, budget, owner_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.conn.DB().ExecContext(ctx, query,
		gig.ID,
		gig.Title,
		gig.Description,
		gig.Budget,
		gig.OwnerID,
		gig.Status,
		gig.CreatedAt,
		gig.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create gig: %w", err)
	}

	return nil
}

// GetByID retrieves a gig by ID
func (r *GigRepository) GetByID(ctx context.Context, id uuid.UUID) (*gig.Gig, error) {
	query := `
		SELECT id, title, description, budget, owner_id, status, created_at, updated_at
		FROM gigs
		WHERE id = $1
	`

	var gig gig.Gig
	err := r.conn.DB().QueryRowContext(ctx, query, id).Scan(
		&gig.ID,
		&gig.Title,
		&gig.Description,
		&gig.Budget,
		&gig.OwnerID,
		&gig.Status,
		&gig.CreatedAt,
		&gig.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, shared.ErrGigNotFound
		}
		return nil, fmt.Errorf("failed to get gig: %w", err)
	}

	return &gig, nil
}

// ListOpen retrieves open gigs, optionally filtered by a search term matched
// against title and description
func (r *GigRepository) ListOpen(ctx context.Context, search string, page, pageSize int) ([]*gig.Gig, error) {
	baseQuery := `
		SELECT id, title, description, budget, owner_id, status, created_at, updated_at
		FROM gigs
		WHERE status = 'open'
	`

	var args []interface{}
	argCount := 1

	if search != "" {
		baseQuery += fmt.Sprintf(" AND (title ILIKE $%d OR description ILIKE $%d)", argCount, argCount)
		args = append(args, "%"+search+"%")
		argCount++
	}

	query := baseQuery + fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argCount, argCount+1)
	args = append(args, pageSize, (page-1)*pageSize)

	return r.queryGigs(ctx, query, args...)
}

// GetByOwnerID retrieves all gigs owned by a user, newest first
func (r *GigRepository) GetByOwnerID(ctx context.Context, ownerID uuid.UUID) ([]*gig.Gig, error) {
	query := `
		SELECT id, title, description, budget, owner_id, status, created_at, updated_at
		FROM gigs
		WHERE owner_id = $1
		ORDER BY created_at DESC
	`

	return r.queryGigs(ctx, query, ownerID)
}

func (r *GigRepository) queryGigs(ctx context.Context, query string, args ...interface{}) ([]*gig.Gig, error) {
	rows, err := r.conn.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list gigs: %w", err)
	}
	defer rows.Close()

	var gigs []*gig.Gig
	for rows.Next() {
		var gig gig.Gig
		err := rows.Scan(
			&gig.ID,
			&gig.Title,
			&gig.Description,
			&gig.Budget,
			&gig.OwnerID,
			&gig.Status,
			&gig.CreatedAt,
			&gig.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan gig: %w", err)
		}
		gigs = append(gigs, &gig)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating gigs: %w", err)
	}

	return gigs, nil
}
