package db

import (
	"context"
	"database/sql"
	"fmt"

	"gigflow-marketplace-service/internal/domain/shared"

	"github.com/google/uuid"
)

// UserRepository reads the user records the bid projections hang display
// fields off. User lifecycle belongs to the upstream account system, so the
// port is read-only.
type UserRepository struct {
	conn *Connection
}

func NewUserRepository(conn *Connection) *UserRepository {
	return &UserRepository{conn: conn}
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*shared.User, error) {
	const query = `SELECT id, name, email FROM users WHERE id = $1`

	var user shared.User
	err := r.conn.DB().QueryRowContext(ctx, query, id).Scan(&user.ID, &user.Name, &user.Email)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, shared.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}
