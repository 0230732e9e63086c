package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"gigflow-marketplace-service/internal/config"

	_ "github.com/lib/pq"
)

// Connection wraps the Postgres pool and the transaction helper the
// repositories build on
type Connection struct {
	db *sql.DB
}

// NewConnection opens and verifies a Postgres connection pool
func NewConnection(cfg *config.Config) (*Connection, error) {
	pool, err := sql.Open("postgres", cfg.Database.GetConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	pool.SetMaxOpenConns(25)
	pool.SetMaxIdleConns(5)
	pool.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.PingContext(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Connection{db: pool}, nil
}

// DB exposes the underlying pool for plain queries
func (c *Connection) DB() *sql.DB {
	return c.db
}

func (c *Connection) Close() error {
	return c.db.Close()
}

// InTx runs fn inside a transaction. Any error from fn rolls the whole unit
// back; a panic rolls back before re-panicking. Row locks taken by fn are held
// until commit or rollback.
func (c *Connection) InTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("tx failed: %v, rollback failed: %v", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
