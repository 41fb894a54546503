package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"registrar/internal/domain"
)

// RegistrationRepo implements repository.RegistrationRepository on Postgres
type RegistrationRepo struct {
	db *sql.DB
}

// NewRegistrationRepo creates a new registration repository
func NewRegistrationRepo(db *sql.DB) *RegistrationRepo {
	return &RegistrationRepo{db: db}
}

// Append inserts a registration row. Rows are never updated or deduplicated.
func (r *RegistrationRepo) Append(ctx context.Context, reg domain.Registration) error {
	query := `
		INSERT INTO registrations (name, contact, user_id)
		VALUES ($1, $2, $3)
	`
	if _, err := r.db.ExecContext(ctx, query, reg.Name, reg.Contact, reg.UserID); err != nil {
		return fmt.Errorf("failed to insert registration: %w", err)
	}
	return nil
}
