package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// User represents a single user in the database.
//
// A user is keyed by the (plugin, subject) pair so the same person arriving
// through a different connector becomes a different record. Resolution is
// idempotent per pair.
type User struct {
	ID          int64  `json:"id"`
	Plugin      string `json:"plugin"`
	Subject     string `json:"subject"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	GivenName   string `json:"given_name"`
	FamilyName  string `json:"family_name"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

// Repository encapsulates all operations available on the database.
type Repository interface {
	// UpsertUser creates or refreshes the user record and returns its ID.
	UpsertUser(ctx context.Context, user User) (int64, error)
}

// repository implements Repository.
type repository struct {
	database *sql.DB
}

// NewRepository returns a new implementation of Repository.
func NewRepository(database *sql.DB) Repository {
	return &repository{database: database}
}

func (r *repository) UpsertUser(ctx context.Context, user User) (int64, error) {
	// Form and execute query.
	query, args := upsertUserQuery(user)

	var id int64
	if err := r.database.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("error in query execution: %w", err)
	}

	slog.InfoContext(ctx, "user upserted successfully", "id", id, "plugin", user.Plugin, "subject", user.Subject)
	return id, nil
}
