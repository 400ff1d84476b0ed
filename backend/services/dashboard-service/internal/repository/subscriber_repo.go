package repository

import (
	"context"
	"database/sql"
	"errors"

	libdb "citydash/backend/libs/db"
	"citydash/backend/services/dashboard-service/internal/models"
)

// ErrDuplicateEmail represents an already registered normalised address.
var ErrDuplicateEmail = errors.New("subscriber email already exists")

// SubscriberRepository handles the newsletter list.
type SubscriberRepository struct {
	db *sql.DB
}

// NewSubscriberRepository returns repository instance.
func NewSubscriberRepository(db *sql.DB) *SubscriberRepository {
	return &SubscriberRepository{db: db}
}

// Create inserts a subscriber. Uniqueness is enforced by the email constraint, so concurrent
// inserts of the same address yield exactly one row.
func (r *SubscriberRepository) Create(ctx context.Context, sub *models.Subscriber) error {
	const query = `
		INSERT INTO subscribers (email)
		VALUES ($1)
		ON CONFLICT (email) DO NOTHING
		RETURNING id, email, created_at
	`
	err := r.db.QueryRowContext(ctx, query, sub.Email).Scan(&sub.ID, &sub.Email, &sub.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) || libdb.IsUniqueViolation(err) {
		return ErrDuplicateEmail
	}
	return err
}

// List returns all subscribers, oldest first.
func (r *SubscriberRepository) List(ctx context.Context) ([]models.Subscriber, error) {
	const query = `
		SELECT id, email, created_at
		FROM subscribers
		ORDER BY created_at ASC, id ASC
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	subs := make([]models.Subscriber, 0)
	for rows.Next() {
		var s models.Subscriber
		if err := rows.Scan(&s.ID, &s.Email, &s.CreatedAt); err != nil {
			return nil, err
		}
		subs = append(subs, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return subs, nil
}
