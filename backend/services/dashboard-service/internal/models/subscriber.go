package models

import "time"

// Subscriber is a newsletter recipient. Email is stored normalised (trimmed, lower-case).
type Subscriber struct {
	ID        int64     `db:"id" json:"id"`
	Email     string    `db:"email" json:"email"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
