package models

import "time"

// Account is a registered identity, keyed by its google id.
type Account struct {
	GoogleID     string    `db:"google_id" json:"googleId" validate:"required"`
	Name         string    `db:"name" json:"name" validate:"required"`
	Email        string    `db:"email" json:"email" validate:"required,email"`
	Institute    string    `db:"institute" json:"institute"`
	IsInstructor bool      `db:"is_instructor" json:"isInstructor"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}
