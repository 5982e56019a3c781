package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/course-feedback-api/internal/models"
)

const accountColumns = "google_id, name, email, institute, is_instructor, created_at"

// AccountRepository persists registered accounts.
type AccountRepository struct {
	db *sqlx.DB
}

// NewAccountRepository constructs an AccountRepository.
func NewAccountRepository(db *sqlx.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// FindByGoogleID loads an account. sql.ErrNoRows is returned untouched when absent.
func (r *AccountRepository) FindByGoogleID(ctx context.Context, googleID string) (*models.Account, error) {
	query := "SELECT " + accountColumns + " FROM accounts WHERE google_id = $1"
	var account models.Account
	if err := r.db.GetContext(ctx, &account, query, googleID); err != nil {
		return nil, err
	}
	return &account, nil
}

// Upsert inserts or replaces an account.
func (r *AccountRepository) Upsert(ctx context.Context, exec sqlx.ExtContext, account *models.Account) error {
	if account.CreatedAt.IsZero() {
		account.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO accounts (google_id, name, email, institute, is_instructor, created_at)
VALUES (:google_id, :name, :email, :institute, :is_instructor, :created_at)
ON CONFLICT (google_id)
DO UPDATE SET name = EXCLUDED.name, email = EXCLUDED.email, institute = EXCLUDED.institute,
              is_instructor = EXCLUDED.is_instructor`
	if _, err := sqlx.NamedExecContext(ctx, r.exec(exec), query, account); err != nil {
		return fmt.Errorf("upsert account: %w", err)
	}
	return nil
}

// Delete removes an account. Missing accounts are ignored.
func (r *AccountRepository) Delete(ctx context.Context, exec sqlx.ExtContext, googleID string) error {
	if _, err := r.exec(exec).ExecContext(ctx, "DELETE FROM accounts WHERE google_id = $1", googleID); err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	return nil
}
