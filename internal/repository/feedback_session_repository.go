package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/course-feedback-api/internal/models"
)

const feedbackSessionColumns = `fs.course_id, fs.name, fs.creator_email, fs.instructions, fs.created_at, fs.start_time, fs.end_time,
fs.session_visible_from_time, fs.results_visible_from_time, fs.time_zone, fs.grace_period_minutes, fs.deleted_at`

// FeedbackSessionRepository persists feedback sessions.
type FeedbackSessionRepository struct {
	db *sqlx.DB
}

// NewFeedbackSessionRepository constructs a FeedbackSessionRepository.
func NewFeedbackSessionRepository(db *sqlx.DB) *FeedbackSessionRepository {
	return &FeedbackSessionRepository{db: db}
}

func (r *FeedbackSessionRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// Find loads a session by course and name.
func (r *FeedbackSessionRepository) Find(ctx context.Context, courseID, name string) (*models.FeedbackSession, error) {
	query := "SELECT " + feedbackSessionColumns + " FROM feedback_sessions fs WHERE fs.course_id = $1 AND fs.name = $2"
	var session models.FeedbackSession
	if err := r.db.GetContext(ctx, &session, query, courseID, name); err != nil {
		return nil, err
	}
	return &session, nil
}

// ListOngoing returns live sessions whose window overlaps [rangeStart, rangeEnd], joined with the course institute.
// Both comparisons are strict: a session that only touches the range at one instant is not ongoing.
func (r *FeedbackSessionRepository) ListOngoing(ctx context.Context, rangeStart, rangeEnd time.Time) ([]models.InstituteSession, error) {
	query := `SELECT ` + feedbackSessionColumns + `, c.institute
FROM feedback_sessions fs
JOIN courses c ON c.id = fs.course_id
WHERE fs.deleted_at IS NULL AND fs.start_time < $2 AND fs.end_time > $1
ORDER BY fs.start_time, fs.course_id, fs.name`
	var sessions []models.InstituteSession
	if err := r.db.SelectContext(ctx, &sessions, query, rangeStart, rangeEnd); err != nil {
		return nil, fmt.Errorf("list ongoing sessions: %w", err)
	}
	return sessions, nil
}

// Create inserts a session.
func (r *FeedbackSessionRepository) Create(ctx context.Context, exec sqlx.ExtContext, session *models.FeedbackSession) error {
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO feedback_sessions (course_id, name, creator_email, instructions, created_at, start_time, end_time,
    session_visible_from_time, results_visible_from_time, time_zone, grace_period_minutes, deleted_at)
VALUES (:course_id, :name, :creator_email, :instructions, :created_at, :start_time, :end_time,
    :session_visible_from_time, :results_visible_from_time, :time_zone, :grace_period_minutes, :deleted_at)`
	if _, err := sqlx.NamedExecContext(ctx, r.exec(exec), query, session); err != nil {
		return fmt.Errorf("create feedback session: %w", err)
	}
	return nil
}

// Upsert inserts or replaces a session.
func (r *FeedbackSessionRepository) Upsert(ctx context.Context, exec sqlx.ExtContext, session *models.FeedbackSession) error {
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO feedback_sessions (course_id, name, creator_email, instructions, created_at, start_time, end_time,
    session_visible_from_time, results_visible_from_time, time_zone, grace_period_minutes, deleted_at)
VALUES (:course_id, :name, :creator_email, :instructions, :created_at, :start_time, :end_time,
    :session_visible_from_time, :results_visible_from_time, :time_zone, :grace_period_minutes, :deleted_at)
ON CONFLICT (course_id, name)
DO UPDATE SET creator_email = EXCLUDED.creator_email, instructions = EXCLUDED.instructions,
              start_time = EXCLUDED.start_time, end_time = EXCLUDED.end_time,
              session_visible_from_time = EXCLUDED.session_visible_from_time,
              results_visible_from_time = EXCLUDED.results_visible_from_time,
              time_zone = EXCLUDED.time_zone, grace_period_minutes = EXCLUDED.grace_period_minutes,
              deleted_at = EXCLUDED.deleted_at`
	if _, err := sqlx.NamedExecContext(ctx, r.exec(exec), query, session); err != nil {
		return fmt.Errorf("upsert feedback session: %w", err)
	}
	return nil
}

// Delete removes a session. Missing sessions are ignored.
func (r *FeedbackSessionRepository) Delete(ctx context.Context, courseID, name string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM feedback_sessions WHERE course_id = $1 AND name = $2", courseID, name); err != nil {
		return fmt.Errorf("delete feedback session: %w", err)
	}
	return nil
}
