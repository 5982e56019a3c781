package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/course-feedback-api/internal/models"
)

const courseColumns = "c.id, c.name, c.time_zone, c.institute, c.created_at, c.deleted_at"

// CourseRepository persists courses and their recycle bin state.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository constructs a CourseRepository.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

func (r *CourseRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// FindByID loads a course regardless of its recycle bin state.
func (r *CourseRepository) FindByID(ctx context.Context, id string) (*models.Course, error) {
	query := "SELECT " + courseColumns + " FROM courses c WHERE c.id = $1"
	var course models.Course
	if err := r.db.GetContext(ctx, &course, query, id); err != nil {
		return nil, err
	}
	return &course, nil
}

// ListForInstructor returns the courses an account instructs, filtered by recycle bin state.
func (r *CourseRepository) ListForInstructor(ctx context.Context, googleID string, status models.CourseStatus) ([]models.Course, error) {
	deletedClause := "c.deleted_at IS NULL"
	if status == models.CourseStatusSoftDeleted {
		deletedClause = "c.deleted_at IS NOT NULL"
	}
	query := fmt.Sprintf(`SELECT %s FROM courses c
JOIN instructors i ON i.course_id = c.id
WHERE i.google_id = $1 AND %s ORDER BY c.created_at DESC, c.id`, courseColumns, deletedClause)
	var courses []models.Course
	if err := r.db.SelectContext(ctx, &courses, query, googleID); err != nil {
		return nil, fmt.Errorf("list instructor courses: %w", err)
	}
	return courses, nil
}

// Create inserts a new course.
func (r *CourseRepository) Create(ctx context.Context, exec sqlx.ExtContext, course *models.Course) error {
	if course.CreatedAt.IsZero() {
		course.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO courses (id, name, time_zone, institute, created_at, deleted_at)
VALUES (:id, :name, :time_zone, :institute, :created_at, :deleted_at)`
	if _, err := sqlx.NamedExecContext(ctx, r.exec(exec), query, course); err != nil {
		return fmt.Errorf("create course: %w", err)
	}
	return nil
}

// Upsert inserts or replaces a course.
func (r *CourseRepository) Upsert(ctx context.Context, exec sqlx.ExtContext, course *models.Course) error {
	if course.CreatedAt.IsZero() {
		course.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO courses (id, name, time_zone, institute, created_at, deleted_at)
VALUES (:id, :name, :time_zone, :institute, :created_at, :deleted_at)
ON CONFLICT (id)
DO UPDATE SET name = EXCLUDED.name, time_zone = EXCLUDED.time_zone, institute = EXCLUDED.institute,
              created_at = EXCLUDED.created_at, deleted_at = EXCLUDED.deleted_at`
	if _, err := sqlx.NamedExecContext(ctx, r.exec(exec), query, course); err != nil {
		return fmt.Errorf("upsert course: %w", err)
	}
	return nil
}

// SetDeletedAt moves a course into (non-nil) or out of (nil) the recycle bin.
// An already binned course keeps its original deletion timestamp.
func (r *CourseRepository) SetDeletedAt(ctx context.Context, id string, deletedAt *time.Time) error {
	query := "UPDATE courses SET deleted_at = $2 WHERE id = $1"
	if deletedAt != nil {
		query = "UPDATE courses SET deleted_at = COALESCE(deleted_at, $2) WHERE id = $1"
	}
	result, err := r.db.ExecContext(ctx, query, id, deletedAt)
	if err != nil {
		return fmt.Errorf("update course deleted_at: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("course rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteCascade removes a course together with its sessions, students and instructors.
func (r *CourseRepository) DeleteCascade(ctx context.Context, exec sqlx.ExtContext, id string) error {
	target := r.exec(exec)
	statements := []struct {
		label string
		query string
	}{
		{"feedback sessions", "DELETE FROM feedback_sessions WHERE course_id = $1"},
		{"students", "DELETE FROM students WHERE course_id = $1"},
		{"instructors", "DELETE FROM instructors WHERE course_id = $1"},
		{"course", "DELETE FROM courses WHERE id = $1"},
	}
	for _, stmt := range statements {
		if _, err := target.ExecContext(ctx, stmt.query, id); err != nil {
			return fmt.Errorf("delete %s of course %s: %w", stmt.label, id, err)
		}
	}
	return nil
}
