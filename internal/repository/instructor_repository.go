package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/course-feedback-api/internal/models"
)

const instructorColumns = "course_id, email, google_id, name, role, display_name, is_displayed_to_students, privileges"

// InstructorRepository persists course instructors.
type InstructorRepository struct {
	db *sqlx.DB
}

// NewInstructorRepository constructs an InstructorRepository.
func NewInstructorRepository(db *sqlx.DB) *InstructorRepository {
	return &InstructorRepository{db: db}
}

func (r *InstructorRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// FindByGoogleID loads the instructor record of an account within a course.
func (r *InstructorRepository) FindByGoogleID(ctx context.Context, courseID, googleID string) (*models.Instructor, error) {
	query := "SELECT " + instructorColumns + " FROM instructors WHERE course_id = $1 AND google_id = $2"
	var instructor models.Instructor
	if err := r.db.GetContext(ctx, &instructor, query, courseID, googleID); err != nil {
		return nil, err
	}
	return &instructor, nil
}

// FindByEmail loads an instructor by course and email.
func (r *InstructorRepository) FindByEmail(ctx context.Context, courseID, email string) (*models.Instructor, error) {
	query := "SELECT " + instructorColumns + " FROM instructors WHERE course_id = $1 AND email = $2"
	var instructor models.Instructor
	if err := r.db.GetContext(ctx, &instructor, query, courseID, email); err != nil {
		return nil, err
	}
	return &instructor, nil
}

// ExistsForGoogleID reports whether the account instructs any course.
func (r *InstructorRepository) ExistsForGoogleID(ctx context.Context, googleID string) (bool, error) {
	var exists int
	if err := r.db.GetContext(ctx, &exists, "SELECT 1 FROM instructors WHERE google_id = $1 LIMIT 1", googleID); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check instructor google id: %w", err)
	}
	return true, nil
}

// Create inserts an instructor.
func (r *InstructorRepository) Create(ctx context.Context, exec sqlx.ExtContext, instructor *models.Instructor) error {
	const query = `INSERT INTO instructors (course_id, email, google_id, name, role, display_name, is_displayed_to_students, privileges)
VALUES (:course_id, :email, :google_id, :name, :role, :display_name, :is_displayed_to_students, :privileges)`
	if _, err := sqlx.NamedExecContext(ctx, r.exec(exec), query, instructor); err != nil {
		return fmt.Errorf("create instructor: %w", err)
	}
	return nil
}

// Upsert inserts or replaces an instructor.
func (r *InstructorRepository) Upsert(ctx context.Context, exec sqlx.ExtContext, instructor *models.Instructor) error {
	const query = `INSERT INTO instructors (course_id, email, google_id, name, role, display_name, is_displayed_to_students, privileges)
VALUES (:course_id, :email, :google_id, :name, :role, :display_name, :is_displayed_to_students, :privileges)
ON CONFLICT (course_id, email)
DO UPDATE SET google_id = EXCLUDED.google_id, name = EXCLUDED.name, role = EXCLUDED.role,
              display_name = EXCLUDED.display_name, is_displayed_to_students = EXCLUDED.is_displayed_to_students,
              privileges = EXCLUDED.privileges`
	if _, err := sqlx.NamedExecContext(ctx, r.exec(exec), query, instructor); err != nil {
		return fmt.Errorf("upsert instructor: %w", err)
	}
	return nil
}
