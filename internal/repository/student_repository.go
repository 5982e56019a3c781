package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/course-feedback-api/internal/models"
)

const studentColumns = "course_id, email, google_id, name, team, section, comments"

// StudentRepository manages persistence for course enrollments.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

func (r *StudentRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// FindByEmail loads a student by course and email.
func (r *StudentRepository) FindByEmail(ctx context.Context, courseID, email string) (*models.Student, error) {
	query := "SELECT " + studentColumns + " FROM students WHERE course_id = $1 AND email = $2"
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, courseID, email); err != nil {
		return nil, err
	}
	return &student, nil
}

// FindByGoogleID loads the enrollment of an account within a course.
func (r *StudentRepository) FindByGoogleID(ctx context.Context, courseID, googleID string) (*models.Student, error) {
	query := "SELECT " + studentColumns + " FROM students WHERE course_id = $1 AND google_id = $2"
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, courseID, googleID); err != nil {
		return nil, err
	}
	return &student, nil
}

// ExistsForGoogleID reports whether the account is enrolled in any course.
func (r *StudentRepository) ExistsForGoogleID(ctx context.Context, googleID string) (bool, error) {
	var exists int
	if err := r.db.GetContext(ctx, &exists, "SELECT 1 FROM students WHERE google_id = $1 LIMIT 1", googleID); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check student google id: %w", err)
	}
	return true, nil
}

// Upsert inserts or replaces an enrollment.
func (r *StudentRepository) Upsert(ctx context.Context, exec sqlx.ExtContext, student *models.Student) error {
	if student.Section == "" {
		student.Section = models.DefaultSection
	}
	const query = `INSERT INTO students (course_id, email, google_id, name, team, section, comments)
VALUES (:course_id, :email, :google_id, :name, :team, :section, :comments)
ON CONFLICT (course_id, email)
DO UPDATE SET google_id = EXCLUDED.google_id, name = EXCLUDED.name, team = EXCLUDED.team,
              section = EXCLUDED.section, comments = EXCLUDED.comments`
	if _, err := sqlx.NamedExecContext(ctx, r.exec(exec), query, student); err != nil {
		return fmt.Errorf("upsert student: %w", err)
	}
	return nil
}

// DeleteByGoogleID removes every enrollment of an account and reports how many were removed.
func (r *StudentRepository) DeleteByGoogleID(ctx context.Context, googleID string) (int64, error) {
	result, err := r.db.ExecContext(ctx, "DELETE FROM students WHERE google_id = $1", googleID)
	if err != nil {
		return 0, fmt.Errorf("delete students by google id: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("student rows affected: %w", err)
	}
	return affected, nil
}

// DeleteByEmails removes the listed enrollments of a course.
func (r *StudentRepository) DeleteByEmails(ctx context.Context, exec sqlx.ExtContext, courseID string, emails []string) error {
	if len(emails) == 0 {
		return nil
	}
	const query = "DELETE FROM students WHERE course_id = $1 AND email = ANY($2)"
	if _, err := r.exec(exec).ExecContext(ctx, query, courseID, pq.Array(emails)); err != nil {
		return fmt.Errorf("delete students by email: %w", err)
	}
	return nil
}
