package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/noah-isme/course-feedback-api/internal/models"
	appErrors "github.com/noah-isme/course-feedback-api/pkg/errors"
)

type studentRepository interface {
	FindByEmail(ctx context.Context, courseID, email string) (*models.Student, error)
	FindByGoogleID(ctx context.Context, courseID, googleID string) (*models.Student, error)
	DeleteByGoogleID(ctx context.Context, googleID string) (int64, error)
}

// StudentService handles student enrollment use cases.
type StudentService struct {
	repo   studentRepository
	logger *zap.Logger
}

// NewStudentService constructs the student service.
func NewStudentService(repo studentRepository, logger *zap.Logger) *StudentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{repo: repo, logger: logger}
}

// GetStudent loads an enrollment by course and email.
func (s *StudentService) GetStudent(ctx context.Context, courseID, email string) (*models.Student, error) {
	student, err := s.repo.FindByEmail(ctx, courseID, email)
	return studentResult(student, err)
}

// GetStudentForGoogleID loads the enrollment of an identity within a course.
func (s *StudentService) GetStudentForGoogleID(ctx context.Context, courseID, googleID string) (*models.Student, error) {
	student, err := s.repo.FindByGoogleID(ctx, courseID, googleID)
	return studentResult(student, err)
}

// DeleteStudentsForGoogleID removes every enrollment of an identity. Nothing to remove is not an error.
func (s *StudentService) DeleteStudentsForGoogleID(ctx context.Context, googleID string) error {
	removed, err := s.repo.DeleteByGoogleID(ctx, googleID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete students")
	}
	s.logger.Info("students deleted", zap.String("google_id", googleID), zap.Int64("removed", removed))
	return nil
}

func studentResult(student *models.Student, err error) (*models.Student, error) {
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrEntityNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	return student, nil
}
