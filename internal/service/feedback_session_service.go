package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/course-feedback-api/internal/models"
	appErrors "github.com/noah-isme/course-feedback-api/pkg/errors"
)

type feedbackSessionRepository interface {
	Find(ctx context.Context, courseID, name string) (*models.FeedbackSession, error)
	ListOngoing(ctx context.Context, rangeStart, rangeEnd time.Time) ([]models.InstituteSession, error)
	Create(ctx context.Context, exec sqlx.ExtContext, session *models.FeedbackSession) error
	Delete(ctx context.Context, courseID, name string) error
}

type sessionCourseReader interface {
	FindByID(ctx context.Context, id string) (*models.Course, error)
}

// FeedbackSessionService manages feedback sessions.
type FeedbackSessionService struct {
	sessions  feedbackSessionRepository
	courses   sessionCourseReader
	validator *validator.Validate
	logger    *zap.Logger
}

// NewFeedbackSessionService constructs the feedback session service.
func NewFeedbackSessionService(sessions feedbackSessionRepository, courses sessionCourseReader, validate *validator.Validate, logger *zap.Logger) *FeedbackSessionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FeedbackSessionService{sessions: sessions, courses: courses, validator: validate, logger: logger}
}

// CreateFeedbackSession stores a new session under an existing course.
func (s *FeedbackSessionService) CreateFeedbackSession(ctx context.Context, session *models.FeedbackSession) error {
	if session == nil {
		return appErrors.Clone(appErrors.ErrInvalidParameters, "feedback session payload is required")
	}
	if err := s.validator.Struct(session); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInvalidParameters.Code, appErrors.ErrInvalidParameters.Status, "invalid feedback session payload")
	}
	if _, err := time.LoadLocation(session.TimeZone); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInvalidParameters.Code, appErrors.ErrInvalidParameters.Status, "unknown time zone")
	}
	if _, err := s.courses.FindByID(ctx, session.CourseID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrEntityNotFound, "course not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	if _, err := s.sessions.Find(ctx, session.CourseID, session.Name); err == nil {
		return appErrors.Clone(appErrors.ErrConflict, "feedback session already exists")
	} else if !errors.Is(err, sql.ErrNoRows) {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check feedback session")
	}
	if err := s.sessions.Create(ctx, nil, session); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create feedback session")
	}
	return nil
}

// GetFeedbackSession loads a session by course and name.
func (s *FeedbackSessionService) GetFeedbackSession(ctx context.Context, courseID, name string) (*models.FeedbackSession, error) {
	session, err := s.sessions.Find(ctx, courseID, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrEntityNotFound, "feedback session not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load feedback session")
	}
	return session, nil
}

// DeleteFeedbackSessionCascade removes a session. Missing sessions are ignored.
func (s *FeedbackSessionService) DeleteFeedbackSessionCascade(ctx context.Context, courseID, name string) error {
	if err := s.sessions.Delete(ctx, courseID, name); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete feedback session")
	}
	s.logger.Info("feedback session deleted", zap.String("course_id", courseID), zap.String("session", name))
	return nil
}

// GetOngoingSessions returns live sessions whose window overlaps [rangeStart, rangeEnd].
func (s *FeedbackSessionService) GetOngoingSessions(ctx context.Context, rangeStart, rangeEnd time.Time) ([]models.InstituteSession, error) {
	if rangeEnd.Before(rangeStart) {
		return nil, appErrors.Clone(appErrors.ErrInvalidParameters, "range end must not precede range start")
	}
	sessions, err := s.sessions.ListOngoing(ctx, rangeStart, rangeEnd)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list ongoing sessions")
	}
	return sessions, nil
}
