package service

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/course-feedback-api/internal/models"
	appErrors "github.com/noah-isme/course-feedback-api/pkg/errors"
)

const courseCachePrefix = "course:"

var courseIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_.$-]+$`)

type txProvider interface {
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
}

type courseRepository interface {
	FindByID(ctx context.Context, id string) (*models.Course, error)
	ListForInstructor(ctx context.Context, googleID string, status models.CourseStatus) ([]models.Course, error)
	Create(ctx context.Context, exec sqlx.ExtContext, course *models.Course) error
	SetDeletedAt(ctx context.Context, id string, deletedAt *time.Time) error
	DeleteCascade(ctx context.Context, exec sqlx.ExtContext, id string) error
}

type courseAccountReader interface {
	FindByGoogleID(ctx context.Context, googleID string) (*models.Account, error)
}

type courseInstructorWriter interface {
	Create(ctx context.Context, exec sqlx.ExtContext, instructor *models.Instructor) error
}

// CreateCourseRequest holds the payload for creating a course.
type CreateCourseRequest struct {
	CourseID string `json:"courseId" validate:"required,max=64"`
	Name     string `json:"courseName" validate:"required,max=80"`
	TimeZone string `json:"timeZone" validate:"required"`
}

// CourseService handles course lifecycle use cases including the recycle bin.
type CourseService struct {
	tx          txProvider
	courses     courseRepository
	accounts    courseAccountReader
	instructors courseInstructorWriter
	cache       *CacheService
	validator   *validator.Validate
	logger      *zap.Logger
	now         func() time.Time
}

// NewCourseService constructs the course service.
func NewCourseService(tx txProvider, courses courseRepository, accounts courseAccountReader, instructors courseInstructorWriter, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *CourseService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{
		tx:          tx,
		courses:     courses,
		accounts:    accounts,
		instructors: instructors,
		cache:       cache,
		validator:   validate,
		logger:      logger,
		now:         time.Now,
	}
}

// GetCourse returns a course in any recycle bin state.
func (s *CourseService) GetCourse(ctx context.Context, id string) (*models.Course, error) {
	var cached models.Course
	if hit, _ := s.cache.Get(ctx, courseCachePrefix+id, &cached); hit {
		return &cached, nil
	}
	course, err := s.loadCourse(ctx, id)
	if err != nil {
		return nil, err
	}
	_ = s.cache.Set(ctx, courseCachePrefix+id, course, 0)
	return course, nil
}

// CreateCourseAndInstructor creates a course and enrolls the creating account as its co-owner.
func (s *CourseService) CreateCourseAndInstructor(ctx context.Context, googleID string, req CreateCourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInvalidParameters.Code, appErrors.ErrInvalidParameters.Status, "invalid course payload")
	}
	if !courseIDPattern.MatchString(req.CourseID) {
		return nil, appErrors.Clone(appErrors.ErrInvalidParameters, "course id may only contain letters, digits, '_', '.', '$' and '-'")
	}
	if _, err := time.LoadLocation(req.TimeZone); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInvalidParameters.Code, appErrors.ErrInvalidParameters.Status, "unknown time zone")
	}

	account, err := s.accounts.FindByGoogleID(ctx, googleID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrEntityNotFound, "account not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load account")
	}
	if !account.IsInstructor {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only instructors can create courses")
	}

	if _, err := s.courses.FindByID(ctx, req.CourseID); err == nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, "course id already exists")
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check course id")
	}

	institute := account.Institute
	if institute == "" {
		institute = models.DefaultInstitute
	}
	course := &models.Course{
		ID:        req.CourseID,
		Name:      req.Name,
		TimeZone:  req.TimeZone,
		Institute: institute,
		CreatedAt: s.now().UTC(),
	}
	owner := &models.Instructor{
		CourseID:              course.ID,
		Email:                 account.Email,
		GoogleID:              &account.GoogleID,
		Name:                  account.Name,
		Role:                  models.RoleCoOwner,
		DisplayName:           "Co-owner",
		IsDisplayedToStudents: true,
		Privileges:            models.PrivilegesForRole(models.RoleCoOwner),
	}

	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to begin transaction")
	}
	if err := s.courses.Create(ctx, tx, course); err != nil {
		_ = tx.Rollback()
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create course")
	}
	if err := s.instructors.Create(ctx, tx, owner); err != nil {
		_ = tx.Rollback()
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create course owner")
	}
	if err := tx.Commit(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit course")
	}

	s.logger.Info("course created", zap.String("course_id", course.ID), zap.String("google_id", googleID))
	return course, nil
}

// GetCoursesForInstructor lists the courses an account instructs in the requested state.
func (s *CourseService) GetCoursesForInstructor(ctx context.Context, googleID string, status models.CourseStatus) ([]models.Course, error) {
	courses, err := s.courses.ListForInstructor(ctx, googleID, status)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses")
	}
	return courses, nil
}

// GetSoftDeletedCoursesForInstructor lists the binned courses an account instructs.
func (s *CourseService) GetSoftDeletedCoursesForInstructor(ctx context.Context, googleID string) ([]models.Course, error) {
	return s.GetCoursesForInstructor(ctx, googleID, models.CourseStatusSoftDeleted)
}

// MoveCourseToRecycleBin soft-deletes a course and returns its post-operation state.
// Binning an already binned course keeps the original deletion time.
func (s *CourseService) MoveCourseToRecycleBin(ctx context.Context, id string) (*models.Course, error) {
	deletedAt := s.now().UTC()
	return s.setDeletedAt(ctx, id, &deletedAt)
}

// RestoreCourseFromRecycleBin clears the soft-delete mark and returns the post-operation state.
func (s *CourseService) RestoreCourseFromRecycleBin(ctx context.Context, id string) (*models.Course, error) {
	return s.setDeletedAt(ctx, id, nil)
}

// DeleteCourseCascade permanently removes a course and everything under it. Missing courses are ignored.
func (s *CourseService) DeleteCourseCascade(ctx context.Context, id string) error {
	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to begin transaction")
	}
	if err := s.courses.DeleteCascade(ctx, tx, id); err != nil {
		_ = tx.Rollback()
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete course")
	}
	if err := tx.Commit(); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit course deletion")
	}
	s.invalidate(ctx, id)
	s.logger.Info("course deleted", zap.String("course_id", id))
	return nil
}

func (s *CourseService) setDeletedAt(ctx context.Context, id string, deletedAt *time.Time) (*models.Course, error) {
	if err := s.courses.SetDeletedAt(ctx, id, deletedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.EntityNotFound("Course")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update course")
	}
	s.invalidate(ctx, id)
	return s.loadCourse(ctx, id)
}

func (s *CourseService) loadCourse(ctx context.Context, id string) (*models.Course, error) {
	course, err := s.courses.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrEntityNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	return course, nil
}

func (s *CourseService) invalidate(ctx context.Context, id string) {
	_ = s.cache.Delete(ctx, courseCachePrefix+id)
}
