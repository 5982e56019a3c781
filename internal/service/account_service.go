package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/noah-isme/course-feedback-api/internal/models"
	appErrors "github.com/noah-isme/course-feedback-api/pkg/errors"
)

type accountRepository interface {
	FindByGoogleID(ctx context.Context, googleID string) (*models.Account, error)
}

type instructorRepository interface {
	FindByGoogleID(ctx context.Context, courseID, googleID string) (*models.Instructor, error)
	FindByEmail(ctx context.Context, courseID, email string) (*models.Instructor, error)
	ExistsForGoogleID(ctx context.Context, googleID string) (bool, error)
}

type studentPresenceChecker interface {
	ExistsForGoogleID(ctx context.Context, googleID string) (bool, error)
}

// UserRoles describes the course level roles an identity holds anywhere.
type UserRoles struct {
	IsInstructor bool
	IsStudent    bool
}

// AccountService resolves accounts and their course roles.
type AccountService struct {
	accounts    accountRepository
	instructors instructorRepository
	students    studentPresenceChecker
	logger      *zap.Logger
}

// NewAccountService constructs the account service.
func NewAccountService(accounts accountRepository, instructors instructorRepository, students studentPresenceChecker, logger *zap.Logger) *AccountService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AccountService{accounts: accounts, instructors: instructors, students: students, logger: logger}
}

// GetAccount loads an account by google id.
func (s *AccountService) GetAccount(ctx context.Context, googleID string) (*models.Account, error) {
	account, err := s.accounts.FindByGoogleID(ctx, googleID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrEntityNotFound, "account not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load account")
	}
	return account, nil
}

// ResolveRoles reports whether the identity instructs or studies in any course.
func (s *AccountService) ResolveRoles(ctx context.Context, googleID string) (UserRoles, error) {
	var roles UserRoles
	if googleID == "" {
		return roles, nil
	}
	isInstructor, err := s.instructors.ExistsForGoogleID(ctx, googleID)
	if err != nil {
		return roles, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve instructor role")
	}
	isStudent, err := s.students.ExistsForGoogleID(ctx, googleID)
	if err != nil {
		return roles, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve student role")
	}
	roles.IsInstructor = isInstructor
	roles.IsStudent = isStudent
	return roles, nil
}

// GetInstructorForGoogleID loads the instructor record of an identity within a course.
func (s *AccountService) GetInstructorForGoogleID(ctx context.Context, courseID, googleID string) (*models.Instructor, error) {
	instructor, err := s.instructors.FindByGoogleID(ctx, courseID, googleID)
	return instructorResult(instructor, err)
}

// GetInstructorForEmail loads an instructor by course and email.
func (s *AccountService) GetInstructorForEmail(ctx context.Context, courseID, email string) (*models.Instructor, error) {
	instructor, err := s.instructors.FindByEmail(ctx, courseID, email)
	return instructorResult(instructor, err)
}

func instructorResult(instructor *models.Instructor, err error) (*models.Instructor, error) {
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrEntityNotFound, "instructor not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load instructor")
	}
	return instructor, nil
}
