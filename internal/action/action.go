// Package action implements the request lifecycle shared by every API resource:
// parameters are validated, the caller is authenticated and authorized, and only
// then is the operation executed.
package action

import (
	"context"
	"time"

	"github.com/noah-isme/course-feedback-api/internal/models"
	"github.com/noah-isme/course-feedback-api/internal/service"
)

// AuthType states whether an action needs an authenticated caller.
type AuthType int

const (
	// AuthLoggedIn requires an identity token or backdoor keys.
	AuthLoggedIn AuthType = iota
	// AuthPublic admits anonymous callers.
	AuthPublic
)

// Stage names the lifecycle checkpoint an execution last passed.
type Stage string

const (
	StageReceived            Stage = "received"
	StageParametersValidated Stage = "parameters_validated"
	StageAuthenticated       Stage = "authenticated"
	StageAuthorized          Stage = "authorized"
	StageExecuted            Stage = "executed"
)

// UserInfo is the effective caller after authentication and masquerade resolution.
type UserInfo struct {
	ID           string
	Email        string
	IsAdmin      bool
	IsInstructor bool
	IsStudent    bool
	// Masquerade is set when an administrator acts as ID.
	Masquerade bool
	// Backdoor is set for requests carrying valid maintenance keys.
	Backdoor bool
}

// IsAnonymous reports whether no identity was established.
func (u UserInfo) IsAnonymous() bool {
	return u.ID == "" && !u.Backdoor
}

// FileOutput is a downloadable result body.
type FileOutput struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Result is the outcome of a successful execution. Output is built from post-operation state.
type Result struct {
	Status int
	Output interface{}
	File   *FileOutput
}

// Action is one API operation. A fresh value is built per request; Validate
// captures the parsed inputs that CheckAccess and Execute then use.
type Action interface {
	AuthType() AuthType
	Validate(req *Request) error
	CheckAccess(ctx context.Context, user UserInfo) error
	Execute(ctx context.Context, user UserInfo) (*Result, error)
}

// CourseLogic covers course lifecycle operations.
type CourseLogic interface {
	GetCourse(ctx context.Context, id string) (*models.Course, error)
	CreateCourseAndInstructor(ctx context.Context, googleID string, req service.CreateCourseRequest) (*models.Course, error)
	GetCoursesForInstructor(ctx context.Context, googleID string, status models.CourseStatus) ([]models.Course, error)
	MoveCourseToRecycleBin(ctx context.Context, id string) (*models.Course, error)
	RestoreCourseFromRecycleBin(ctx context.Context, id string) (*models.Course, error)
	DeleteCourseCascade(ctx context.Context, id string) error
}

// SessionLogic covers feedback session operations.
type SessionLogic interface {
	GetFeedbackSession(ctx context.Context, courseID, name string) (*models.FeedbackSession, error)
	DeleteFeedbackSessionCascade(ctx context.Context, courseID, name string) error
	GetOngoingSessions(ctx context.Context, rangeStart, rangeEnd time.Time) ([]models.InstituteSession, error)
}

// AccountLogic covers identity and instructor lookups.
type AccountLogic interface {
	GetAccount(ctx context.Context, googleID string) (*models.Account, error)
	ResolveRoles(ctx context.Context, googleID string) (service.UserRoles, error)
	GetInstructorForGoogleID(ctx context.Context, courseID, googleID string) (*models.Instructor, error)
	GetInstructorForEmail(ctx context.Context, courseID, email string) (*models.Instructor, error)
}

// StudentLogic covers enrollment operations.
type StudentLogic interface {
	GetStudent(ctx context.Context, courseID, email string) (*models.Student, error)
	GetStudentForGoogleID(ctx context.Context, courseID, googleID string) (*models.Student, error)
	DeleteStudentsForGoogleID(ctx context.Context, googleID string) error
}

// BundleLogic covers data bundle maintenance.
type BundleLogic interface {
	PersistDataBundle(ctx context.Context, bundle *models.DataBundle) error
	RemoveDataBundle(ctx context.Context, bundle *models.DataBundle) error
}

// Logic is everything actions need from the service layer.
type Logic interface {
	CourseLogic
	SessionLogic
	AccountLogic
	StudentLogic
	BundleLogic
}

// TokenIssuer signs development identity tokens.
type TokenIssuer interface {
	DevLogin(ctx context.Context, req models.DevLoginRequest) (*models.LoginResponse, error)
}

// Deps are the collaborators handed to every action factory.
type Deps struct {
	Logic Logic
	Auth  TokenIssuer
	Now   func() time.Time
}

func (d Deps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}
