package action

import (
	"context"
	"fmt"
	"net/http"

	"github.com/noah-isme/course-feedback-api/internal/dto"
	"github.com/noah-isme/course-feedback-api/internal/models"
	"github.com/noah-isme/course-feedback-api/internal/service"
	appErrors "github.com/noah-isme/course-feedback-api/pkg/errors"
)

// BinCourse moves a course into the recycle bin.
type BinCourse struct {
	deps     Deps
	gate     gateKeeper
	courseID string
}

// NewBinCourse builds the action.
func NewBinCourse(deps Deps) Action {
	return &BinCourse{deps: deps, gate: gateKeeper{logic: deps.Logic}}
}

func (a *BinCourse) AuthType() AuthType { return AuthLoggedIn }

func (a *BinCourse) Validate(req *Request) error {
	id, err := req.RequiredParam(ParamCourseID)
	a.courseID = id
	return err
}

func (a *BinCourse) CheckAccess(ctx context.Context, user UserInfo) error {
	_, err := a.gate.verifyInstructorPrivilege(ctx, user, a.courseID, models.PrivilegeModifyCourse)
	return err
}

// Execute godoc
// @Summary Move a course to the recycle bin
// @Tags Courses
// @Produce json
// @Param courseid query string true "Course ID"
// @Param user query string false "Google ID to act as (administrators only)"
// @Success 200 {object} dto.CourseData
// @Failure 403 {object} appErrors.Error
// @Failure 404 {object} appErrors.Error
// @Security BearerAuth
// @Router /bin/course [put]
func (a *BinCourse) Execute(ctx context.Context, user UserInfo) (*Result, error) {
	course, err := a.deps.Logic.MoveCourseToRecycleBin(ctx, a.courseID)
	if err != nil {
		return nil, err
	}
	return &Result{Status: http.StatusOK, Output: dto.NewCourseData(*course)}, nil
}

// RestoreCourse takes a course out of the recycle bin.
type RestoreCourse struct {
	deps     Deps
	gate     gateKeeper
	courseID string
}

// NewRestoreCourse builds the action.
func NewRestoreCourse(deps Deps) Action {
	return &RestoreCourse{deps: deps, gate: gateKeeper{logic: deps.Logic}}
}

func (a *RestoreCourse) AuthType() AuthType { return AuthLoggedIn }

func (a *RestoreCourse) Validate(req *Request) error {
	id, err := req.RequiredParam(ParamCourseID)
	a.courseID = id
	return err
}

func (a *RestoreCourse) CheckAccess(ctx context.Context, user UserInfo) error {
	_, err := a.gate.verifyInstructorPrivilege(ctx, user, a.courseID, models.PrivilegeModifyCourse)
	return err
}

// Execute godoc
// @Summary Restore a course from the recycle bin
// @Tags Courses
// @Produce json
// @Param courseid query string true "Course ID"
// @Success 200 {object} dto.MessageOutput
// @Failure 403 {object} appErrors.Error
// @Security BearerAuth
// @Router /bin/course [delete]
func (a *RestoreCourse) Execute(ctx context.Context, user UserInfo) (*Result, error) {
	if _, err := a.deps.Logic.RestoreCourseFromRecycleBin(ctx, a.courseID); err != nil {
		return nil, err
	}
	return &Result{Status: http.StatusOK, Output: dto.MessageOutput{Message: fmt.Sprintf("The course %s has been restored.", a.courseID)}}, nil
}

// GetCourse returns one course to its members or an administrator.
type GetCourse struct {
	deps     Deps
	gate     gateKeeper
	courseID string
}

// NewGetCourse builds the action.
func NewGetCourse(deps Deps) Action {
	return &GetCourse{deps: deps, gate: gateKeeper{logic: deps.Logic}}
}

func (a *GetCourse) AuthType() AuthType { return AuthLoggedIn }

func (a *GetCourse) Validate(req *Request) error {
	id, err := req.RequiredParam(ParamCourseID)
	a.courseID = id
	return err
}

func (a *GetCourse) CheckAccess(ctx context.Context, user UserInfo) error {
	if user.IsAdmin {
		return nil
	}
	return a.gate.verifyCourseMember(ctx, user, a.courseID)
}

// Execute godoc
// @Summary Get a course
// @Tags Courses
// @Produce json
// @Param courseid query string true "Course ID"
// @Success 200 {object} dto.CourseData
// @Failure 404 {object} appErrors.Error
// @Security BearerAuth
// @Router /course [get]
func (a *GetCourse) Execute(ctx context.Context, user UserInfo) (*Result, error) {
	course, err := a.deps.Logic.GetCourse(ctx, a.courseID)
	if err != nil {
		return nil, err
	}
	return &Result{Status: http.StatusOK, Output: dto.NewCourseData(*course)}, nil
}

// CreateCourse creates a course owned by the caller.
type CreateCourse struct {
	deps Deps
	gate gateKeeper
	req  service.CreateCourseRequest
}

// NewCreateCourse builds the action.
func NewCreateCourse(deps Deps) Action {
	return &CreateCourse{deps: deps, gate: gateKeeper{logic: deps.Logic}}
}

func (a *CreateCourse) AuthType() AuthType { return AuthLoggedIn }

func (a *CreateCourse) Validate(req *Request) error {
	return req.DecodeBody(&a.req)
}

func (a *CreateCourse) CheckAccess(ctx context.Context, user UserInfo) error {
	return a.gate.verifyLoggedIn(user)
}

// Execute godoc
// @Summary Create a course owned by the caller
// @Tags Courses
// @Accept json
// @Produce json
// @Param payload body service.CreateCourseRequest true "Course payload"
// @Success 201 {object} dto.CourseData
// @Failure 409 {object} appErrors.Error
// @Security BearerAuth
// @Router /course [post]
func (a *CreateCourse) Execute(ctx context.Context, user UserInfo) (*Result, error) {
	course, err := a.deps.Logic.CreateCourseAndInstructor(ctx, user.ID, a.req)
	if err != nil {
		return nil, err
	}
	return &Result{Status: http.StatusCreated, Output: dto.NewCourseData(*course)}, nil
}

// DeleteCourse permanently removes a binned course.
type DeleteCourse struct {
	deps     Deps
	gate     gateKeeper
	courseID string
}

// NewDeleteCourse builds the action.
func NewDeleteCourse(deps Deps) Action {
	return &DeleteCourse{deps: deps, gate: gateKeeper{logic: deps.Logic}}
}

func (a *DeleteCourse) AuthType() AuthType { return AuthLoggedIn }

func (a *DeleteCourse) Validate(req *Request) error {
	id, err := req.RequiredParam(ParamCourseID)
	a.courseID = id
	return err
}

func (a *DeleteCourse) CheckAccess(ctx context.Context, user UserInfo) error {
	_, err := a.gate.verifyInstructorPrivilege(ctx, user, a.courseID, models.PrivilegeModifyCourse)
	return err
}

// Execute godoc
// @Summary Permanently delete a binned course
// @Tags Courses
// @Produce json
// @Param courseid query string true "Course ID"
// @Success 200 {object} dto.MessageOutput
// @Failure 409 {object} appErrors.Error
// @Security BearerAuth
// @Router /course [delete]
func (a *DeleteCourse) Execute(ctx context.Context, user UserInfo) (*Result, error) {
	course, err := a.deps.Logic.GetCourse(ctx, a.courseID)
	if err != nil && !appErrors.HasCode(err, appErrors.ErrEntityNotFound.Code) {
		return nil, err
	}
	if course != nil && !course.IsSoftDeleted() && !user.Backdoor {
		return nil, appErrors.Clone(appErrors.ErrConflict, "move the course to the recycle bin before deleting it")
	}
	if err := a.deps.Logic.DeleteCourseCascade(ctx, a.courseID); err != nil {
		return nil, err
	}
	return &Result{Status: http.StatusOK, Output: dto.MessageOutput{Message: "OK"}}, nil
}

// GetCourses lists the caller's courses as an instructor.
type GetCourses struct {
	deps   Deps
	gate   gateKeeper
	status models.CourseStatus
}

// NewGetCourses builds the action.
func NewGetCourses(deps Deps) Action {
	return &GetCourses{deps: deps, gate: gateKeeper{logic: deps.Logic}}
}

func (a *GetCourses) AuthType() AuthType { return AuthLoggedIn }

func (a *GetCourses) Validate(req *Request) error {
	entityType, err := req.RequiredParam(ParamEntityType)
	if err != nil {
		return err
	}
	if entityType != EntityTypeInstructor {
		return appErrors.Clone(appErrors.ErrInvalidParameters, fmt.Sprintf("unsupported entity type %q", entityType))
	}
	switch status := models.CourseStatus(req.Param(ParamCourseStatus)); status {
	case "", models.CourseStatusActive:
		a.status = models.CourseStatusActive
	case models.CourseStatusSoftDeleted:
		a.status = models.CourseStatusSoftDeleted
	default:
		return appErrors.Clone(appErrors.ErrInvalidParameters, fmt.Sprintf("unsupported course status %q", status))
	}
	return nil
}

func (a *GetCourses) CheckAccess(ctx context.Context, user UserInfo) error {
	return a.gate.verifyInstructor(user)
}

// Execute godoc
// @Summary List the caller's courses
// @Tags Courses
// @Produce json
// @Param entitytype query string true "Entity type" Enums(instructor)
// @Param coursestatus query string false "Course status" Enums(active, softDeleted)
// @Success 200 {object} dto.CoursesData
// @Security BearerAuth
// @Router /courses [get]
func (a *GetCourses) Execute(ctx context.Context, user UserInfo) (*Result, error) {
	courses, err := a.deps.Logic.GetCoursesForInstructor(ctx, user.ID, a.status)
	if err != nil {
		return nil, err
	}
	return &Result{Status: http.StatusOK, Output: dto.NewCoursesData(courses)}, nil
}
