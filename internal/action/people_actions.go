package action

import (
	"context"
	"net/http"

	"github.com/noah-isme/course-feedback-api/internal/dto"
	"github.com/noah-isme/course-feedback-api/internal/models"
)

// GetStudent returns one enrollment to instructors allowed to view it.
type GetStudent struct {
	deps     Deps
	gate     gateKeeper
	courseID string
	email    string
}

// NewGetStudent builds the action.
func NewGetStudent(deps Deps) Action {
	return &GetStudent{deps: deps, gate: gateKeeper{logic: deps.Logic}}
}

func (a *GetStudent) AuthType() AuthType { return AuthLoggedIn }

func (a *GetStudent) Validate(req *Request) error {
	var err error
	if a.courseID, err = req.RequiredParam(ParamCourseID); err != nil {
		return err
	}
	a.email, err = req.RequiredParam(ParamStudentEmail)
	return err
}

func (a *GetStudent) CheckAccess(ctx context.Context, user UserInfo) error {
	if user.IsAdmin {
		return nil
	}
	_, err := a.gate.verifyInstructorPrivilege(ctx, user, a.courseID, models.PrivilegeViewStudentInSection)
	return err
}

// Execute godoc
// @Summary Get an enrolled student
// @Tags People
// @Produce json
// @Param courseid query string true "Course ID"
// @Param studentemail query string true "Student email"
// @Success 200 {object} dto.StudentData
// @Security BearerAuth
// @Router /student [get]
func (a *GetStudent) Execute(ctx context.Context, user UserInfo) (*Result, error) {
	student, err := a.deps.Logic.GetStudent(ctx, a.courseID, a.email)
	if err != nil {
		return nil, err
	}
	return &Result{Status: http.StatusOK, Output: dto.NewStudentData(*student)}, nil
}

// DeleteStudent removes every enrollment linked to a google id.
type DeleteStudent struct {
	deps      Deps
	gate      gateKeeper
	studentID string
}

// NewDeleteStudent builds the action.
func NewDeleteStudent(deps Deps) Action {
	return &DeleteStudent{deps: deps, gate: gateKeeper{logic: deps.Logic}}
}

func (a *DeleteStudent) AuthType() AuthType { return AuthLoggedIn }

func (a *DeleteStudent) Validate(req *Request) error {
	id, err := req.RequiredParam(ParamStudentID)
	a.studentID = id
	return err
}

func (a *DeleteStudent) CheckAccess(ctx context.Context, user UserInfo) error {
	return a.gate.verifyAdmin(user)
}

// Execute godoc
// @Summary Delete every enrollment of a google id
// @Tags People
// @Produce json
// @Param studentid query string true "Student google ID"
// @Success 200 {object} dto.MessageOutput
// @Security BearerAuth
// @Router /students [delete]
func (a *DeleteStudent) Execute(ctx context.Context, user UserInfo) (*Result, error) {
	if err := a.deps.Logic.DeleteStudentsForGoogleID(ctx, a.studentID); err != nil {
		return nil, err
	}
	return &Result{Status: http.StatusOK, Output: dto.MessageOutput{Message: "Student is successfully deleted."}}, nil
}

// GetInstructor returns the named instructor, or the caller's own record when no email is given.
type GetInstructor struct {
	deps     Deps
	gate     gateKeeper
	courseID string
	email    string
}

// NewGetInstructor builds the action.
func NewGetInstructor(deps Deps) Action {
	return &GetInstructor{deps: deps, gate: gateKeeper{logic: deps.Logic}}
}

func (a *GetInstructor) AuthType() AuthType { return AuthLoggedIn }

func (a *GetInstructor) Validate(req *Request) error {
	id, err := req.RequiredParam(ParamCourseID)
	a.courseID = id
	a.email = req.Param(ParamInstructorEmail)
	return err
}

func (a *GetInstructor) CheckAccess(ctx context.Context, user UserInfo) error {
	if user.IsAdmin && a.email != "" {
		return nil
	}
	_, err := a.gate.verifyInstructorPrivilege(ctx, user, a.courseID, "")
	return err
}

// Execute godoc
// @Summary Get an instructor of a course
// @Tags People
// @Produce json
// @Param courseid query string true "Course ID"
// @Param instructoremail query string false "Instructor email; defaults to the caller"
// @Success 200 {object} dto.InstructorData
// @Security BearerAuth
// @Router /instructor [get]
func (a *GetInstructor) Execute(ctx context.Context, user UserInfo) (*Result, error) {
	var (
		instructor *models.Instructor
		err        error
	)
	if a.email != "" {
		instructor, err = a.deps.Logic.GetInstructorForEmail(ctx, a.courseID, a.email)
	} else {
		instructor, err = a.deps.Logic.GetInstructorForGoogleID(ctx, a.courseID, user.ID)
	}
	if err != nil {
		return nil, err
	}
	return &Result{Status: http.StatusOK, Output: dto.NewInstructorData(*instructor)}, nil
}

// GetAccount returns an account by google id, for administrators.
type GetAccount struct {
	deps     Deps
	gate     gateKeeper
	googleID string
}

// NewGetAccount builds the action.
func NewGetAccount(deps Deps) Action {
	return &GetAccount{deps: deps, gate: gateKeeper{logic: deps.Logic}}
}

func (a *GetAccount) AuthType() AuthType { return AuthLoggedIn }

func (a *GetAccount) Validate(req *Request) error {
	id, err := req.RequiredParam(ParamInstructorID)
	a.googleID = id
	return err
}

func (a *GetAccount) CheckAccess(ctx context.Context, user UserInfo) error {
	return a.gate.verifyAdmin(user)
}

// Execute godoc
// @Summary Get an account
// @Tags People
// @Produce json
// @Param instructorid query string true "Google ID"
// @Success 200 {object} dto.AccountData
// @Security BearerAuth
// @Router /account [get]
func (a *GetAccount) Execute(ctx context.Context, user UserInfo) (*Result, error) {
	account, err := a.deps.Logic.GetAccount(ctx, a.googleID)
	if err != nil {
		return nil, err
	}
	return &Result{Status: http.StatusOK, Output: dto.NewAccountData(*account)}, nil
}
