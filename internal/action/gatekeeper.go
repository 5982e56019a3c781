package action

import (
	"context"
	"fmt"

	"github.com/noah-isme/course-feedback-api/internal/models"
	appErrors "github.com/noah-isme/course-feedback-api/pkg/errors"
)

// gateKeeper centralises the access rules shared by actions.
type gateKeeper struct {
	logic Logic
}

func (g gateKeeper) verifyLoggedIn(user UserInfo) error {
	if user.IsAnonymous() {
		return appErrors.Clone(appErrors.ErrUnauthorized, "login is required")
	}
	return nil
}

func (g gateKeeper) verifyAdmin(user UserInfo) error {
	if !user.IsAdmin {
		return appErrors.Clone(appErrors.ErrForbidden, "administrator privilege is required")
	}
	return nil
}

func (g gateKeeper) verifyInstructor(user UserInfo) error {
	if !user.IsInstructor {
		return appErrors.Clone(appErrors.ErrForbidden, "instructor privilege is required")
	}
	return nil
}

// verifyInstructorPrivilege requires the caller to instruct the course and, when privilege is
// non-empty, to hold that privilege there. A missing course has no instructors, so it is
// reported as forbidden like any other course the caller cannot touch.
func (g gateKeeper) verifyInstructorPrivilege(ctx context.Context, user UserInfo, courseID, privilege string) (*models.Instructor, error) {
	if user.ID == "" {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "not an instructor of this course")
	}
	instructor, err := g.logic.GetInstructorForGoogleID(ctx, courseID, user.ID)
	if err != nil {
		if appErrors.HasCode(err, appErrors.ErrEntityNotFound.Code) {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "not an instructor of this course")
		}
		return nil, err
	}
	if privilege != "" && !instructor.EffectivePrivileges().Allows(privilege) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, fmt.Sprintf("missing privilege %s for course %s", privilege, courseID))
	}
	return instructor, nil
}

// verifyCourseMember allows instructors and students of the course.
func (g gateKeeper) verifyCourseMember(ctx context.Context, user UserInfo, courseID string) error {
	if user.IsInstructor {
		_, err := g.verifyInstructorPrivilege(ctx, user, courseID, "")
		if err == nil || !appErrors.HasCode(err, appErrors.ErrForbidden.Code) {
			return err
		}
	}
	if user.IsStudent {
		_, err := g.logic.GetStudentForGoogleID(ctx, courseID, user.ID)
		if err == nil {
			return nil
		}
		if !appErrors.HasCode(err, appErrors.ErrEntityNotFound.Code) {
			return err
		}
	}
	return appErrors.Clone(appErrors.ErrForbidden, "not a member of this course")
}
