package dto

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/course-feedback-api/internal/models"
)

func TestNewCourseDataUsesCourseTimeZone(t *testing.T) {
	created := time.Date(2012, 3, 31, 23, 30, 0, 0, time.UTC)
	course := models.Course{ID: "idOfTypicalCourse1", Name: "Typical Course 1", TimeZone: "Asia/Singapore", CreatedAt: created}

	data := NewCourseData(course)
	assert.Equal(t, "01 Apr 2012", data.CreationDate)
	assert.Equal(t, "Asia/Singapore", data.TimeZone)
	assert.Zero(t, data.DeletionTimestamp)

	deleted := created.Add(time.Hour)
	course.DeletedAt = &deleted
	assert.Equal(t, deleted.UnixMilli(), NewCourseData(course).DeletionTimestamp)
}

func TestNewCoursesDataNeverNull(t *testing.T) {
	assert.NotNil(t, NewCoursesData(nil).Courses)
}

func TestNewInstructorDataJoinState(t *testing.T) {
	gid := "ins1"
	joined := NewInstructorData(models.Instructor{CourseID: "c", Email: "e@x.tmt", GoogleID: &gid, Role: models.RoleObserver})
	assert.Equal(t, JoinStateJoined, joined.JoinState)
	assert.True(t, joined.Privileges[models.PrivilegeViewStudentInSection])

	pending := NewInstructorData(models.Instructor{CourseID: "c", Email: "e@x.tmt", Role: models.RoleTutor})
	assert.Equal(t, JoinStateNotJoined, pending.JoinState)
	assert.Empty(t, pending.GoogleID)
}
