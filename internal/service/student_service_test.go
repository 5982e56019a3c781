package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/course-feedback-api/internal/models"
	appErrors "github.com/noah-isme/course-feedback-api/pkg/errors"
)

type mockStudentRepo struct {
	students map[string]models.Student
}

func (m *mockStudentRepo) FindByEmail(ctx context.Context, courseID, email string) (*models.Student, error) {
	s, ok := m.students[courseID+"/"+email]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &s, nil
}

func (m *mockStudentRepo) FindByGoogleID(ctx context.Context, courseID, googleID string) (*models.Student, error) {
	for _, s := range m.students {
		if s.CourseID == courseID && s.GoogleID != nil && *s.GoogleID == googleID {
			return &s, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockStudentRepo) DeleteByGoogleID(ctx context.Context, googleID string) (int64, error) {
	var removed int64
	for key, s := range m.students {
		if s.GoogleID != nil && *s.GoogleID == googleID {
			delete(m.students, key)
			removed++
		}
	}
	return removed, nil
}

func TestStudentServiceGetAndDelete(t *testing.T) {
	gid := "student1InCourse1"
	repo := &mockStudentRepo{students: map[string]models.Student{
		"idOfTypicalCourse1/student1InCourse1@gmail.tmt": {CourseID: "idOfTypicalCourse1", Email: "student1InCourse1@gmail.tmt", GoogleID: &gid, Name: "student1 In Course1"},
	}}
	svc := NewStudentService(repo, zap.NewNop())

	student, err := svc.GetStudent(context.Background(), "idOfTypicalCourse1", "student1InCourse1@gmail.tmt")
	require.NoError(t, err)
	assert.Equal(t, "student1 In Course1", student.Name)

	byID, err := svc.GetStudentForGoogleID(context.Background(), "idOfTypicalCourse1", gid)
	require.NoError(t, err)
	assert.Equal(t, student.Email, byID.Email)

	require.NoError(t, svc.DeleteStudentsForGoogleID(context.Background(), gid))
	require.NoError(t, svc.DeleteStudentsForGoogleID(context.Background(), gid))

	_, err = svc.GetStudent(context.Background(), "idOfTypicalCourse1", "student1InCourse1@gmail.tmt")
	assert.True(t, appErrors.HasCode(err, appErrors.ErrEntityNotFound.Code))
}
