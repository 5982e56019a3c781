package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/course-feedback-api/internal/models"
)

func newInstructorRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestInstructorRepositoryFindByGoogleIDDecodesPrivileges(t *testing.T) {
	db, mock, cleanup := newInstructorRepoMock(t)
	defer cleanup()
	repo := NewInstructorRepository(db)

	rows := sqlmock.NewRows([]string{"course_id", "email", "google_id", "name", "role", "display_name", "is_displayed_to_students", "privileges"}).
		AddRow("CS101", "helper@course.tmt", "helper1", "Helper", "Custom", "Helper", false, []byte(`{"canmodifysession":true}`))
	mock.ExpectQuery(regexp.QuoteMeta("FROM instructors WHERE course_id = $1 AND google_id = $2")).
		WithArgs("CS101", "helper1").
		WillReturnRows(rows)

	instructor, err := repo.FindByGoogleID(context.Background(), "CS101", "helper1")
	require.NoError(t, err)
	assert.Equal(t, models.RoleCustom, instructor.Role)
	assert.True(t, instructor.EffectivePrivileges().Allows(models.PrivilegeModifySession))
	assert.False(t, instructor.EffectivePrivileges().Allows(models.PrivilegeModifyCourse))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInstructorRepositoryExistsForGoogleID(t *testing.T) {
	db, mock, cleanup := newInstructorRepoMock(t)
	defer cleanup()
	repo := NewInstructorRepository(db)

	mock.ExpectQuery("SELECT 1 FROM instructors WHERE google_id").WithArgs("ins1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(1))
	mock.ExpectQuery("SELECT 1 FROM instructors WHERE google_id").WithArgs("nobody").
		WillReturnError(sql.ErrNoRows)

	ok, err := repo.ExistsForGoogleID(context.Background(), "ins1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.ExistsForGoogleID(context.Background(), "nobody")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}
