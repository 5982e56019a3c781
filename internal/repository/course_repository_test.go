package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/course-feedback-api/internal/models"
)

func newCourseRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

var courseRowColumns = []string{"id", "name", "time_zone", "institute", "created_at", "deleted_at"}

func TestCourseRepositoryFindByID(t *testing.T) {
	db, mock, cleanup := newCourseRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	created := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("FROM courses c WHERE c.id = $1")).
		WithArgs("CS101").
		WillReturnRows(sqlmock.NewRows(courseRowColumns).AddRow("CS101", "Programming", "UTC", "NUS", created, nil))

	course, err := repo.FindByID(context.Background(), "CS101")
	require.NoError(t, err)
	assert.Equal(t, "Programming", course.Name)
	assert.False(t, course.IsSoftDeleted())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryFindByIDMissing(t *testing.T) {
	db, mock, cleanup := newCourseRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectQuery("FROM courses c WHERE c.id").WithArgs("nope").WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), "nope")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestCourseRepositoryListForInstructorFiltersByStatus(t *testing.T) {
	db, mock, cleanup := newCourseRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE i.google_id = $1 AND c.deleted_at IS NULL")).
		WithArgs("idOfInstructor1").
		WillReturnRows(sqlmock.NewRows(courseRowColumns).AddRow("CS101", "Programming", "UTC", "NUS", time.Now(), nil))
	mock.ExpectQuery(regexp.QuoteMeta("WHERE i.google_id = $1 AND c.deleted_at IS NOT NULL")).
		WithArgs("idOfInstructor1").
		WillReturnRows(sqlmock.NewRows(courseRowColumns))

	active, err := repo.ListForInstructor(context.Background(), "idOfInstructor1", models.CourseStatusActive)
	require.NoError(t, err)
	assert.Len(t, active, 1)

	binned, err := repo.ListForInstructor(context.Background(), "idOfInstructor1", models.CourseStatusSoftDeleted)
	require.NoError(t, err)
	assert.Empty(t, binned)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositorySetDeletedAt(t *testing.T) {
	db, mock, cleanup := newCourseRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	now := time.Now().UTC()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE courses SET deleted_at = COALESCE(deleted_at, $2) WHERE id = $1")).
		WithArgs("CS101", &now).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE courses SET deleted_at = $2 WHERE id = $1")).
		WithArgs("ghost", nil).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.SetDeletedAt(context.Background(), "CS101", &now))
	assert.ErrorIs(t, repo.SetDeletedAt(context.Background(), "ghost", nil), sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryDeleteCascadeInTransaction(t *testing.T) {
	db, mock, cleanup := newCourseRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM feedback_sessions").WithArgs("CS101").WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("DELETE FROM students").WithArgs("CS101").WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec("DELETE FROM instructors").WithArgs("CS101").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM courses").WithArgs("CS101").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	tx, err := db.BeginTxx(context.Background(), nil)
	require.NoError(t, err)
	require.NoError(t, repo.DeleteCascade(context.Background(), tx, "CS101"))
	require.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newCourseRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectExec("INSERT INTO courses").
		WithArgs("CS101", "Programming", "Asia/Singapore", "NUS", sqlmock.AnyArg(), nil).
		WillReturnResult(sqlmock.NewResult(1, 1))

	course := &models.Course{ID: "CS101", Name: "Programming", TimeZone: "Asia/Singapore", Institute: "NUS"}
	require.NoError(t, repo.Create(context.Background(), nil, course))
	assert.False(t, course.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}
