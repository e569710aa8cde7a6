package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var courseRowColumns = []string{"id", "course_code", "course_name", "credits", "department_id", "semester_id", "lecturer_id",
	"minimum_gpa", "max_capacity", "current_enrollment", "is_active"}

func TestCourseRepositoryLockByIDSetsTimeout(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db, 1500*time.Millisecond)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("SET LOCAL lock_timeout = '1500ms'")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("FROM courses WHERE id = $1 FOR UPDATE")).
		WithArgs("course-1").
		WillReturnRows(sqlmock.NewRows(courseRowColumns).
			AddRow("course-1", "CS101", "Intro", 3, "dept-1", "sem-1", "lec-1", 3.0, 30, 12, true))

	tx, err := db.Beginx()
	require.NoError(t, err)

	course, err := repo.LockByID(context.Background(), tx, "course-1")
	require.NoError(t, err)
	assert.Equal(t, 12, course.CurrentEnrollment)
	assert.True(t, course.HasLecturer())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryLockByIDNotFound(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db, 0)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	tx, err := db.Beginx()
	require.NoError(t, err)

	_, err = repo.LockByID(context.Background(), tx, "missing")
	assert.True(t, IsNotFound(err))
}

func TestCourseRepositoryReserveSeat(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db, 0)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("current_enrollment = current_enrollment + 1 WHERE id = $1 AND current_enrollment < max_capacity")).
		WithArgs("course-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("current_enrollment < max_capacity")).
		WithArgs("course-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	tx, err := db.Beginx()
	require.NoError(t, err)

	require.NoError(t, repo.ReserveSeat(context.Background(), tx, "course-1"))
	assert.ErrorIs(t, repo.ReserveSeat(context.Background(), tx, "course-1"), ErrCapacityExhausted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryReleaseSeatClamps(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db, 0)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("GREATEST(current_enrollment - 1, 0)")).
		WithArgs("course-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	tx, err := db.Beginx()
	require.NoError(t, err)

	require.NoError(t, repo.ReleaseSeat(context.Background(), tx, "course-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryListEligible(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db, 0)

	mock.ExpectQuery(regexp.QuoteMeta("lecturer_id IS NOT NULL AND minimum_gpa <= $2")).
		WithArgs("sem-1", 3.2).
		WillReturnRows(sqlmock.NewRows(courseRowColumns).
			AddRow("course-1", "CS101", "Intro", 3, "dept-1", "sem-1", "lec-1", 3.0, 30, 0, true))

	courses, err := repo.ListEligible(context.Background(), "sem-1", 3.2)
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, "CS101", courses[0].CourseCode)
}
