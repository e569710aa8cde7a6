package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/course-allocation-api/internal/models"
)

func TestStudentRepositoryFindByUserID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM students WHERE user_id = $1")).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "student_number", "full_name", "department_id", "gpa"}).
			AddRow("stu-1", "user-1", "S-001", "Ada", "dept-1", 3.75))

	student, err := repo.FindByUserID(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "stu-1", student.ID)
	assert.InDelta(t, 3.75, student.GPA, 0.0001)
}

func TestLecturerRepositoryFindByUserIDMissing(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewLecturerRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM lecturers WHERE user_id = $1")).
		WithArgs("user-9").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByUserID(context.Background(), "user-9")
	assert.True(t, IsNotFound(err))
}

func TestSemesterRepositoryFindActive(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSemesterRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM semesters WHERE is_active = TRUE")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "is_active", "starts_on", "ends_on"}).
			AddRow("sem-1", "2026 Fall", true, nil, nil))

	semester, err := repo.FindActive(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "sem-1", semester.ID)
}

func TestAuditRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAuditRepository()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO audit_logs")).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), models.AuditActionAllocationApprove, models.AuditResourceAllocation,
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	tx, err := db.Beginx()
	require.NoError(t, err)

	resourceID := "alloc-1"
	entry := &models.AuditLog{Action: models.AuditActionAllocationApprove, Resource: models.AuditResourceAllocation, ResourceID: &resourceID, NewValues: []byte(`{"status":"APPROVED"}`)}
	require.NoError(t, repo.Create(context.Background(), tx, entry))
	assert.NotEmpty(t, entry.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
