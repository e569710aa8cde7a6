package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/course-allocation-api/internal/models"
)

const allocationColumns = `a.id, a.student_id, a.course_id, a.status, a.student_comment, a.lecturer_comment,
        a.created_at, a.updated_at, a.approved_at, a.denied_at, a.dropped_at`

const allocationDetailSelect = `SELECT ` + allocationColumns + `,
        s.student_number, s.full_name AS student_name, c.course_code, c.course_name, c.lecturer_id
        FROM allocations a
        JOIN students s ON s.id = a.student_id
        JOIN courses c ON c.id = a.course_id`

// AllocationRepository handles persistence of allocations.
type AllocationRepository struct {
	db *sqlx.DB
}

// NewAllocationRepository constructs the repository.
func NewAllocationRepository(db *sqlx.DB) *AllocationRepository {
	return &AllocationRepository{db: db}
}

// FindDetailByID returns an allocation with student and course display fields.
func (r *AllocationRepository) FindDetailByID(ctx context.Context, id string) (*models.AllocationDetail, error) {
	query := allocationDetailSelect + ` WHERE a.id = $1`
	var detail models.AllocationDetail
	if err := r.db.GetContext(ctx, &detail, query, id); err != nil {
		return nil, err
	}
	return &detail, nil
}

// List returns allocations matching the filter, newest first.
func (r *AllocationRepository) List(ctx context.Context, filter models.AllocationFilter) ([]models.AllocationDetail, error) {
	var conditions []string
	var args []interface{}

	if filter.StudentID != "" {
		args = append(args, filter.StudentID)
		conditions = append(conditions, fmt.Sprintf("a.student_id = $%d", len(args)))
	}
	if filter.CourseID != "" {
		args = append(args, filter.CourseID)
		conditions = append(conditions, fmt.Sprintf("a.course_id = $%d", len(args)))
	}
	if filter.LecturerID != "" {
		args = append(args, filter.LecturerID)
		conditions = append(conditions, fmt.Sprintf("c.lecturer_id = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("a.status = $%d", len(args)))
	}

	query := allocationDetailSelect
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY a.created_at DESC, a.id"

	allocations := []models.AllocationDetail{}
	if err := r.db.SelectContext(ctx, &allocations, query, args...); err != nil {
		return nil, fmt.Errorf("list allocations: %w", err)
	}
	return allocations, nil
}

// CountByCourseAndStatusTx counts allocations on a course in the given status
// inside tx.
func (r *AllocationRepository) CountByCourseAndStatusTx(ctx context.Context, tx *sqlx.Tx, courseID string, status models.AllocationStatus) (int, error) {
	const query = `SELECT COUNT(*) FROM allocations WHERE course_id = $1 AND status = $2`
	var count int
	if err := tx.GetContext(ctx, &count, query, courseID, status); err != nil {
		return 0, fmt.Errorf("count allocations: %w", err)
	}
	return count, nil
}

// ExistsByStudentAndCourse reports whether any allocation, in any status, exists for the pair.
func (r *AllocationRepository) ExistsByStudentAndCourse(ctx context.Context, tx *sqlx.Tx, studentID, courseID string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM allocations WHERE student_id = $1 AND course_id = $2)`
	var exists bool
	if err := tx.GetContext(ctx, &exists, query, studentID, courseID); err != nil {
		return false, fmt.Errorf("check allocation existence: %w", err)
	}
	return exists, nil
}

// FindByIDForUpdate loads and row-locks an allocation inside tx.
func (r *AllocationRepository) FindByIDForUpdate(ctx context.Context, tx *sqlx.Tx, id string) (*models.Allocation, error) {
	query := `SELECT ` + allocationColumns + ` FROM allocations a WHERE a.id = $1 FOR UPDATE`
	var allocation models.Allocation
	if err := tx.GetContext(ctx, &allocation, query, id); err != nil {
		if isLockTimeout(err) {
			return nil, ErrLockTimeout
		}
		return nil, err
	}
	return &allocation, nil
}

// FindByStudentAndCourseForUpdate loads and row-locks the allocation for a pair inside tx.
func (r *AllocationRepository) FindByStudentAndCourseForUpdate(ctx context.Context, tx *sqlx.Tx, studentID, courseID string) (*models.Allocation, error) {
	query := `SELECT ` + allocationColumns + ` FROM allocations a WHERE a.student_id = $1 AND a.course_id = $2 FOR UPDATE`
	var allocation models.Allocation
	if err := tx.GetContext(ctx, &allocation, query, studentID, courseID); err != nil {
		if isLockTimeout(err) {
			return nil, ErrLockTimeout
		}
		return nil, err
	}
	return &allocation, nil
}

// Create persists a new allocation inside tx.
func (r *AllocationRepository) Create(ctx context.Context, tx *sqlx.Tx, allocation *models.Allocation) error {
	if allocation.ID == "" {
		allocation.ID = uuid.NewString()
	}
	if allocation.CreatedAt.IsZero() {
		allocation.CreatedAt = time.Now().UTC()
	}
	if allocation.UpdatedAt.IsZero() {
		allocation.UpdatedAt = allocation.CreatedAt
	}
	if allocation.Status == "" {
		allocation.Status = models.AllocationStatusPending
	}
	const query = `INSERT INTO allocations (id, student_id, course_id, status, student_comment, lecturer_comment,
        created_at, updated_at, approved_at, denied_at, dropped_at)
        VALUES (:id, :student_id, :course_id, :status, :student_comment, :lecturer_comment,
        :created_at, :updated_at, :approved_at, :denied_at, :dropped_at)`
	if _, err := tx.NamedExecContext(ctx, query, allocation); err != nil {
		if isUniqueViolation(err, allocationPairIndex) {
			return ErrDuplicateAllocation
		}
		return fmt.Errorf("create allocation: %w", err)
	}
	return nil
}

// UpdateTransition persists a status transition. The write only applies while
// the stored status still equals from; otherwise sql.ErrNoRows is returned.
func (r *AllocationRepository) UpdateTransition(ctx context.Context, tx *sqlx.Tx, allocation *models.Allocation, from models.AllocationStatus) error {
	const query = `UPDATE allocations SET status = $3, lecturer_comment = $4, updated_at = $5,
        approved_at = $6, denied_at = $7, dropped_at = $8
        WHERE id = $1 AND status = $2`
	result, err := tx.ExecContext(ctx, query,
		allocation.ID,
		from,
		allocation.Status,
		allocation.LecturerComment,
		allocation.UpdatedAt,
		allocation.ApprovedAt,
		allocation.DeniedAt,
		allocation.DroppedAt,
	)
	if err != nil {
		return fmt.Errorf("update allocation status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update allocation status rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// IsNotFound reports whether err signals a missing row.
func IsNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
