package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/course-allocation-api/internal/models"
)

const courseColumns = `id, course_code, course_name, credits, department_id, semester_id, lecturer_id,
        minimum_gpa, max_capacity, current_enrollment, is_active`

// CourseRepository reads courses and owns the seat counter on each course row.
type CourseRepository struct {
	db          *sqlx.DB
	lockTimeout time.Duration
}

// NewCourseRepository constructs the repository. lockTimeout bounds how long
// LockByID waits for a concurrent holder; zero leaves the server default.
func NewCourseRepository(db *sqlx.DB, lockTimeout time.Duration) *CourseRepository {
	return &CourseRepository{db: db, lockTimeout: lockTimeout}
}

// FindByID returns a course by ID.
func (r *CourseRepository) FindByID(ctx context.Context, id string) (*models.Course, error) {
	return findCourse(ctx, r.db, id)
}

// FindByIDTx is FindByID inside a transaction, without taking a row lock.
func (r *CourseRepository) FindByIDTx(ctx context.Context, tx *sqlx.Tx, id string) (*models.Course, error) {
	return findCourse(ctx, tx, id)
}

func findCourse(ctx context.Context, q sqlx.QueryerContext, id string) (*models.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses WHERE id = $1`
	var course models.Course
	if err := sqlx.GetContext(ctx, q, &course, query, id); err != nil {
		return nil, err
	}
	return &course, nil
}

// LockByID loads the course row with FOR UPDATE inside tx. Concurrent units
// touching the same course queue behind the lock until commit or rollback.
func (r *CourseRepository) LockByID(ctx context.Context, tx *sqlx.Tx, id string) (*models.Course, error) {
	if r.lockTimeout > 0 {
		stmt := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", r.lockTimeout.Milliseconds())
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return nil, fmt.Errorf("set lock timeout: %w", err)
		}
	}
	query := `SELECT ` + courseColumns + ` FROM courses WHERE id = $1 FOR UPDATE`
	var course models.Course
	if err := tx.GetContext(ctx, &course, query, id); err != nil {
		if isLockTimeout(err) {
			return nil, ErrLockTimeout
		}
		return nil, err
	}
	return &course, nil
}

// ReserveSeat increments current_enrollment only while it is below max_capacity.
func (r *CourseRepository) ReserveSeat(ctx context.Context, tx *sqlx.Tx, courseID string) error {
	const query = `UPDATE courses SET current_enrollment = current_enrollment + 1
        WHERE id = $1 AND current_enrollment < max_capacity`
	result, err := tx.ExecContext(ctx, query, courseID)
	if err != nil {
		if isCheckViolation(err) {
			return ErrCapacityExhausted
		}
		return fmt.Errorf("reserve seat: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("reserve seat rows: %w", err)
	}
	if affected == 0 {
		return ErrCapacityExhausted
	}
	return nil
}

// ReleaseSeat decrements current_enrollment, never below zero.
func (r *CourseRepository) ReleaseSeat(ctx context.Context, tx *sqlx.Tx, courseID string) error {
	const query = `UPDATE courses SET current_enrollment = GREATEST(current_enrollment - 1, 0) WHERE id = $1`
	if _, err := tx.ExecContext(ctx, query, courseID); err != nil {
		return fmt.Errorf("release seat: %w", err)
	}
	return nil
}

// ListEligible returns active, staffed courses in a semester whose minimum GPA
// does not exceed gpa.
func (r *CourseRepository) ListEligible(ctx context.Context, semesterID string, gpa float64) ([]models.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses
        WHERE semester_id = $1 AND is_active = TRUE AND lecturer_id IS NOT NULL AND minimum_gpa <= $2
        ORDER BY course_code`
	courses := []models.Course{}
	if err := r.db.SelectContext(ctx, &courses, query, semesterID, gpa); err != nil {
		return nil, fmt.Errorf("list eligible courses: %w", err)
	}
	return courses, nil
}
