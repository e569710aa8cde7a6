package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/course-allocation-api/internal/models"
)

// SemesterRepository reads semesters.
type SemesterRepository struct {
	db *sqlx.DB
}

// NewSemesterRepository constructs a SemesterRepository.
func NewSemesterRepository(db *sqlx.DB) *SemesterRepository {
	return &SemesterRepository{db: db}
}

// FindActive returns the single active semester. sql.ErrNoRows when none is active.
func (r *SemesterRepository) FindActive(ctx context.Context) (*models.Semester, error) {
	var semester models.Semester
	const query = `SELECT id, name, is_active, starts_on, ends_on FROM semesters WHERE is_active = TRUE LIMIT 1`
	if err := r.db.GetContext(ctx, &semester, query); err != nil {
		return nil, err
	}
	return &semester, nil
}
