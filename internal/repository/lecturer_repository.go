package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/course-allocation-api/internal/models"
)

// LecturerRepository reads lecturer profiles.
type LecturerRepository struct {
	db *sqlx.DB
}

// NewLecturerRepository constructs a LecturerRepository.
func NewLecturerRepository(db *sqlx.DB) *LecturerRepository {
	return &LecturerRepository{db: db}
}

// FindByUserID fetches the lecturer profile linked to an account.
func (r *LecturerRepository) FindByUserID(ctx context.Context, userID string) (*models.Lecturer, error) {
	var lecturer models.Lecturer
	const query = `SELECT id, user_id, full_name, department_id FROM lecturers WHERE user_id = $1`
	if err := r.db.GetContext(ctx, &lecturer, query, userID); err != nil {
		return nil, err
	}
	return &lecturer, nil
}
