package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/course-allocation-api/internal/models"
)

// AuditRepository appends audit trail rows.
type AuditRepository struct{}

// NewAuditRepository constructs an AuditRepository.
func NewAuditRepository() *AuditRepository {
	return &AuditRepository{}
}

// Create inserts an audit row inside tx so it commits or rolls back with the change it describes.
func (r *AuditRepository) Create(ctx context.Context, tx *sqlx.Tx, log *models.AuditLog) error {
	if log.ID == "" {
		log.ID = uuid.NewString()
	}
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO audit_logs (id, user_id, action, resource, resource_id, old_values, new_values, created_at)
        VALUES (:id, :user_id, :action, :resource, :resource_id, :old_values, :new_values, :created_at)`
	if _, err := tx.NamedExecContext(ctx, query, log); err != nil {
		return fmt.Errorf("create audit log: %w", err)
	}
	return nil
}
