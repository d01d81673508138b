package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/payorbit/wallet-panel-api/internal/models"
)

// AuditRepository persists the local mutation trail in PostgreSQL.
type AuditRepository struct {
	db *sqlx.DB
}

// NewAuditRepository constructs an AuditRepository.
func NewAuditRepository(db *sqlx.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

const insertAuditQuery = `
	INSERT INTO mutation_audit (
		id, actor_id, actor_role, action, target_phone, amount,
		succeeded, message, request_id, created_at
	) VALUES (
		:id, :actor_id, :actor_role, :action, :target_phone, :amount,
		:succeeded, :message, :request_id, :created_at
	)`

// Insert records one submitted mutation.
func (r *AuditRepository) Insert(ctx context.Context, entry *models.AuditEntry) error {
	_, err := r.db.NamedExecContext(ctx, insertAuditQuery, entry)
	return err
}

const listAuditQuery = `
	SELECT id, actor_id, actor_role, action, target_phone, amount,
	       succeeded, message, request_id, created_at
	FROM mutation_audit
	WHERE actor_id = $1
	ORDER BY created_at DESC
	LIMIT $2`

// ListByActor returns the newest audit entries for one actor.
func (r *AuditRepository) ListByActor(ctx context.Context, actorID string, limit int) ([]models.AuditEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	entries := []models.AuditEntry{}
	if err := r.db.SelectContext(ctx, &entries, listAuditQuery, actorID, limit); err != nil {
		return nil, err
	}
	return entries, nil
}
