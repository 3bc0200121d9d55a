package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/univ-portal-api/internal/models"
)

// OutcomeRepository stores the audit trail of manager operations.
type OutcomeRepository struct {
	db *sqlx.DB
}

// NewOutcomeRepository constructs an OutcomeRepository.
func NewOutcomeRepository(db *sqlx.DB) *OutcomeRepository {
	return &OutcomeRepository{db: db}
}

// Create inserts one outcome row.
func (r *OutcomeRepository) Create(ctx context.Context, outcome *models.Outcome) error {
	if outcome.ID == "" {
		outcome.ID = uuid.NewString()
	}
	if outcome.OccurredAt.IsZero() {
		outcome.OccurredAt = time.Now().UTC()
	}
	const query = `INSERT INTO operation_outcomes (id, operation, resource, resource_id, success, reason, request_id, occurred_at)
		VALUES (:id, :operation, :resource, :resource_id, :success, :reason, :request_id, :occurred_at)`
	if _, err := r.db.NamedExecContext(ctx, query, outcome); err != nil {
		return fmt.Errorf("create operation outcome: %w", err)
	}
	return nil
}
