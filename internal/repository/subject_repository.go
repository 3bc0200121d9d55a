package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/univ-portal-api/internal/models"
)

// SubjectRepository reads the subject catalog.
type SubjectRepository struct {
	db *sqlx.DB
}

// NewSubjectRepository constructs a SubjectRepository.
func NewSubjectRepository(db *sqlx.DB) *SubjectRepository {
	return &SubjectRepository{db: db}
}

type prerequisiteRow struct {
	SubjectID string `db:"subject_id"`
	Code      string `db:"prerequisite_code"`
}

// ListAll returns every subject with its prerequisite codes attached.
func (r *SubjectRepository) ListAll(ctx context.Context) ([]models.Subject, error) {
	const query = `SELECT id, code, name, branch, semester, credits, type, status, description, created_at, updated_at FROM subjects ORDER BY code ASC`
	var subjects []models.Subject
	if err := r.db.SelectContext(ctx, &subjects, query); err != nil {
		return nil, fmt.Errorf("list subjects: %w", err)
	}

	const prereqQuery = `SELECT subject_id, prerequisite_code FROM subject_prerequisites ORDER BY subject_id, prerequisite_code`
	var rows []prerequisiteRow
	if err := r.db.SelectContext(ctx, &rows, prereqQuery); err != nil {
		return nil, fmt.Errorf("list subject prerequisites: %w", err)
	}
	bySubject := make(map[string][]string, len(rows))
	for _, row := range rows {
		bySubject[row.SubjectID] = append(bySubject[row.SubjectID], row.Code)
	}
	for i := range subjects {
		subjects[i].Prerequisites = bySubject[subjects[i].ID]
		if subjects[i].Prerequisites == nil {
			subjects[i].Prerequisites = []string{}
		}
	}
	return subjects, nil
}
