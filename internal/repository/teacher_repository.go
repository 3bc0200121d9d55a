package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/univ-portal-api/internal/models"
)

// TeacherRepository reads the teacher roster and its persisted allocations.
type TeacherRepository struct {
	db *sqlx.DB
}

// NewTeacherRepository constructs a TeacherRepository.
func NewTeacherRepository(db *sqlx.DB) *TeacherRepository {
	return &TeacherRepository{db: db}
}

// ListAll returns every teacher ordered by creation time.
func (r *TeacherRepository) ListAll(ctx context.Context) ([]models.Teacher, error) {
	const query = `SELECT id, employee_id, full_name, email, department, designation, max_subjects, status, created_at, updated_at FROM teachers ORDER BY created_at ASC`
	var teachers []models.Teacher
	if err := r.db.SelectContext(ctx, &teachers, query); err != nil {
		return nil, fmt.Errorf("list teachers: %w", err)
	}
	return teachers, nil
}

// ListAllocations returns persisted subject allocations ordered by creation time.
func (r *TeacherRepository) ListAllocations(ctx context.Context) ([]models.Allocation, error) {
	const query = `SELECT id, teacher_id, subject_id, enrolled_students, created_at FROM subject_allocations ORDER BY created_at ASC`
	var allocations []models.Allocation
	if err := r.db.SelectContext(ctx, &allocations, query); err != nil {
		return nil, fmt.Errorf("list subject allocations: %w", err)
	}
	return allocations, nil
}
