package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/univ-portal-api/internal/models"
	"github.com/noah-isme/univ-portal-api/internal/store"
)

type recordingNotifier struct {
	mu       sync.Mutex
	outcomes []models.Outcome
}

func (r *recordingNotifier) Notify(ctx context.Context, outcome models.Outcome) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(r.outcomes, outcome)
}

func (r *recordingNotifier) last(t *testing.T) models.Outcome {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	require.NotEmpty(t, r.outcomes)
	return r.outcomes[len(r.outcomes)-1]
}

func (r *recordingNotifier) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.outcomes)
}

func newTestStore() *store.Store {
	var mu sync.Mutex
	seq := 0
	clock := time.Date(2024, 8, 1, 9, 0, 0, 0, time.UTC)
	return store.New(
		store.WithClock(func() time.Time { return clock }),
		store.WithIDGenerator(func() string {
			mu.Lock()
			defer mu.Unlock()
			seq++
			return fmt.Sprintf("id-%03d", seq)
		}),
	)
}

func seedTeacher(t *testing.T, st *store.Store, id string, maxSubjects int, status models.TeacherStatus) {
	t.Helper()
	require.NoError(t, st.Write(func(tx *store.Tx) error {
		tx.PutTeacher(&models.Teacher{
			ID:          id,
			FullName:    "Teacher " + id,
			Email:       id + "@univ.test",
			Department:  "Computer Science",
			MaxSubjects: maxSubjects,
			Status:      status,
			Allocations: []models.Allocation{},
		})
		return nil
	}))
}

func seedSubject(t *testing.T, st *store.Store, id, branch string, semester, credits int, kind models.SubjectType) {
	t.Helper()
	require.NoError(t, st.Write(func(tx *store.Tx) error {
		tx.PutSubject(&models.Subject{
			ID:       id,
			Code:     "C-" + id,
			Name:     "Subject " + id,
			Branch:   branch,
			Semester: semester,
			Credits:  credits,
			Type:     kind,
			Status:   models.SubjectStatusActive,
		})
		return nil
	}))
}
