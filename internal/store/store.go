// Package store keeps the portal collections in memory. A single Store is created at
// startup and injected into every service; tests build their own isolated instance.
package store

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/noah-isme/univ-portal-api/internal/models"
)

type table[T any] struct {
	rows  map[string]*T
	order []string
}

func newTable[T any]() *table[T] {
	return &table[T]{rows: make(map[string]*T)}
}

func (t *table[T]) get(id string) (*T, bool) {
	row, ok := t.rows[id]
	return row, ok
}

func (t *table[T]) put(id string, row *T) {
	if _, exists := t.rows[id]; !exists {
		t.order = append(t.order, id)
	}
	t.rows[id] = row
}

func (t *table[T]) remove(id string) bool {
	if _, exists := t.rows[id]; !exists {
		return false
	}
	delete(t.rows, id)
	for i, existing := range t.order {
		if existing == id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
	return true
}

// list returns rows in insertion order.
func (t *table[T]) list() []*T {
	res := make([]*T, 0, len(t.order))
	for _, id := range t.order {
		res = append(res, t.rows[id])
	}
	return res
}

// Store owns teachers, subjects, exam slots, exams and course plans.
type Store struct {
	mu       sync.RWMutex
	teachers *table[models.Teacher]
	subjects *table[models.Subject]
	slots    *table[models.ExamSlot]
	exams    *table[models.Exam]
	plans    *table[models.CoursePlan]

	now   func() time.Time
	newID func() string
}

// Option customises a Store.
type Option func(*Store)

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator overrides identifier generation.
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) { s.newID = gen }
}

// New returns an empty store.
func New(opts ...Option) *Store {
	s := &Store{
		teachers: newTable[models.Teacher](),
		subjects: newTable[models.Subject](),
		slots:    newTable[models.ExamSlot](),
		exams:    newTable[models.Exam](),
		plans:    newTable[models.CoursePlan](),
		now:      func() time.Time { return time.Now().UTC() },
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Read runs fn under a shared lock. fn must not mutate the rows it sees.
func (s *Store) Read(fn func(tx *Tx) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(&Tx{s: s})
}

// Write runs fn under the exclusive lock, so a validate-then-mutate sequence inside
// fn cannot interleave with another writer. fn must validate before mutating: there
// is no rollback.
func (s *Store) Write(fn func(tx *Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(&Tx{s: s, writable: true})
}

// Tx exposes the collections for the duration of a Read or Write call.
type Tx struct {
	s        *Store
	writable bool
}

func (tx *Tx) mustWrite() {
	if !tx.writable {
		panic("store: mutation inside read transaction")
	}
}

// Now returns the store clock.
func (tx *Tx) Now() time.Time {
	return tx.s.now()
}

// NewID returns a fresh identifier.
func (tx *Tx) NewID() string {
	return tx.s.newID()
}

// Teacher returns the live teacher row.
func (tx *Tx) Teacher(id string) (*models.Teacher, bool) {
	return tx.s.teachers.get(id)
}

// Teachers lists teachers in insertion order.
func (tx *Tx) Teachers() []*models.Teacher {
	return tx.s.teachers.list()
}

// PutTeacher inserts or replaces a teacher, assigning an id and timestamps when missing.
func (tx *Tx) PutTeacher(t *models.Teacher) {
	tx.mustWrite()
	if t.ID == "" {
		t.ID = tx.NewID()
	}
	tx.stamp(&t.CreatedAt, &t.UpdatedAt)
	t.CurrentSubjects = len(t.Allocations)
	tx.s.teachers.put(t.ID, t)
}

// Subject returns the live subject row.
func (tx *Tx) Subject(id string) (*models.Subject, bool) {
	return tx.s.subjects.get(id)
}

// SubjectByCode finds a subject by its catalog code.
func (tx *Tx) SubjectByCode(code string) (*models.Subject, bool) {
	for _, subject := range tx.s.subjects.list() {
		if subject.Code == code {
			return subject, true
		}
	}
	return nil, false
}

// Subjects lists subjects in insertion order.
func (tx *Tx) Subjects() []*models.Subject {
	return tx.s.subjects.list()
}

// PutSubject inserts or replaces a subject.
func (tx *Tx) PutSubject(sub *models.Subject) {
	tx.mustWrite()
	if sub.ID == "" {
		sub.ID = tx.NewID()
	}
	tx.stamp(&sub.CreatedAt, &sub.UpdatedAt)
	tx.s.subjects.put(sub.ID, sub)
}

// Slot returns the live exam slot row.
func (tx *Tx) Slot(id string) (*models.ExamSlot, bool) {
	return tx.s.slots.get(id)
}

// Slots lists exam slots in insertion order.
func (tx *Tx) Slots() []*models.ExamSlot {
	return tx.s.slots.list()
}

// PutSlot inserts or replaces an exam slot.
func (tx *Tx) PutSlot(slot *models.ExamSlot) {
	tx.mustWrite()
	if slot.ID == "" {
		slot.ID = tx.NewID()
	}
	tx.stamp(&slot.CreatedAt, &slot.UpdatedAt)
	tx.s.slots.put(slot.ID, slot)
}

// DeleteSlot removes an exam slot. It returns false when absent.
func (tx *Tx) DeleteSlot(id string) bool {
	tx.mustWrite()
	return tx.s.slots.remove(id)
}

// Exam returns the live exam row.
func (tx *Tx) Exam(id string) (*models.Exam, bool) {
	return tx.s.exams.get(id)
}

// Exams lists exams in insertion order.
func (tx *Tx) Exams() []*models.Exam {
	return tx.s.exams.list()
}

// PutExam inserts or replaces an exam.
func (tx *Tx) PutExam(exam *models.Exam) {
	tx.mustWrite()
	if exam.ID == "" {
		exam.ID = tx.NewID()
	}
	tx.stamp(&exam.CreatedAt, &exam.UpdatedAt)
	tx.s.exams.put(exam.ID, exam)
}

// DeleteExam removes an exam. It returns false when absent.
func (tx *Tx) DeleteExam(id string) bool {
	tx.mustWrite()
	return tx.s.exams.remove(id)
}

// Plan returns the live course plan row.
func (tx *Tx) Plan(id string) (*models.CoursePlan, bool) {
	return tx.s.plans.get(id)
}

// Plans lists course plans in insertion order.
func (tx *Tx) Plans() []*models.CoursePlan {
	return tx.s.plans.list()
}

// PutPlan inserts or replaces a course plan.
func (tx *Tx) PutPlan(plan *models.CoursePlan) {
	tx.mustWrite()
	if plan.ID == "" {
		plan.ID = tx.NewID()
	}
	tx.stamp(&plan.CreatedAt, &plan.UpdatedAt)
	tx.s.plans.put(plan.ID, plan)
}

func (tx *Tx) stamp(created, updated *time.Time) {
	now := tx.Now()
	if created.IsZero() {
		*created = now
	}
	*updated = now
}
