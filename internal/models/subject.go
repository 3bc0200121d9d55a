package models

import "time"

// SubjectType classifies a subject inside a curriculum.
type SubjectType string

const (
	SubjectTypeCore     SubjectType = "CORE"
	SubjectTypeElective SubjectType = "ELECTIVE"
	SubjectTypeGeneral  SubjectType = "GENERAL"
)

// Valid reports whether the type is a known value.
func (t SubjectType) Valid() bool {
	switch t {
	case SubjectTypeCore, SubjectTypeElective, SubjectTypeGeneral:
		return true
	}
	return false
}

// SubjectStatus is the publication state of a subject.
type SubjectStatus string

const (
	SubjectStatusActive   SubjectStatus = "ACTIVE"
	SubjectStatusDraft    SubjectStatus = "DRAFT"
	SubjectStatusInactive SubjectStatus = "INACTIVE"
)

// Valid reports whether the status is a known value.
func (s SubjectStatus) Valid() bool {
	switch s {
	case SubjectStatusActive, SubjectStatusDraft, SubjectStatusInactive:
		return true
	}
	return false
}

// Subject represents an academic subject offered for a branch and semester.
type Subject struct {
	ID            string        `db:"id" json:"id"`
	Code          string        `db:"code" json:"code"`
	Name          string        `db:"name" json:"name"`
	Branch        string        `db:"branch" json:"branch"`
	Semester      int           `db:"semester" json:"semester"`
	Credits       int           `db:"credits" json:"credits"`
	Type          SubjectType   `db:"type" json:"type"`
	Status        SubjectStatus `db:"status" json:"status"`
	Description   *string       `db:"description" json:"description,omitempty"`
	Prerequisites []string      `db:"-" json:"prerequisites"`
	CreatedAt     time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time     `db:"updated_at" json:"updated_at"`
}

// Clone returns a copy that does not share the prerequisite slice.
func (s Subject) Clone() Subject {
	s.Prerequisites = append([]string(nil), s.Prerequisites...)
	return s
}

// SubjectFilter captures supported filters for listing subjects.
type SubjectFilter struct {
	Branch   string
	Semester int
	Type     SubjectType
	Status   SubjectStatus
	Search   string
}
