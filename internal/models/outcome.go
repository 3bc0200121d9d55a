package models

import "time"

// Outcome reports the result of a manager operation to notification sinks.
type Outcome struct {
	ID         string    `db:"id" json:"id"`
	Operation  string    `db:"operation" json:"operation"`
	Resource   string    `db:"resource" json:"resource"`
	ResourceID string    `db:"resource_id" json:"resource_id"`
	Success    bool      `db:"success" json:"success"`
	Reason     string    `db:"reason" json:"reason,omitempty"`
	RequestID  string    `db:"request_id" json:"request_id,omitempty"`
	OccurredAt time.Time `db:"occurred_at" json:"occurred_at"`
}
