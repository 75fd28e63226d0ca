package entity

import (
	"time"

	"github.com/google/uuid"
)

type JobStatus string

const (
	StatusPending   JobStatus = "pending"
	StatusRunning   JobStatus = "running"
	StatusCompleted JobStatus = "completed"
	StatusFailed    JobStatus = "failed"
)

// Terminal reports whether the status admits no further transitions.
func (s JobStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Job is one submitted download request and its tracked lifecycle.
// Records are owned by the store; everything outside it works on copies.
type Job struct {
	ID         uuid.UUID  `json:"id"`
	URL        string     `json:"url"`
	Profile    string     `json:"profile"`
	Status     JobStatus  `json:"status"`
	Progress   int        `json:"progress"`
	Logs       []string   `json:"logs"`
	Cancelled  bool       `json:"cancelled,omitempty"`
	RetryOf    *uuid.UUID `json:"retry_of,omitempty"`
	RetryCount int        `json:"retry_count,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// Clone returns a deep copy, including the log slice.
func (j *Job) Clone() *Job {
	c := *j
	c.Logs = append([]string(nil), j.Logs...)
	if j.RetryOf != nil {
		id := *j.RetryOf
		c.RetryOf = &id
	}
	return &c
}
