package entity

import "github.com/google/uuid"

// Event is a job-state-change notification fanned out to websocket
// subscribers. Delivery is best-effort; clients reconcile by re-fetching
// the job list.
type Event struct {
	JobID       uuid.UUID `json:"job_id"`
	Status      JobStatus `json:"status"`
	Progress    int       `json:"progress"`
	NewLogLines []string  `json:"new_log_lines,omitempty"`
}

// FileInfo describes one entry under the downloads area.
type FileInfo struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
	Path string `json:"path"`
}
