// Package store persists the editor's small amount of durable state: the
// config key/value table (auth token, device id) and export jobs.
package store

import "time"

const (
	ExportStatusPending   = "pending"
	ExportStatusRunning   = "running"
	ExportStatusCompleted = "completed"
	ExportStatusFailed    = "failed"

	ConfigKeyAuthToken = "auth_token"
	ConfigKeyDeviceID  = "device_id"
)

// Export is a queued or finished export of the timeline. Clips holds the
// JSON-encoded cut list captured when the export was requested.
type Export struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Status        string    `json:"status"`
	ClipCount     int       `json:"clip_count"`
	TotalDuration float64   `json:"total_duration"`
	Summary       string    `json:"summary"`
	Clips         string    `json:"-"`
	EDL           string    `json:"edl,omitempty"`
	Error         string    `json:"error,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (e *Export) Done() bool {
	return e.Status == ExportStatusCompleted || e.Status == ExportStatusFailed
}
