package api

import (
	"time"

	"github.com/heimdex/heimdex-editor/internal/library"
	"github.com/heimdex/heimdex-editor/internal/store"
	"github.com/heimdex/heimdex-editor/internal/timeline"
)

type HealthResponse struct {
	Status   string `json:"status"`
	Version  string `json:"version"`
	UptimeS  int64  `json:"uptime_s"`
	DeviceID string `json:"device_id"`
}

type StatusResponse struct {
	State          string  `json:"state"`
	Message        string  `json:"message,omitempty"`
	ClipCount      int     `json:"clip_count"`
	TotalDuration  float64 `json:"total_duration"`
	TotalTimecode  string  `json:"total_timecode"`
	Playhead       float64 `json:"playhead"`
	Playing        bool    `json:"playing"`
	LastEdit       string  `json:"last_edit"`
	LibrarySize    int     `json:"library_size"`
	Subscribers    int     `json:"subscribers"`
	ExportsPaused  bool    `json:"exports_paused"`
	ExportsPending int     `json:"exports_pending"`
}

type LibraryItem struct {
	Index    int               `json:"index"`
	Title    string            `json:"title"`
	Duration float64           `json:"duration"`
	Color    string            `json:"color"`
	Type     library.MediaType `json:"type"`
}

type LibraryResponse struct {
	Items []LibraryItem `json:"items"`
}

type AddClipRequest struct {
	LibraryIndex *int `json:"library_index,omitempty"`
}

type SelectRequest struct {
	ClipID string `json:"clip_id"`
}

// SaveClipRequest carries the inspector form. Omitted fields keep their
// current values.
type SaveClipRequest struct {
	Title  *string  `json:"title,omitempty"`
	Speed  *float64 `json:"speed,omitempty"`
	Volume *int     `json:"volume,omitempty"`
	Muted  *bool    `json:"muted,omitempty"`
	Notes  *string  `json:"notes,omitempty"`
}

func (req SaveClipRequest) apply(f timeline.ClipFields) timeline.ClipFields {
	if req.Title != nil {
		f.Title = *req.Title
	}
	if req.Speed != nil {
		f.Speed = *req.Speed
	}
	if req.Volume != nil {
		f.Volume = *req.Volume
	}
	if req.Muted != nil {
		f.Muted = *req.Muted
	}
	if req.Notes != nil {
		f.Notes = *req.Notes
	}
	return f
}

type SelectionResponse struct {
	ClipID string              `json:"clip_id"`
	Fields timeline.ClipFields `json:"fields"`
}

// TrimRequest moves one clip edge. DeltaSeconds wins over DeltaPx when both
// are set; pixels are converted at the current zoom.
type TrimRequest struct {
	Side         string   `json:"side"`
	DeltaPx      *float64 `json:"delta_px,omitempty"`
	DeltaSeconds *float64 `json:"delta_seconds,omitempty"`
}

type TrimResponse struct {
	ClipID        string  `json:"clip_id"`
	Side          string  `json:"side"`
	Duration      float64 `json:"duration"`
	Origin        float64 `json:"origin,omitempty"`
	TotalDuration float64 `json:"total_duration"`
	Active        bool    `json:"active"`
}

type SettingsRequest struct {
	Zoom *float64 `json:"zoom,omitempty"`
	Snap *bool    `json:"snap,omitempty"`
}

type SettingsResponse struct {
	Zoom float64 `json:"zoom"`
	Snap bool    `json:"snap"`
}

type PlayheadRequest struct {
	Position *float64 `json:"position"`
}

type PlaybackResponse struct {
	Playing  bool    `json:"playing"`
	Changed  bool    `json:"changed"`
	Playhead float64 `json:"playhead"`
	Timecode string  `json:"timecode"`
}

type ExportResponse struct {
	ID            string  `json:"id"`
	Title         string  `json:"title"`
	Status        string  `json:"status"`
	ClipCount     int     `json:"clip_count"`
	TotalDuration float64 `json:"total_duration"`
	Summary       string  `json:"summary"`
	EDL           string  `json:"edl,omitempty"`
	Error         string  `json:"error,omitempty"`
	CreatedAt     string  `json:"created_at"`
	UpdatedAt     string  `json:"updated_at"`
}

type ExportsResponse struct {
	Exports []ExportResponse `json:"exports"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func ExportToResponse(e *store.Export) ExportResponse {
	return ExportResponse{
		ID:            e.ID,
		Title:         e.Title,
		Status:        e.Status,
		ClipCount:     e.ClipCount,
		TotalDuration: e.TotalDuration,
		Summary:       e.Summary,
		EDL:           e.EDL,
		Error:         e.Error,
		CreatedAt:     e.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     e.UpdatedAt.Format(time.RFC3339),
	}
}
