// Package timeline holds the editor's clip sequence, trim arithmetic and
// playhead state. All mutation goes through Model, which serialises access
// with a single mutex so HTTP handlers, the tray and the playback driver can
// share one instance.
package timeline

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/heimdex/heimdex-editor/internal/library"
)

const (
	MinClipDuration = 2.0
	SnapIncrement   = 0.5

	PlaybackStep = 0.2
	TickInterval = 200 * time.Millisecond
	SeekStep     = 2.0

	DefaultSpeed       = 1.0
	DefaultVolume      = 80
	DefaultAudioVolume = 100

	MinSpeed  = 0.25
	MaxSpeed  = 4.0
	MinVolume = 0
	MaxVolume = 100

	DefaultZoom = 11.0
	MinZoom     = 4.0
	MaxZoom     = 40.0

	copySuffix = " Copy"
)

var (
	ErrNotFound     = errors.New("clip not found")
	ErrInvalidInput = errors.New("invalid input")
)

type Clip struct {
	ID       string            `json:"id"`
	Title    string            `json:"title"`
	Duration float64           `json:"duration"`
	Color    string            `json:"color"`
	Type     library.MediaType `json:"type"`
	Speed    float64           `json:"speed"`
	Volume   int               `json:"volume"`
	Muted    bool              `json:"muted"`
	Notes    string            `json:"notes"`
}

// Side identifies which clip edge a trim gesture drags.
type Side int

const (
	SideStart Side = iota
	SideEnd
)

func (s Side) String() string {
	if s == SideEnd {
		return "end"
	}
	return "start"
}

// ParseSide accepts both edge names and the handle names used by the UI.
func ParseSide(s string) (Side, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "start", "left":
		return SideStart, nil
	case "end", "right":
		return SideEnd, nil
	default:
		return SideStart, fmt.Errorf("%w: unknown trim side %q", ErrInvalidInput, s)
	}
}

// ClipFields is the inspector's editable view of a clip.
type ClipFields struct {
	Title  string  `json:"title"`
	Speed  float64 `json:"speed"`
	Volume int     `json:"volume"`
	Muted  bool    `json:"muted"`
	Notes  string  `json:"notes"`
}

type TickResult struct {
	Position float64 `json:"position"`
	Ended    bool    `json:"ended"`
}

// Snapshot is a consistent read-only copy of the model for rendering.
type Snapshot struct {
	Clips         []Clip    `json:"clips"`
	SelectedID    string    `json:"selected_id,omitempty"`
	Playhead      float64   `json:"playhead"`
	TotalDuration float64   `json:"total_duration"`
	Zoom          float64   `json:"zoom"`
	Snap          bool      `json:"snap"`
	Status        string    `json:"status,omitempty"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type SummaryItem struct {
	Index    int     `json:"index"`
	Title    string  `json:"title"`
	Duration float64 `json:"duration"`
	Speed    float64 `json:"speed"`
	Muted    bool    `json:"muted"`
}

type Summary struct {
	TotalDuration float64       `json:"total_duration"`
	Items         []SummaryItem `json:"items"`
}
