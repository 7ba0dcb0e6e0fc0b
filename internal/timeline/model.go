package timeline

import (
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/heimdex/heimdex-editor/internal/library"
)

type Model struct {
	mu sync.Mutex

	clips      []*Clip
	selectedID string
	playhead   float64
	snap       bool
	zoom       float64
	gesture    *Gesture
	status     string
	updatedAt  time.Time

	onChange func(Snapshot)
	newID    func() string
	now      func() time.Time
	logger   *slog.Logger
}

type Option func(*Model)

func WithSnap(enabled bool) Option {
	return func(m *Model) { m.snap = enabled }
}

func WithZoom(pxPerSecond float64) Option {
	return func(m *Model) { m.zoom = clampZoom(pxPerSecond) }
}

func WithIDGenerator(fn func() string) Option {
	return func(m *Model) { m.newID = fn }
}

func WithLogger(logger *slog.Logger) Option {
	return func(m *Model) { m.logger = logger }
}

func NewModel(opts ...Option) *Model {
	m := &Model{
		zoom:  DefaultZoom,
		newID: uuid.NewString,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.updatedAt = m.now()
	return m
}

// OnChange registers a callback invoked with a fresh snapshot after every
// successful mutation. It runs outside the model lock.
func (m *Model) OnChange(fn func(Snapshot)) {
	m.mu.Lock()
	m.onChange = fn
	m.mu.Unlock()
}

// mutate runs fn under the lock and notifies the observer on success.
func (m *Model) mutate(fn func() error) error {
	m.mu.Lock()
	err := fn()
	if err == nil {
		m.updatedAt = m.now()
	}
	notify := m.onChange
	m.mu.Unlock()

	if err == nil && notify != nil {
		notify(m.Snapshot())
	}
	return err
}

func (m *Model) AppendClip(rec library.Record) Clip {
	var out Clip
	m.mutate(func() error {
		volume := DefaultVolume
		if rec.Type == library.MediaAudio {
			volume = DefaultAudioVolume
		}
		clip := &Clip{
			ID:       m.newID(),
			Title:    rec.Title,
			Duration: rec.Duration,
			Color:    rec.Color,
			Type:     rec.Type,
			Speed:    DefaultSpeed,
			Volume:   volume,
		}
		m.clips = append(m.clips, clip)
		m.status = fmt.Sprintf("Added %s", clip.Title)
		out = *clip
		m.debug("clip appended", "clip_id", clip.ID, "title", clip.Title)
		return nil
	})
	return out
}

func (m *Model) DuplicateClip(id string) (Clip, error) {
	var out Clip
	err := m.mutate(func() error {
		src := m.find(id)
		if src == nil {
			return m.fail(id, "Select a clip to duplicate")
		}
		clip := *src
		clip.ID = m.newID()
		clip.Title = src.Title + copySuffix
		m.clips = append(m.clips, &clip)
		m.status = fmt.Sprintf("Duplicated %s", src.Title)
		out = clip
		m.debug("clip duplicated", "clip_id", clip.ID, "source_id", src.ID)
		return nil
	})
	return out, err
}

// RemoveClip drops a clip. A selection pointing at it is cleared rather than
// moved to a neighbour.
func (m *Model) RemoveClip(id string) error {
	return m.mutate(func() error {
		idx := m.indexOf(id)
		if idx < 0 {
			return m.fail(id, "Clip no longer exists")
		}
		title := m.clips[idx].Title
		m.clips = append(m.clips[:idx], m.clips[idx+1:]...)
		if m.selectedID == id {
			m.selectedID = ""
		}
		if m.gesture != nil && m.gesture.ClipID == id {
			m.gesture = nil
		}
		m.playhead = m.clampPlayhead(m.playhead)
		m.status = fmt.Sprintf("Removed %s", title)
		return nil
	})
}

func (m *Model) Clip(id string) (Clip, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c := m.find(id)
	if c == nil {
		return Clip{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return *c, nil
}

func (m *Model) Clips() []Clip {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.copyClips()
}

func (m *Model) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.clips)
}

func (m *Model) TotalDuration() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.total()
}

func (m *Model) Select(id string) error {
	return m.mutate(func() error {
		c := m.find(id)
		if c == nil {
			return m.fail(id, "Clip no longer exists")
		}
		m.selectedID = id
		m.status = fmt.Sprintf("Selected %s", c.Title)
		return nil
	})
}

func (m *Model) ClearSelection() {
	m.mutate(func() error {
		m.selectedID = ""
		m.status = "No clip selected"
		return nil
	})
}

// Selected returns the selected clip, if any.
func (m *Model) Selected() (Clip, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c := m.find(m.selectedID)
	if c == nil {
		return Clip{}, false
	}
	return *c, true
}

func (m *Model) SelectedID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.selectedID
}

func (m *Model) SetSnap(enabled bool) {
	m.mutate(func() error {
		m.snap = enabled
		if enabled {
			m.status = "Snap on"
		} else {
			m.status = "Snap off"
		}
		return nil
	})
}

func (m *Model) Snap() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snap
}

// SetZoom sets the renderer scale in pixels per second, clamped to
// [MinZoom, MaxZoom].
func (m *Model) SetZoom(pxPerSecond float64) (float64, error) {
	var out float64
	err := m.mutate(func() error {
		if !isFinite(pxPerSecond) {
			return fmt.Errorf("%w: zoom must be a finite number", ErrInvalidInput)
		}
		m.zoom = clampZoom(pxPerSecond)
		m.status = fmt.Sprintf("Zoom %.0f px/s", m.zoom)
		out = m.zoom
		return nil
	})
	return out, err
}

func (m *Model) Zoom() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.zoom
}

// PixelsToSeconds converts a pointer delta at the current zoom.
func (m *Model) PixelsToSeconds(px float64) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return px / m.zoom
}

func (m *Model) Status() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

// SetStatus lets collaborators surface their own messages, e.g. export.
func (m *Model) SetStatus(msg string) {
	m.mutate(func() error {
		m.status = msg
		return nil
	})
}

func (m *Model) UpdatedAt() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.updatedAt
}

func (m *Model) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	return Snapshot{
		Clips:         m.copyClips(),
		SelectedID:    m.selectedID,
		Playhead:      m.playhead,
		TotalDuration: m.total(),
		Zoom:          m.zoom,
		Snap:          m.snap,
		Status:        m.status,
		UpdatedAt:     m.updatedAt,
	}
}

func (m *Model) Summary() Summary {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Summarize(m.copyClips())
}

// Summarize builds the export summary for an already captured clip list.
func Summarize(clips []Clip) Summary {
	s := Summary{Items: make([]SummaryItem, len(clips))}
	for i, c := range clips {
		s.TotalDuration += c.Duration
		s.Items[i] = SummaryItem{
			Index:    i + 1,
			Title:    c.Title,
			Duration: c.Duration,
			Speed:    c.Speed,
			Muted:    c.Muted,
		}
	}
	return s
}

func (m *Model) find(id string) *Clip {
	if i := m.indexOf(id); i >= 0 {
		return m.clips[i]
	}
	return nil
}

func (m *Model) indexOf(id string) int {
	if id == "" {
		return -1
	}
	for i, c := range m.clips {
		if c.ID == id {
			return i
		}
	}
	return -1
}

func (m *Model) total() float64 {
	var sum float64
	for _, c := range m.clips {
		sum += c.Duration
	}
	return sum
}

func (m *Model) copyClips() []Clip {
	out := make([]Clip, len(m.clips))
	for i, c := range m.clips {
		out[i] = *c
	}
	return out
}

// fail records a user-facing status and returns a wrapped ErrNotFound.
func (m *Model) fail(id, status string) error {
	m.status = status
	return fmt.Errorf("%w: %q", ErrNotFound, id)
}

func (m *Model) debug(msg string, args ...any) {
	if m.logger != nil {
		m.logger.Debug(msg, args...)
	}
}

func clampZoom(z float64) float64 {
	if !isFinite(z) || z <= 0 {
		return DefaultZoom
	}
	return math.Min(MaxZoom, math.Max(MinZoom, z))
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
