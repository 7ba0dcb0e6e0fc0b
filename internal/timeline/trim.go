package timeline

import (
	"fmt"
	"math"
)

// Gesture is one continuous trim interaction. Every delta applied while it is
// active is measured against Origin, the duration at BeginTrim.
type Gesture struct {
	ClipID string  `json:"clip_id"`
	Side   Side    `json:"side"`
	Origin float64 `json:"origin"`
}

// SnapHalf rounds to the nearest half second.
func SnapHalf(v float64) float64 {
	return math.Round(v/SnapIncrement) * SnapIncrement
}

// TrimDuration computes the committed duration for a drag of delta seconds.
// Snapping happens before the MinClipDuration clamp, so a snapped value below
// the floor lands on exactly MinClipDuration.
func TrimDuration(origin float64, side Side, delta float64, snap bool) float64 {
	candidate := origin - delta
	if side == SideEnd {
		candidate = origin + delta
	}
	if snap {
		candidate = SnapHalf(candidate)
	}
	return math.Max(MinClipDuration, candidate)
}

// BeginTrim captures the clip's current duration as the gesture origin. Only
// one gesture is active per model; a stale one is replaced.
func (m *Model) BeginTrim(id string, side Side) (Gesture, error) {
	var out Gesture
	err := m.mutate(func() error {
		c := m.find(id)
		if c == nil {
			return m.fail(id, "Clip no longer exists")
		}
		if m.gesture != nil && m.logger != nil {
			m.logger.Warn("replacing unfinished trim gesture", "clip_id", m.gesture.ClipID)
		}
		m.gesture = &Gesture{ClipID: id, Side: side, Origin: c.Duration}
		out = *m.gesture
		return nil
	})
	return out, err
}

// Trim applies a delta in seconds. Inside a gesture for the same clip the
// delta is relative to the gesture origin, so only the latest delta matters,
// and side must match the gesture's side. Outside a gesture the current
// duration is the origin.
func (m *Model) Trim(id string, side Side, delta float64) (float64, error) {
	var out float64
	err := m.mutate(func() error {
		if !isFinite(delta) {
			return fmt.Errorf("%w: trim delta must be a finite number", ErrInvalidInput)
		}
		c := m.find(id)
		if c == nil {
			return m.fail(id, "Clip no longer exists")
		}
		origin := c.Duration
		if g := m.gesture; g != nil && g.ClipID == id {
			if g.Side != side {
				return fmt.Errorf("%w: trim gesture on %s edge cannot drag the %s edge", ErrInvalidInput, g.Side, side)
			}
			origin = g.Origin
		}
		c.Duration = TrimDuration(origin, side, delta, m.snap)
		m.playhead = m.clampPlayhead(m.playhead)
		m.status = fmt.Sprintf("Trimmed %s to %.1fs", c.Title, c.Duration)
		out = c.Duration
		return nil
	})
	return out, err
}

// EndTrim closes the active gesture. It reports whether one was active.
func (m *Model) EndTrim() bool {
	var ended bool
	m.mutate(func() error {
		ended = m.gesture != nil
		m.gesture = nil
		return nil
	})
	return ended
}

func (m *Model) ActiveGesture() (Gesture, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.gesture == nil {
		return Gesture{}, false
	}
	return *m.gesture, true
}
