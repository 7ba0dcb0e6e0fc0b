package timeline

import (
	"fmt"
	"math"
)

// SetPlayhead clamps v to [0, TotalDuration] and stores it. NaN is treated
// as the start of the timeline.
func (m *Model) SetPlayhead(v float64) float64 {
	var out float64
	m.mutate(func() error {
		m.playhead = m.clampPlayhead(v)
		out = m.playhead
		return nil
	})
	return out
}

func (m *Model) StepPlayhead(delta float64) float64 {
	var out float64
	m.mutate(func() error {
		m.playhead = m.clampPlayhead(m.playhead + delta)
		out = m.playhead
		return nil
	})
	return out
}

func (m *Model) Rewind() float64 {
	return m.seek(-SeekStep, "Rewound")
}

func (m *Model) Forward() float64 {
	return m.seek(SeekStep, "Forwarded")
}

func (m *Model) seek(delta float64, verb string) float64 {
	var out float64
	m.mutate(func() error {
		m.playhead = m.clampPlayhead(m.playhead + delta)
		m.status = fmt.Sprintf("%s to %s", verb, FormatTimecode(m.playhead))
		out = m.playhead
		return nil
	})
	return out
}

func (m *Model) Playhead() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.playhead
}

// TickPlayback advances by one auto-advance step. Ended is set on the tick
// that reaches or passes the end of the timeline; the driver stops there.
// Ticks are not edits: OnChange is not called and the edit time is kept,
// since the driver publishes its own tick events.
func (m *Model) TickPlayback() TickResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.playhead = m.clampPlayhead(m.playhead + PlaybackStep)
	return TickResult{Position: m.playhead, Ended: m.playhead >= m.total()}
}

func (m *Model) clampPlayhead(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	return math.Min(v, m.total())
}

// FormatTimecode renders seconds as mm:ss, truncating fractions.
func FormatTimecode(seconds float64) string {
	if !isFinite(seconds) || seconds < 0 {
		seconds = 0
	}
	total := int(math.Floor(seconds))
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}
