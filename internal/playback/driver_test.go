package playback

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/heimdex/heimdex-editor/internal/library"
	"github.com/heimdex/heimdex-editor/internal/timeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// manualTickers hands out tick channels the test drives by hand and counts
// how many tickers were created and stopped.
type manualTickers struct {
	mu      sync.Mutex
	chans   []chan time.Time
	stopped atomic.Int32
}

func (m *manualTickers) factory(time.Duration) (<-chan time.Time, func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ch := make(chan time.Time)
	m.chans = append(m.chans, ch)
	return ch, func() { m.stopped.Add(1) }
}

func (m *manualTickers) created() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.chans)
}

func (m *manualTickers) latest() chan time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.chans[len(m.chans)-1]
}

type fakeModel struct {
	ticks  atomic.Int32
	endAt  int32
	mu     sync.Mutex
	status []string
}

func (f *fakeModel) TickPlayback() timeline.TickResult {
	n := f.ticks.Add(1)
	return timeline.TickResult{Position: float64(n) * timeline.PlaybackStep, Ended: f.endAt > 0 && n >= f.endAt}
}

func (f *fakeModel) SetStatus(msg string) {
	f.mu.Lock()
	f.status = append(f.status, msg)
	f.mu.Unlock()
}

func (f *fakeModel) lastStatus() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.status) == 0 {
		return ""
	}
	return f.status[len(f.status)-1]
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []string
}

func (r *recordingPublisher) Publish(eventType string, data any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if st, ok := data.(StateEvent); ok {
		eventType += ":" + st.Reason
	}
	r.events = append(r.events, eventType)
	return nil
}

func (r *recordingPublisher) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

func waitDone(t *testing.T, d *Driver) {
	t.Helper()
	select {
	case <-d.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("driver did not stop")
	}
}

func sendTick(t *testing.T, ch chan time.Time) {
	t.Helper()
	select {
	case ch <- time.Now():
	case <-time.After(2 * time.Second):
		t.Fatal("driver did not consume tick")
	}
}

func TestDriver_StartIsIdempotent(t *testing.T) {
	tickers := &manualTickers{}
	model := &fakeModel{}
	d := NewDriver(DriverConfig{Model: model, Ticker: tickers.factory})

	assert.True(t, d.Start(context.Background()))
	assert.False(t, d.Start(context.Background()))
	assert.False(t, d.Start(context.Background()))

	assert.Equal(t, 1, tickers.created(), "only one ticker may run")
	assert.True(t, d.IsPlaying())

	sendTick(t, tickers.latest())
	sendTick(t, tickers.latest())
	require.Eventually(t, func() bool { return model.ticks.Load() == 2 }, time.Second, time.Millisecond)

	assert.True(t, d.Stop())
	waitDone(t, d)
	assert.Equal(t, int32(2), model.ticks.Load())
	assert.Equal(t, int32(1), tickers.stopped.Load())
}

func TestDriver_StopWhenStoppedIsNoop(t *testing.T) {
	model := &fakeModel{}
	pub := &recordingPublisher{}
	d := NewDriver(DriverConfig{Model: model, Publisher: pub, Ticker: (&manualTickers{}).factory})

	assert.False(t, d.Stop())
	assert.False(t, d.IsPlaying())
	assert.Empty(t, pub.snapshot())
	waitDone(t, d)
}

func TestDriver_ToggleReplacesDriver(t *testing.T) {
	tickers := &manualTickers{}
	model := &fakeModel{}
	pub := &recordingPublisher{}
	d := NewDriver(DriverConfig{Model: model, Publisher: pub, Ticker: tickers.factory})
	ctx := context.Background()

	assert.True(t, d.Toggle(ctx))
	first := d.Done()
	assert.False(t, d.Toggle(ctx))
	<-first
	assert.True(t, d.Toggle(ctx))

	assert.Equal(t, 2, tickers.created())
	assert.Equal(t, int32(1), tickers.stopped.Load(), "first ticker stopped before second ran")

	sendTick(t, tickers.latest())
	require.Eventually(t, func() bool { return len(pub.snapshot()) == 4 }, time.Second, time.Millisecond)
	assert.False(t, d.Toggle(ctx))
	waitDone(t, d)

	assert.Equal(t, int32(1), model.ticks.Load())
	assert.Equal(t, int32(2), tickers.stopped.Load())
	assert.Equal(t, "Paused", model.lastStatus())
	assert.Equal(t, []string{
		"playback:started", "playback:paused",
		"playback:started", "tick", "playback:paused",
	}, pub.snapshot())
}

func TestDriver_StopsItselfWhenEnded(t *testing.T) {
	tickers := &manualTickers{}
	model := &fakeModel{endAt: 3}
	pub := &recordingPublisher{}
	d := NewDriver(DriverConfig{Model: model, Publisher: pub, Ticker: tickers.factory})

	require.True(t, d.Start(context.Background()))
	ch := tickers.latest()
	for i := 0; i < 3; i++ {
		sendTick(t, ch)
	}
	waitDone(t, d)

	assert.False(t, d.IsPlaying())
	assert.Equal(t, "Playback finished", model.lastStatus())
	assert.Equal(t, []string{"playback:started", "tick", "tick", "tick", "playback:ended"}, pub.snapshot())

	assert.False(t, d.Stop(), "already stopped by the end of timeline")
	assert.True(t, d.Start(context.Background()), "can restart after ending")
	d.Stop()
	waitDone(t, d)
}

func TestDriver_ParentContextCancel(t *testing.T) {
	tickers := &manualTickers{}
	d := NewDriver(DriverConfig{Model: &fakeModel{}, Ticker: tickers.factory})

	ctx, cancel := context.WithCancel(context.Background())
	require.True(t, d.Start(ctx))
	cancel()
	waitDone(t, d)

	assert.False(t, d.IsPlaying())
}

func TestDriver_TimelineScenario(t *testing.T) {
	m := timeline.NewModel()
	recs := library.Default()
	m.AppendClip(recs[0])
	m.AppendClip(recs[1])
	require.Equal(t, 36.0, m.TotalDuration())

	tickers := &manualTickers{}
	d := NewDriver(DriverConfig{Model: m, Ticker: tickers.factory})
	require.True(t, d.Start(context.Background()))
	ch := tickers.latest()
	done := d.Done()

	for i := 0; i < 7; i++ {
		sendTick(t, ch)
	}
	require.Eventually(t, func() bool {
		return m.Playhead() > 1.39
	}, time.Second, time.Millisecond)
	assert.InDelta(t, 1.4, m.Playhead(), 1e-9)
	assert.True(t, d.IsPlaying())

	sent := 7
loop:
	for {
		select {
		case ch <- time.Now():
			sent++
			require.Less(t, sent, 1000)
		case <-done:
			break loop
		}
	}

	assert.False(t, d.IsPlaying())
	assert.Equal(t, 36.0, m.Playhead())
	assert.InDelta(t, 180, sent, 1)
}

func TestDriver_RealTicker(t *testing.T) {
	model := &fakeModel{endAt: 2}
	d := NewDriver(DriverConfig{Model: model, Interval: 5 * time.Millisecond})

	require.True(t, d.Start(context.Background()))
	waitDone(t, d)
	assert.Equal(t, int32(2), model.ticks.Load())
}

func TestNewDriver_DefaultInterval(t *testing.T) {
	d := NewDriver(DriverConfig{Model: &fakeModel{}})
	assert.Equal(t, timeline.TickInterval, d.interval)
}

// gatedModel blocks inside TickPlayback until release is closed.
type gatedModel struct {
	fakeModel
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func (g *gatedModel) TickPlayback() timeline.TickResult {
	g.once.Do(func() { close(g.entered) })
	<-g.release
	return g.fakeModel.TickPlayback()
}

func TestDriver_StopWaitsForInFlightTick(t *testing.T) {
	tickers := &manualTickers{}
	model := &gatedModel{entered: make(chan struct{}), release: make(chan struct{})}
	pub := &recordingPublisher{}
	d := NewDriver(DriverConfig{Model: model, Publisher: pub, Ticker: tickers.factory})
	ctx := context.Background()

	require.True(t, d.Start(ctx))
	first := d.Done()
	sendTick(t, tickers.latest())
	<-model.entered

	stopped := make(chan bool, 1)
	go func() { stopped <- d.Stop() }()

	select {
	case <-stopped:
		t.Fatal("Stop returned while a tick was still advancing the playhead")
	case <-time.After(20 * time.Millisecond):
	}

	close(model.release)
	require.True(t, <-stopped)
	<-first
	assert.Equal(t, int32(1), model.ticks.Load())

	require.True(t, d.Start(ctx))
	d.Stop()
	waitDone(t, d)

	assert.Equal(t, int32(1), model.ticks.Load(), "no tick from the cancelled run after Stop")
	assert.Equal(t, []string{
		"playback:started", "tick", "playback:paused",
		"playback:started", "playback:paused",
	}, pub.snapshot())
}

func TestDriver_EmptyTimelineEndsWithFinishedStatus(t *testing.T) {
	m := timeline.NewModel()
	tickers := &manualTickers{}
	d := NewDriver(DriverConfig{Model: m, Ticker: tickers.factory})

	require.True(t, d.Start(context.Background()))
	assert.Equal(t, "Playing", m.Status(), "status is set before the first tick can run")

	sendTick(t, tickers.latest())
	waitDone(t, d)

	assert.False(t, d.IsPlaying())
	assert.Equal(t, "Playback finished", m.Status())
	assert.Equal(t, 0.0, m.Playhead())
}
