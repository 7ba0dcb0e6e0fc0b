// Package playback drives simulated playback of the timeline: a fixed-cadence
// ticker that advances the playhead until the end of the timeline.
package playback

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/heimdex/heimdex-editor/internal/events"
	"github.com/heimdex/heimdex-editor/internal/timeline"
)

type Model interface {
	TickPlayback() timeline.TickResult
	SetStatus(msg string)
}

type Publisher interface {
	Publish(eventType string, data any) error
}

// TickerFunc creates the periodic trigger. It returns the tick channel and a
// stop function.
type TickerFunc func(d time.Duration) (<-chan time.Time, func())

func realTicker(d time.Duration) (<-chan time.Time, func()) {
	t := time.NewTicker(d)
	return t.C, t.Stop
}

const (
	ReasonStarted = "started"
	ReasonPaused  = "paused"
	ReasonEnded   = "ended"
)

type StateEvent struct {
	Playing bool   `json:"playing"`
	Reason  string `json:"reason"`
}

// Driver owns the playing flag together with the cancel handle of the one
// ticker goroutine allowed to run.
type Driver struct {
	model     Model
	publisher Publisher
	logger    *slog.Logger
	interval  time.Duration
	newTicker TickerFunc

	toggleMu sync.Mutex

	mu         sync.Mutex
	playing    bool
	cancel     context.CancelFunc
	done       chan struct{}
	generation uint64
}

type DriverConfig struct {
	Model     Model
	Publisher Publisher
	Logger    *slog.Logger
	Interval  time.Duration
	Ticker    TickerFunc
}

func NewDriver(cfg DriverConfig) *Driver {
	d := &Driver{
		model:     cfg.Model,
		publisher: cfg.Publisher,
		logger:    cfg.Logger,
		interval:  cfg.Interval,
		newTicker: cfg.Ticker,
	}
	if d.interval <= 0 {
		d.interval = timeline.TickInterval
	}
	if d.newTicker == nil {
		d.newTicker = realTicker
	}
	return d
}

// Start begins playback. It returns false if playback was already running;
// no second ticker is created in that case.
func (d *Driver) Start(ctx context.Context) bool {
	d.mu.Lock()
	if d.playing {
		d.mu.Unlock()
		return false
	}

	runCtx, cancel := context.WithCancel(ctx)
	d.generation++
	gen := d.generation
	done := make(chan struct{})
	d.playing = true
	d.cancel = cancel
	d.done = done
	d.mu.Unlock()

	d.model.SetStatus("Playing")
	d.publish(events.TypePlayback, StateEvent{Playing: true, Reason: ReasonStarted})
	if d.logger != nil {
		d.logger.Info("playback started", "interval_ms", d.interval.Milliseconds())
	}

	go d.run(runCtx, gen, done)
	return true
}

// Stop pauses playback. Calling it while stopped is a no-op returning false.
func (d *Driver) Stop() bool {
	d.mu.Lock()
	if !d.playing {
		d.mu.Unlock()
		return false
	}
	d.halt()
	d.mu.Unlock()

	d.model.SetStatus("Paused")
	d.publish(events.TypePlayback, StateEvent{Playing: false, Reason: ReasonPaused})
	if d.logger != nil {
		d.logger.Info("playback paused")
	}
	return true
}

// Toggle flips between playing and paused and returns the new state.
func (d *Driver) Toggle(ctx context.Context) bool {
	d.toggleMu.Lock()
	defer d.toggleMu.Unlock()

	if d.Stop() {
		return false
	}
	d.Start(ctx)
	return d.IsPlaying()
}

func (d *Driver) IsPlaying() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.playing
}

// Done is closed when the current (or most recent) run exits.
func (d *Driver) Done() <-chan struct{} {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.done == nil {
		ch := make(chan struct{})
		close(ch)
		return ch
	}
	return d.done
}

// halt must be called with d.mu held.
func (d *Driver) halt() {
	d.playing = false
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
}

func (d *Driver) run(ctx context.Context, gen uint64, done chan struct{}) {
	defer close(done)

	ticks, stop := d.newTicker(d.interval)
	defer stop()

	for {
		select {
		case <-ctx.Done():
			d.mu.Lock()
			if d.generation == gen && d.playing {
				d.halt()
			}
			d.mu.Unlock()
			return
		case <-ticks:
			res, ok := d.tick(gen)
			if !ok {
				return
			}
			if res.Ended {
				d.finish(ReasonEnded)
				return
			}
		}
	}
}

// tick advances the model under d.mu so that Stop, Start and Toggle never
// observe a tick from a run they already cancelled. ok is false when gen is
// no longer the current run. TickPlayback only takes the model lock.
func (d *Driver) tick(gen uint64) (res timeline.TickResult, ok bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.generation != gen || !d.playing {
		return res, false
	}
	res = d.model.TickPlayback()
	d.publish(events.TypeTick, res)
	if res.Ended {
		d.halt()
	}
	return res, true
}

// finish reports a run that stopped itself. The playing flag is already
// cleared by tick.
func (d *Driver) finish(reason string) {
	d.model.SetStatus("Playback finished")
	d.publish(events.TypePlayback, StateEvent{Playing: false, Reason: reason})
	if d.logger != nil {
		d.logger.Info("playback reached end of timeline")
	}
}

func (d *Driver) publish(eventType string, data any) {
	if d.publisher == nil {
		return
	}
	if err := d.publisher.Publish(eventType, data); err != nil && d.logger != nil {
		d.logger.Warn("failed to publish playback event", "type", eventType, "error", err)
	}
}
