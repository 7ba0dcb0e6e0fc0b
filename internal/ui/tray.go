package ui

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/getlantern/systray"

	"github.com/heimdex/heimdex-editor/internal/export"
	"github.com/heimdex/heimdex-editor/internal/store"
	"github.com/heimdex/heimdex-editor/internal/timeline"
)

type Player interface {
	Toggle(ctx context.Context) bool
	IsPlaying() bool
}

type Exporter interface {
	Enqueue(ctx context.Context, req export.Request, clips []timeline.Clip) (*store.Export, error)
	Pause()
	Resume()
	IsPaused() bool
}

// Tray is the menu bar companion: transport controls, a quick export and a
// live status line.
type Tray struct {
	ctx      context.Context
	model    *timeline.Model
	player   Player
	exporter Exporter
	logger   *slog.Logger

	statusItem   *systray.MenuItem
	timelineItem *systray.MenuItem
	playItem     *systray.MenuItem
	exportsItem  *systray.MenuItem

	mu    sync.Mutex
	ready bool

	onQuit func()
}

type TrayConfig struct {
	Context  context.Context
	Model    *timeline.Model
	Player   Player
	Exporter Exporter
	Logger   *slog.Logger
	OnQuit   func()
}

func NewTray(cfg TrayConfig) *Tray {
	ctx := cfg.Context
	if ctx == nil {
		ctx = context.Background()
	}
	return &Tray{
		ctx:      ctx,
		model:    cfg.Model,
		player:   cfg.Player,
		exporter: cfg.Exporter,
		logger:   cfg.Logger,
		onQuit:   cfg.OnQuit,
	}
}

func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

func (t *Tray) onReady() {
	systray.SetIcon(iconBytes)
	systray.SetTitle("Heimdex")
	systray.SetTooltip("Heimdex Editor")

	snap := t.model.Snapshot()

	t.statusItem = systray.AddMenuItem(statusTitle(snap.Status), "Last editor action")
	t.statusItem.Disable()

	t.timelineItem = systray.AddMenuItem(timelineTitle(snap), "Timeline length")
	t.timelineItem.Disable()

	systray.AddSeparator()

	t.playItem = systray.AddMenuItem(playTitle(t.player.IsPlaying()), "Toggle playback")
	rewindItem := systray.AddMenuItem("Rewind 2s", "Move the playhead back")
	forwardItem := systray.AddMenuItem("Forward 2s", "Move the playhead forward")

	systray.AddSeparator()

	exportItem := systray.AddMenuItem("Export Timeline", "Queue an EDL export")
	t.exportsItem = systray.AddMenuItem(exportsTitle(false), "Pause background exports")

	systray.AddSeparator()

	quitItem := systray.AddMenuItem("Quit", "Quit Heimdex Editor")

	t.mu.Lock()
	t.ready = true
	t.mu.Unlock()

	go func() {
		for {
			select {
			case <-t.playItem.ClickedCh:
				t.player.Toggle(t.ctx)
				t.refreshPlay()
			case <-rewindItem.ClickedCh:
				t.model.Rewind()
			case <-forwardItem.ClickedCh:
				t.model.Forward()
			case <-exportItem.ClickedCh:
				t.handleExport()
			case <-t.exportsItem.ClickedCh:
				t.togglePause()
			case <-quitItem.ClickedCh:
				t.logger.Info("quit requested from tray")
				if t.onQuit != nil {
					t.onQuit()
				}
				systray.Quit()
				return
			}
		}
	}()

	t.logger.Info("system tray ready")
}

func (t *Tray) onExit() {
	t.logger.Info("system tray exiting")
}

func (t *Tray) handleExport() {
	if t.exporter == nil {
		return
	}
	e, err := t.exporter.Enqueue(t.ctx, export.Request{}, t.model.Clips())
	if err != nil {
		t.logger.Error("failed to queue export from tray", "error", err)
		return
	}
	t.model.SetStatus("Export queued")
	t.logger.Info("export queued from tray", "export_id", e.ID)
}

func (t *Tray) togglePause() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.exporter == nil {
		return
	}

	if t.exporter.IsPaused() {
		t.exporter.Resume()
	} else {
		t.exporter.Pause()
	}
	t.exportsItem.SetTitle(exportsTitle(t.exporter.IsPaused()))
}

func (t *Tray) refreshPlay() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.ready {
		t.playItem.SetTitle(playTitle(t.player.IsPlaying()))
	}
}

// Update mirrors a timeline snapshot into the menu. Safe to call before the
// tray is ready.
func (t *Tray) Update(snap timeline.Snapshot) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.ready {
		return
	}
	t.statusItem.SetTitle(statusTitle(snap.Status))
	t.timelineItem.SetTitle(timelineTitle(snap))
	t.playItem.SetTitle(playTitle(t.player.IsPlaying()))
}

func (t *Tray) Quit() {
	systray.Quit()
}

func statusTitle(status string) string {
	if status == "" {
		status = "Ready"
	}
	return "Status: " + status
}

func timelineTitle(s timeline.Snapshot) string {
	noun := "clips"
	if len(s.Clips) == 1 {
		noun = "clip"
	}
	return fmt.Sprintf("%d %s, %s / %s", len(s.Clips), noun,
		timeline.FormatTimecode(s.Playhead), timeline.FormatTimecode(s.TotalDuration))
}

func playTitle(playing bool) string {
	if playing {
		return "Pause"
	}
	return "Play"
}

func exportsTitle(paused bool) string {
	if paused {
		return "Resume Exports"
	}
	return "Pause Exports"
}
