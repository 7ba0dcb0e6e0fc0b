package export

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync/atomic"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"

	"github.com/heimdex/heimdex-editor/internal/events"
	"github.com/heimdex/heimdex-editor/internal/logging"
	"github.com/heimdex/heimdex-editor/internal/store"
	"github.com/heimdex/heimdex-editor/internal/timeline"
)

type Publisher interface {
	Publish(eventType string, data any) error
}

// Runner renders queued exports in the background, one per poll.
type Runner struct {
	repo         store.Repository
	publisher    Publisher
	logger       *slog.Logger
	pollInterval time.Duration
	newID        func() string
	running      atomic.Bool
	paused       atomic.Bool
}

func NewRunner(repo store.Repository, publisher Publisher, logger *slog.Logger, pollInterval time.Duration) *Runner {
	if pollInterval <= 0 {
		pollInterval = 2 * time.Second
	}
	return &Runner{
		repo:         repo,
		publisher:    publisher,
		logger:       logger,
		pollInterval: pollInterval,
		newID:        uuid.NewString,
	}
}

// Enqueue snapshots the given clips into a pending export row.
func (r *Runner) Enqueue(ctx context.Context, req Request, clips []timeline.Clip) (*store.Export, error) {
	if req.OutputDir != "" {
		if err := ValidateOutputDir(req.OutputDir); err != nil {
			return nil, fmt.Errorf("%w: %v", timeline.ErrInvalidInput, err)
		}
	}
	frameRate := req.FrameRate
	if frameRate <= 0 {
		frameRate = DefaultFrameRate
	}

	payload, err := sonic.MarshalString(Payload{
		FrameRate: frameRate,
		OutputDir: req.OutputDir,
		Clips:     Resolve(clips),
	})
	if err != nil {
		return nil, fmt.Errorf("encode export payload: %w", err)
	}

	summary := timeline.Summarize(clips)
	e := &store.Export{
		ID:            r.newID(),
		Title:         NormalizeTitle(req.Title),
		Status:        store.ExportStatusPending,
		ClipCount:     len(clips),
		TotalDuration: summary.TotalDuration,
		Summary:       BuildSummary(summary),
		Clips:         payload,
	}
	if err := r.repo.CreateExport(ctx, e); err != nil {
		return nil, fmt.Errorf("create export: %w", err)
	}

	r.logger.Info("export queued", "export_id", e.ID, "clips", e.ClipCount)
	r.publish(e)
	return e, nil
}

func (r *Runner) Start(ctx context.Context) {
	if r.running.Swap(true) {
		return
	}

	r.logger.Info("export runner started")

	ticker := time.NewTicker(r.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("export runner stopping")
			r.running.Store(false)
			return
		case <-ticker.C:
			if !r.paused.Load() {
				r.processNext(ctx)
			}
		}
	}
}

func (r *Runner) Pause() {
	r.paused.Store(true)
	r.logger.Info("export runner paused")
}

func (r *Runner) Resume() {
	r.paused.Store(false)
	r.logger.Info("export runner resumed")
}

func (r *Runner) IsPaused() bool {
	return r.paused.Load()
}

func (r *Runner) IsRunning() bool {
	return r.running.Load()
}

// processNext renders the oldest pending export and reports whether one was
// found.
func (r *Runner) processNext(ctx context.Context) bool {
	pending, err := r.repo.ListPendingExports(ctx)
	if err != nil {
		r.logger.Error("failed to list pending exports", "error", err)
		return false
	}
	if len(pending) == 0 {
		return false
	}

	e := pending[0]
	logger := logging.WithExportID(r.logger, e.ID)
	logger.Info("processing export", "title", e.Title)

	if err := r.repo.MarkExportRunning(ctx, e.ID); err != nil {
		logger.Error("failed to mark export running", "error", err)
		return true
	}

	edl, err := r.render(e)
	if err != nil {
		logger.Error("export failed", "error", err)
		if ferr := r.repo.FailExport(ctx, e.ID, err.Error()); ferr != nil {
			logger.Error("failed to record export failure", "error", ferr)
		}
		r.publishID(ctx, e.ID)
		return true
	}

	if err := r.repo.CompleteExport(ctx, e.ID, edl); err != nil {
		logger.Error("failed to complete export", "error", err)
		return true
	}
	logger.Info("export completed", "bytes", len(edl))
	r.publishID(ctx, e.ID)
	return true
}

func (r *Runner) render(e *store.Export) (string, error) {
	var payload Payload
	if err := sonic.UnmarshalString(e.Clips, &payload); err != nil {
		return "", fmt.Errorf("decode export payload: %w", err)
	}

	edl := GenerateEDL(payload.Clips, e.Title, payload.FrameRate)

	if payload.OutputDir != "" {
		if err := ValidateOutputDir(payload.OutputDir); err != nil {
			return "", err
		}
		path := ExportPath(payload.OutputDir, e.Title)
		if err := os.WriteFile(path, []byte(edl), 0o644); err != nil {
			return "", fmt.Errorf("failed to write export file: %w", err)
		}
	}
	return edl, nil
}

func (r *Runner) publishID(ctx context.Context, id string) {
	e, err := r.repo.GetExport(ctx, id)
	if err != nil || e == nil {
		return
	}
	r.publish(e)
}

func (r *Runner) publish(e *store.Export) {
	if r.publisher == nil {
		return
	}
	if err := r.publisher.Publish(events.TypeExport, e); err != nil {
		r.logger.Warn("failed to publish export event", "export_id", e.ID, "error", err)
	}
}
