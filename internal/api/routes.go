package api

import (
	"context"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/go-chi/chi/v5"

	"github.com/heimdex/heimdex-editor/internal/config"
	"github.com/heimdex/heimdex-editor/internal/store"
	"github.com/heimdex/heimdex-editor/internal/timeline"
)

func NewRouter(cfg ServerConfig) *chi.Mux {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware())
	r.Use(RecoveryMiddleware(cfg.Logger))
	r.Use(LoggingMiddleware(cfg.Logger))
	r.Use(CORSAllowlist())

	r.Get("/health", healthHandler(cfg))

	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(cfg.Repository, cfg.Logger))

		r.Get("/status", statusHandler(cfg))
		r.Get("/library", libraryHandler(cfg))

		r.Route("/timeline", func(r chi.Router) {
			r.Get("/", getTimelineHandler(cfg))
			r.Put("/settings", settingsHandler(cfg))

			r.Get("/selection", getSelectionHandler(cfg))
			r.Put("/selection", selectHandler(cfg))
			r.Delete("/selection", clearSelectionHandler(cfg))

			r.Post("/clips", addClipHandler(cfg))
			r.Put("/clips/{id}", saveClipHandler(cfg))
			r.Delete("/clips/{id}", removeClipHandler(cfg))
			r.Post("/clips/{id}/duplicate", duplicateClipHandler(cfg))

			r.Post("/clips/{id}/trim", beginTrimHandler(cfg))
			r.Patch("/clips/{id}/trim", trimHandler(cfg))
			r.Delete("/clips/{id}/trim", endTrimHandler(cfg))
		})

		r.Route("/playback", func(r chi.Router) {
			r.Post("/play", playHandler(cfg))
			r.Post("/pause", pauseHandler(cfg))
			r.Post("/toggle", toggleHandler(cfg))
			r.Post("/rewind", rewindHandler(cfg))
			r.Post("/forward", forwardHandler(cfg))
			r.Put("/playhead", playheadHandler(cfg))
		})

		r.Post("/exports", createExportHandler(cfg))
		r.Get("/exports", listExportsHandler(cfg))
		r.Get("/exports/{id}", getExportHandler(cfg))
	})

	r.With(LoopbackGuard(), WebSocketAuthMiddleware(cfg.Repository, cfg.Logger)).Get("/ws", wsHandler(cfg))

	return r
}

func healthHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uptime := int64(time.Since(cfg.StartTime).Seconds())
		WriteJSON(w, http.StatusOK, HealthResponse{
			Status:   "ok",
			Version:  config.Version,
			UptimeS:  uptime,
			DeviceID: cfg.DeviceID,
		})
	}
}

func statusHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap := cfg.Model.Snapshot()

		resp := StatusResponse{
			State:         "idle",
			Message:       snap.Status,
			ClipCount:     len(snap.Clips),
			TotalDuration: snap.TotalDuration,
			TotalTimecode: timeline.FormatTimecode(snap.TotalDuration),
			Playhead:      snap.Playhead,
			LastEdit:      "never",
		}
		if !snap.UpdatedAt.IsZero() {
			resp.LastEdit = humanize.Time(snap.UpdatedAt)
		}
		if cfg.Player != nil && cfg.Player.IsPlaying() {
			resp.State = "playing"
			resp.Playing = true
		}
		if cfg.Catalog != nil {
			resp.LibrarySize = cfg.Catalog.Len()
		}
		if cfg.Hub != nil {
			resp.Subscribers = cfg.Hub.Len()
		}
		if cfg.Exporter != nil {
			resp.ExportsPaused = cfg.Exporter.IsPaused()
		}
		resp.ExportsPending = countPendingExports(r.Context(), cfg.Repository)
		if resp.ExportsPending > 0 && resp.State == "idle" {
			resp.State = "exporting"
		}

		WriteJSON(w, http.StatusOK, resp)
	}
}

func countPendingExports(ctx context.Context, repo store.Repository) int {
	if repo == nil {
		return 0
	}
	pending, err := repo.ListPendingExports(ctx)
	if err != nil {
		return 0
	}
	return len(pending)
}

func libraryHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records := cfg.Catalog.List()
		resp := LibraryResponse{Items: make([]LibraryItem, len(records))}
		for i, rec := range records {
			resp.Items[i] = LibraryItem{
				Index:    i,
				Title:    rec.Title,
				Duration: rec.Duration,
				Color:    rec.Color,
				Type:     rec.Type,
			}
		}
		WriteJSON(w, http.StatusOK, resp)
	}
}
