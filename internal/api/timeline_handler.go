package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/heimdex/heimdex-editor/internal/library"
	"github.com/heimdex/heimdex-editor/internal/timeline"
)

func getTimelineHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, cfg.Model.Snapshot())
	}
}

// addClipHandler appends a library record. Without a library_index it picks
// one at random, like the media panel's add button.
func addClipHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req AddClipRequest
		if err := decodeOptionalJSON(r, &req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}

		var rec library.Record
		if req.LibraryIndex != nil {
			var ok bool
			rec, ok = cfg.Catalog.Get(*req.LibraryIndex)
			if !ok {
				WriteError(w, http.StatusNotFound, fmt.Sprintf("library index %d out of range", *req.LibraryIndex), "NOT_FOUND")
				return
			}
		} else {
			var err error
			rec, err = cfg.Catalog.Random(nil)
			if err != nil {
				WriteError(w, http.StatusConflict, err.Error(), "EMPTY_LIBRARY")
				return
			}
		}

		clip := cfg.Model.AppendClip(rec)
		WriteJSON(w, http.StatusCreated, clip)
	}
}

func removeClipHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := cfg.Model.RemoveClip(chi.URLParam(r, "id")); err != nil {
			writeModelError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func duplicateClipHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clip, err := cfg.Model.DuplicateClip(chi.URLParam(r, "id"))
		if err != nil {
			writeModelError(w, err)
			return
		}
		WriteJSON(w, http.StatusCreated, clip)
	}
}

func selectHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SelectRequest
		if err := decodeJSON(r, &req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}
		if req.ClipID == "" {
			WriteError(w, http.StatusBadRequest, "clip_id is required", "BAD_REQUEST")
			return
		}
		if err := cfg.Model.Select(req.ClipID); err != nil {
			writeModelError(w, err)
			return
		}
		writeSelection(w, cfg.Model, req.ClipID)
	}
}

func clearSelectionHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cfg.Model.ClearSelection()
		w.WriteHeader(http.StatusNoContent)
	}
}

func getSelectionHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := cfg.Model.SelectedID()
		if id == "" {
			WriteError(w, http.StatusNotFound, "no clip selected", "NOT_FOUND")
			return
		}
		writeSelection(w, cfg.Model, id)
	}
}

func writeSelection(w http.ResponseWriter, m *timeline.Model, id string) {
	fields, err := m.LoadSelection(id)
	if err != nil {
		writeModelError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, SelectionResponse{ClipID: id, Fields: fields})
}

func saveClipHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		var req SaveClipRequest
		if err := decodeJSON(r, &req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}

		current, err := cfg.Model.LoadSelection(id)
		if err != nil {
			writeModelError(w, err)
			return
		}

		clip, err := cfg.Model.SaveClip(id, req.apply(current))
		if err != nil {
			writeModelError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, clip)
	}
}

func beginTrimHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		var req TrimRequest
		if err := decodeJSON(r, &req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}
		side, err := timeline.ParseSide(req.Side)
		if err != nil {
			writeModelError(w, err)
			return
		}

		g, err := cfg.Model.BeginTrim(id, side)
		if err != nil {
			writeModelError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, TrimResponse{
			ClipID:        g.ClipID,
			Side:          g.Side.String(),
			Duration:      g.Origin,
			Origin:        g.Origin,
			TotalDuration: cfg.Model.TotalDuration(),
			Active:        true,
		})
	}
}

func trimHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		var req TrimRequest
		if err := decodeJSON(r, &req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}
		side, err := timeline.ParseSide(req.Side)
		if err != nil {
			writeModelError(w, err)
			return
		}

		var delta float64
		switch {
		case req.DeltaSeconds != nil:
			delta = *req.DeltaSeconds
		case req.DeltaPx != nil:
			delta = cfg.Model.PixelsToSeconds(*req.DeltaPx)
		default:
			WriteError(w, http.StatusBadRequest, "delta_px or delta_seconds is required", "BAD_REQUEST")
			return
		}

		duration, err := cfg.Model.Trim(id, side, delta)
		if err != nil {
			writeModelError(w, err)
			return
		}

		resp := TrimResponse{
			ClipID:        id,
			Side:          side.String(),
			Duration:      duration,
			TotalDuration: cfg.Model.TotalDuration(),
		}
		if g, ok := cfg.Model.ActiveGesture(); ok && g.ClipID == id {
			resp.Origin = g.Origin
			resp.Active = true
		}
		WriteJSON(w, http.StatusOK, resp)
	}
}

func endTrimHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if g, ok := cfg.Model.ActiveGesture(); !ok || g.ClipID != id {
			WriteError(w, http.StatusConflict, "no trim in progress for this clip", "NO_ACTIVE_TRIM")
			return
		}
		cfg.Model.EndTrim()
		w.WriteHeader(http.StatusNoContent)
	}
}

func settingsHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SettingsRequest
		if err := decodeJSON(r, &req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}

		if req.Zoom != nil {
			if _, err := cfg.Model.SetZoom(*req.Zoom); err != nil {
				writeModelError(w, err)
				return
			}
		}
		if req.Snap != nil {
			cfg.Model.SetSnap(*req.Snap)
		}

		WriteJSON(w, http.StatusOK, SettingsResponse{Zoom: cfg.Model.Zoom(), Snap: cfg.Model.Snap()})
	}
}
