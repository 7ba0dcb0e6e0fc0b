package api

import (
	"net/http"

	"github.com/heimdex/heimdex-editor/internal/timeline"
)

func playbackState(cfg ServerConfig, changed bool) PlaybackResponse {
	pos := cfg.Model.Playhead()
	resp := PlaybackResponse{
		Changed:  changed,
		Playhead: pos,
		Timecode: timeline.FormatTimecode(pos),
	}
	if cfg.Player != nil {
		resp.Playing = cfg.Player.IsPlaying()
	}
	return resp
}

func playHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cfg.Player == nil {
			WriteError(w, http.StatusServiceUnavailable, "playback unavailable", "UNAVAILABLE")
			return
		}
		changed := cfg.Player.Start(cfg.baseContext())
		WriteJSON(w, http.StatusOK, playbackState(cfg, changed))
	}
}

func pauseHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cfg.Player == nil {
			WriteError(w, http.StatusServiceUnavailable, "playback unavailable", "UNAVAILABLE")
			return
		}
		changed := cfg.Player.Stop()
		WriteJSON(w, http.StatusOK, playbackState(cfg, changed))
	}
}

func toggleHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cfg.Player == nil {
			WriteError(w, http.StatusServiceUnavailable, "playback unavailable", "UNAVAILABLE")
			return
		}
		cfg.Player.Toggle(cfg.baseContext())
		WriteJSON(w, http.StatusOK, playbackState(cfg, true))
	}
}

func rewindHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		before := cfg.Model.Playhead()
		after := cfg.Model.Rewind()
		WriteJSON(w, http.StatusOK, playbackState(cfg, after != before))
	}
}

func forwardHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		before := cfg.Model.Playhead()
		after := cfg.Model.Forward()
		WriteJSON(w, http.StatusOK, playbackState(cfg, after != before))
	}
}

// playheadHandler seeks. Out of range positions are clamped to the timeline.
func playheadHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req PlayheadRequest
		if err := decodeJSON(r, &req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}
		if req.Position == nil {
			WriteError(w, http.StatusBadRequest, "position is required", "BAD_REQUEST")
			return
		}
		before := cfg.Model.Playhead()
		after := cfg.Model.SetPlayhead(*req.Position)
		WriteJSON(w, http.StatusOK, playbackState(cfg, after != before))
	}
}
