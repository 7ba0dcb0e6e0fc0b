package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/heimdex/heimdex-editor/internal/export"
)

func createExportHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req export.Request
		if err := decodeOptionalJSON(r, &req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}
		if cfg.Exporter == nil {
			WriteError(w, http.StatusServiceUnavailable, "exports unavailable", "UNAVAILABLE")
			return
		}

		e, err := cfg.Exporter.Enqueue(r.Context(), req, cfg.Model.Clips())
		if err != nil {
			writeModelError(w, err)
			return
		}
		cfg.Model.SetStatus("Export queued")

		WriteJSON(w, http.StatusAccepted, ExportToResponse(e))
	}
}

func listExportsHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		exports, err := cfg.Repository.ListExports(r.Context(), 50)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, "failed to list exports", "INTERNAL_ERROR")
			return
		}

		resp := ExportsResponse{Exports: make([]ExportResponse, len(exports))}
		for i, e := range exports {
			resp.Exports[i] = ExportToResponse(e)
		}
		WriteJSON(w, http.StatusOK, resp)
	}
}

func getExportHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		e, err := cfg.Repository.GetExport(r.Context(), id)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error(), "INTERNAL_ERROR")
			return
		}
		if e == nil {
			WriteError(w, http.StatusNotFound, "export not found", "NOT_FOUND")
			return
		}

		WriteJSON(w, http.StatusOK, ExportToResponse(e))
	}
}
