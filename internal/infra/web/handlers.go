package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"telegram-uid-keeper/internal/domain"
	"telegram-uid-keeper/internal/domain/ports/repository"
)

type statsResponse struct {
	TotalRecords int    `json:"total_records"`
	LastSavedAt  string `json:"last_saved_at,omitempty"`
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.statsUC.Overview(r.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("stats overview failed")
		http.Error(w, "Failed to get stats", http.StatusInternalServerError)
		return
	}

	resp := statsResponse{TotalRecords: stats.TotalRecords}
	if !stats.LastSavedAt.IsZero() {
		resp.LastSavedAt = stats.LastSavedAt.UTC().Format(time.RFC3339)
	}
	writeJSON(w, http.StatusOK, resp)
}

type recordResponse struct {
	UID         string `json:"uid"`
	Note        string `json:"note,omitempty"`
	SubmittedBy int64  `json:"submitted_by"`
	ChatID      int64  `json:"chat_id"`
	Source      string `json:"source,omitempty"`
	CreatedAt   string `json:"created_at"`
}

func (s *Server) handleListRecords(w http.ResponseWriter, r *http.Request) {
	var filter repository.ListFilter
	if v := r.URL.Query().Get("chat_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			http.Error(w, "Invalid chat_id", http.StatusBadRequest)
			return
		}
		filter.ChatID = id
	}
	if v := r.URL.Query().Get("submitted_by"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			http.Error(w, "Invalid submitted_by", http.StatusBadRequest)
			return
		}
		filter.SubmittedBy = id
	}

	recs, err := s.recordUC.List(r.Context(), filter)
	if err != nil {
		s.log.Error().Err(err).Msg("record list failed")
		http.Error(w, "Failed to list records", http.StatusInternalServerError)
		return
	}

	resp := make([]recordResponse, 0, len(recs))
	for _, rec := range recs {
		resp = append(resp, recordResponse{
			UID:         rec.UID,
			Note:        rec.Note,
			SubmittedBy: rec.SubmittedBy,
			ChatID:      rec.ChatID,
			Source:      rec.Source,
			CreatedAt:   rec.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeleteRecord(w http.ResponseWriter, r *http.Request) {
	uid := chi.URLParam(r, "uid")

	removed, err := s.recordUC.Delete(r.Context(), uid)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidArgument) {
			http.Error(w, "Invalid uid", http.StatusBadRequest)
			return
		}
		s.log.Error().Err(err).Str("uid", uid).Msg("record delete failed")
		http.Error(w, "Failed to delete record", http.StatusInternalServerError)
		return
	}
	if !removed {
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	data, err := s.recordUC.ExportCSV(r.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("csv export failed")
		http.Error(w, "Failed to export", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="uids.csv"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
