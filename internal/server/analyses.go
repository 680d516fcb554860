package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Shemantipal/Green-Receipt/internal/entity"
	"github.com/Shemantipal/Green-Receipt/internal/history"
)

func (s *Server) handleListAnalyses(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "History is disabled"})
		return
	}

	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}

	summaries, err := s.store.ListRecent(r.Context(), limit)
	if err != nil {
		s.logger.Error("http.history_list_error", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Failed to list analyses"})
		return
	}
	if summaries == nil {
		summaries = []history.Summary{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"analyses": summaries})
}

func (s *Server) handleGetAnalysis(w http.ResponseWriter, r *http.Request) {
	res, ok := s.loadAnalysis(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleExportAnalysis(w http.ResponseWriter, r *http.Request) {
	res, ok := s.loadAnalysis(w, r)
	if !ok {
		return
	}

	data, err := s.exporter.AnalysisXLSX(res)
	if err != nil {
		s.logger.Error("http.export_error", "analysis_id", res.ID, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Failed to export analysis"})
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "analysis-"+res.ID.String()+".xlsx"))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		s.logger.Warn("http.export_write_error", "error", err)
	}
}

func (s *Server) loadAnalysis(w http.ResponseWriter, r *http.Request) (*entity.AnalysisResult, bool) {
	if s.store == nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "History is disabled"})
		return nil, false
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid analysis id"})
		return nil, false
	}

	result, err := s.store.Get(r.Context(), id)
	if errors.Is(err, history.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "Analysis not found"})
		return nil, false
	}
	if err != nil {
		s.logger.Error("http.history_get_error", "analysis_id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Failed to load analysis"})
		return nil, false
	}
	return result, true
}
