package server

import (
	"errors"
	"io"
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/Shemantipal/Green-Receipt/internal/common"
	"github.com/Shemantipal/Green-Receipt/internal/entity"
)

type analyzeResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
	Data    any    `json:"data"`
}

// handleAnalyze is the upload endpoint: multipart body, one "file" field,
// full scorecard back. The pipeline owns the document for the duration of
// the request; nothing is retained on failure.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	reqID := chimiddleware.GetReqID(r.Context())
	ctx := common.WithRequestID(r.Context(), reqID)

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	if err := r.ParseMultipartForm(s.cfg.MaxUploadBytes); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: "File too large"})
			return
		}
		writeError(w, common.ErrNoFileProvided)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, common.ErrNoFileProvided)
		return
	}
	defer func() {
		if err := file.Close(); err != nil {
			s.logger.Warn("http.upload_close_error", "req_id", reqID, "error", err)
		}
	}()

	data, err := io.ReadAll(file)
	if err != nil {
		s.logger.Error("http.upload_read_error", "req_id", reqID, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Failed to read upload"})
		return
	}

	doc := entity.UploadedDocument{
		Data:     data,
		MIMEType: header.Header.Get("Content-Type"),
		Filename: header.Filename,
	}

	s.logger.Info("http.file_received",
		"req_id", reqID,
		"filename", doc.Filename,
		"mime_type", doc.MIMEType,
		"bytes", len(doc.Data),
	)

	result, err := s.pipeline.Analyze(ctx, doc)
	if err != nil {
		writeError(w, err)
		return
	}

	// history is best-effort; a failed save never fails the request
	if s.store != nil {
		if err := s.store.Save(ctx, result); err != nil {
			s.logger.Warn("http.history_save_failed", "req_id", reqID, "analysis_id", result.ID, "error", err)
		}
	}

	writeJSON(w, http.StatusOK, analyzeResponse{
		Success: true,
		ID:      result.ID.String(),
		Data:    result,
	})
}
