package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/Shemantipal/Green-Receipt/internal/common"
)

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Warn("http.encode_response_error", "error", err)
	}
}

// writeError maps a pipeline failure onto the response contract: a stable
// single-sentence message per kind, plus truncated diagnostic detail on
// server-side failures. API keys never travel through the error chain, so
// details are safe to expose.
func writeError(w http.ResponseWriter, err error) {
	status := common.HTTPStatus(err)

	resp := errorResponse{Error: userMessage(err)}
	if status >= http.StatusInternalServerError {
		resp.Details = truncateDetails(err.Error())
	}
	writeJSON(w, status, resp)
}

func userMessage(err error) string {
	switch {
	case errors.Is(err, common.ErrNoFileProvided):
		return "No file uploaded"
	case errors.Is(err, common.ErrUnsupportedFileType):
		return "Unsupported file type. Upload a PDF, JPEG, PNG, or WebP receipt."
	case errors.Is(err, common.ErrNoItemsFound):
		return "No items found in receipt. Please upload a clearer image."
	case errors.Is(err, common.ErrExtractionExhausted):
		return "Could not extract text from file."
	case errors.Is(err, common.ErrEstimatorUnavailable):
		return "Analysis service is temporarily unavailable."
	case errors.Is(err, common.ErrMalformedResponse):
		return "Failed to parse analysis response."
	default:
		return "Analysis failed"
	}
}

func truncateDetails(s string) string {
	const max = 300
	if len(s) <= max {
		return s
	}
	return s[:max] + "...(truncated)"
}
