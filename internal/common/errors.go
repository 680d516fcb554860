package common

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError carries a stable code alongside a human-readable message and the
// underlying cause. The code is what the HTTP layer keys its status off.
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Failure taxonomy for the analysis pipeline. Stage-internal errors are
// recovered via fallback; only these kinds surface to the HTTP boundary.
var (
	ErrNoFileProvided       = errors.New("no file provided")
	ErrUnsupportedFileType  = errors.New("unsupported file type")
	ErrExtractionExhausted  = errors.New("text extraction exhausted all strategies")
	ErrEstimatorUnavailable = errors.New("impact estimator unavailable")
	ErrMalformedResponse    = errors.New("malformed model response")
	ErrNoItemsFound         = errors.New("no items found in receipt")
)

func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// HTTPStatus maps a pipeline failure onto the response status. Client-side
// problems (bad upload, receipt with nothing on it) are 400s; everything
// else is a 500.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrNoFileProvided),
		errors.Is(err, ErrUnsupportedFileType),
		errors.Is(err, ErrNoItemsFound):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// FailureKind returns the stable taxonomy code for an error, for logs and
// stored payloads.
func FailureKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNoFileProvided):
		return "NO_FILE_PROVIDED"
	case errors.Is(err, ErrUnsupportedFileType):
		return "UNSUPPORTED_FILE_TYPE"
	case errors.Is(err, ErrExtractionExhausted):
		return "EXTRACTION_EXHAUSTED"
	case errors.Is(err, ErrEstimatorUnavailable):
		return "ESTIMATOR_UNAVAILABLE"
	case errors.Is(err, ErrMalformedResponse):
		return "MALFORMED_RESPONSE"
	case errors.Is(err, ErrNoItemsFound):
		return "NO_ITEMS_FOUND"
	default:
		return "INTERNAL"
	}
}
