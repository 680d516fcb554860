package common

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, http.StatusOK},
		{ErrNoFileProvided, http.StatusBadRequest},
		{ErrUnsupportedFileType, http.StatusBadRequest},
		{ErrNoItemsFound, http.StatusBadRequest},
		{ErrExtractionExhausted, http.StatusInternalServerError},
		{ErrEstimatorUnavailable, http.StatusInternalServerError},
		{ErrMalformedResponse, http.StatusInternalServerError},
		{errors.New("something else"), http.StatusInternalServerError},
		{fmt.Errorf("%w: wrapped twice", fmt.Errorf("%w: once", ErrNoItemsFound)), http.StatusBadRequest},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, HTTPStatus(tt.err), "err=%v", tt.err)
	}
}

func TestFailureKind(t *testing.T) {
	assert.Equal(t, "", FailureKind(nil))
	assert.Equal(t, "NO_FILE_PROVIDED", FailureKind(ErrNoFileProvided))
	assert.Equal(t, "UNSUPPORTED_FILE_TYPE", FailureKind(ErrUnsupportedFileType))
	assert.Equal(t, "EXTRACTION_EXHAUSTED", FailureKind(fmt.Errorf("%w: pdf", ErrExtractionExhausted)))
	assert.Equal(t, "ESTIMATOR_UNAVAILABLE", FailureKind(ErrEstimatorUnavailable))
	assert.Equal(t, "MALFORMED_RESPONSE", FailureKind(ErrMalformedResponse))
	assert.Equal(t, "NO_ITEMS_FOUND", FailureKind(ErrNoItemsFound))
	assert.Equal(t, "INTERNAL", FailureKind(errors.New("disk on fire")))
}

func TestAppErrorUnwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := NewAppError("CONFIG_ERROR", "bad setting", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "CONFIG_ERROR")
	assert.Contains(t, err.Error(), "bad setting")
	assert.Contains(t, err.Error(), "root cause")
}

func TestWrapError(t *testing.T) {
	assert.NoError(t, WrapError(nil, "ignored"))

	err := WrapError(ErrNoItemsFound, "during validation")
	assert.ErrorIs(t, err, ErrNoItemsFound)
	assert.Contains(t, err.Error(), "during validation")
}
