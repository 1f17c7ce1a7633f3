package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/princekumarofficial/autohouse-service/internal/types"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("maker 3: %w", types.ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("maker Audi: %w", types.ErrAlreadyExists), http.StatusConflict},
		{types.ErrStorageNotConfigured, http.StatusServiceUnavailable},
		{types.ErrForbidden, http.StatusForbidden},
		{types.ErrInvalidLocation, http.StatusBadRequest},
		{types.ErrUnsupportedMediaType, http.StatusUnsupportedMediaType},
		{types.ErrInvalidCredentials, http.StatusUnauthorized},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := StatusFor(tt.err); got != tt.want {
			t.Errorf("StatusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestWriteError_HidesInternalErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, errors.New("pq: connection refused"))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("Expected 500, got %d", rec.Code)
	}
	var body Response
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode body: %v", err)
	}
	if body.Status != StatusError || body.Error != "internal server error" {
		t.Fatalf("Unexpected body %+v", body)
	}
}

func TestWriteError_KnownKind(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, fmt.Errorf("maker 7: %w", types.ErrNotFound))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("Expected 404, got %d", rec.Code)
	}
	var body Response
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode body: %v", err)
	}
	if body.Error != "maker 7: not found" {
		t.Fatalf("Unexpected error message %q", body.Error)
	}
}
