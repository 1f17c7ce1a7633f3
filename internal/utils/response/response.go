package response

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/princekumarofficial/autohouse-service/internal/types"
)

type Response struct {
	Status  string      `json:"status"`
	Error   string      `json:"error,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

func WriteJSON(w http.ResponseWriter, status int, data interface{}) error {

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	return json.NewEncoder(w).Encode(data)
}

func GeneralError(err error) Response {
	return Response{
		Status: StatusError,
		Error:  err.Error(),
	}
}

func ValidationError(errs validator.ValidationErrors) Response {
	var errorMessages string
	for _, err := range errs {
		errorMessages += err.Field() + ": " + err.Tag() + "; "
	}

	return Response{
		Status: StatusError,
		Error:  errorMessages,
	}
}

func RequestOK(message string, data interface{}) Response {
	return Response{
		Status:  StatusSuccess,
		Message: message,
		Data:    data,
	}
}

// StatusFor maps an error kind to an HTTP status code.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, types.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, types.ErrAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, types.ErrStorageNotConfigured):
		return http.StatusServiceUnavailable
	case errors.Is(err, types.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, types.ErrInvalidLocation):
		return http.StatusBadRequest
	case errors.Is(err, types.ErrUnsupportedMediaType):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, types.ErrInvalidCredentials):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// WriteError writes err with the status matching its kind. Unknown errors are
// logged and answered with a generic message.
func WriteError(w http.ResponseWriter, err error) error {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		slog.Error("Request failed", slog.String("error", err.Error()))
		return WriteJSON(w, status, GeneralError(errors.New("internal server error")))
	}
	return WriteJSON(w, status, GeneralError(err))
}

// WriteValidation answers a failed validator.Struct call.
func WriteValidation(w http.ResponseWriter, err error) error {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		return WriteJSON(w, http.StatusBadRequest, ValidationError(ve))
	}
	return WriteJSON(w, http.StatusBadRequest, GeneralError(err))
}
