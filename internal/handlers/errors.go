package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/gdg-garage/event-registration-api/internal/apperrors"
)

const (
	msgInvalidInput = "Invalid input data"
	msgServerError  = "Something went wrong on the server"
	msgNoEndpoint   = "The requested endpoint does not exist"
)

// APIError is the error body of every endpoint:
// {"error": <category>, "message": <text>, "details": [...]}.
type APIError struct {
	Status   int                    `json:"-"`
	Category string                 `json:"error" doc:"Error category" example:"Not Found"`
	Message  string                 `json:"message" doc:"Human readable description"`
	Details  []apperrors.FieldError `json:"details,omitempty" doc:"Rejected input fields"`
}

func (e *APIError) Error() string {
	return e.Message
}

func (e *APIError) GetStatus() int {
	return e.Status
}

// Every error huma produces on its own (decoding, schema validation, unknown
// content types) goes through huma.NewError, so the envelope is the same as
// for errors returned by the operations.
func init() {
	huma.NewError = newError
}

func newError(status int, msg string, errs ...error) huma.StatusError {
	switch {
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		details := make([]apperrors.FieldError, 0, len(errs))
		for _, err := range errs {
			if err != nil {
				details = append(details, fieldError(err))
			}
		}
		return &APIError{
			Status:   http.StatusBadRequest,
			Category: apperrors.KindValidation.String(),
			Message:  msgInvalidInput,
			Details:  details,
		}
	case status >= http.StatusInternalServerError:
		return &APIError{Status: status, Category: http.StatusText(status), Message: msgServerError}
	default:
		return &APIError{Status: status, Category: http.StatusText(status), Message: msg}
	}
}

func fieldError(err error) apperrors.FieldError {
	var detailer huma.ErrorDetailer
	if errors.As(err, &detailer) {
		detail := detailer.ErrorDetail()
		return apperrors.FieldError{Field: fieldName(detail.Location), Message: detail.Message}
	}
	return apperrors.FieldError{Message: err.Error()}
}

// fieldName drops huma's location prefix: "body.email" becomes "email".
func fieldName(location string) string {
	for _, prefix := range []string{"body.", "path.", "query.", "header."} {
		if name, ok := strings.CutPrefix(location, prefix); ok {
			return name
		}
	}
	return location
}

func statusOf(kind apperrors.Kind) int {
	switch kind {
	case apperrors.KindValidation, apperrors.KindBadRequest:
		return http.StatusBadRequest
	case apperrors.KindNotFound:
		return http.StatusNotFound
	case apperrors.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// fail turns a service error into the response error. Classified errors keep
// their message; anything else is logged and reported as "Failed to <op>".
func fail(op string, err error) error {
	var appErr *apperrors.Error
	if errors.As(err, &appErr) && appErr.Kind != apperrors.KindInternal {
		return &APIError{
			Status:   statusOf(appErr.Kind),
			Category: appErr.Kind.String(),
			Message:  appErr.Message,
			Details:  appErr.Details,
		}
	}
	log.Printf("%s: %v", op, err)
	return &APIError{
		Status:   http.StatusInternalServerError,
		Category: apperrors.KindInternal.String(),
		Message:  "Failed to " + op,
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("write response: %v", err)
	}
}

func handleNotFound(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusNotFound, &APIError{Category: apperrors.KindNotFound.String(), Message: msgNoEndpoint})
}
