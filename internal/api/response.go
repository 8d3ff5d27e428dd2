package api

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/matzehuels/flightsizer/pkg/errors"
)

type errorResponse struct {
	Code  errors.Code `json:"code"`
	Error string      `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps err to a status code and writes a JSON error body.
// Messages of internal errors are not exposed.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status, code := classify(err)
	msg := errors.UserMessage(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
		msg = "internal error"
	}
	writeJSON(w, status, errorResponse{Code: code, Error: msg})
}

func classify(err error) (int, errors.Code) {
	var maxBytes *http.MaxBytesError
	switch {
	case stderrors.As(err, &maxBytes):
		return http.StatusRequestEntityTooLarge, errors.ErrCodeInvalidInput
	case errors.IsValidation(err):
		return http.StatusBadRequest, errors.GetCode(err)
	case errors.Is(err, errors.ErrCodeNotFound), errors.Is(err, errors.ErrCodeFileNotFound):
		return http.StatusNotFound, errors.GetCode(err)
	case stderrors.Is(err, context.Canceled), stderrors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, errors.ErrCodeInternal
	default:
		return http.StatusInternalServerError, errors.ErrCodeInternal
	}
}
