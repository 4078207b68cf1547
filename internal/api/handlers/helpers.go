package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/charmbracelet/log"

	"github.com/TWRT/todo-service/internal/api/middleware"
	"github.com/TWRT/todo-service/internal/models"
	"github.com/TWRT/todo-service/internal/validation"
)

const maxBodyBytes = 1 << 20

// readValidated reads the request body, checks it against the named schema
// and decodes it into dst.
func readValidated(w http.ResponseWriter, r *http.Request, v *validation.Validator, schema string, dst any) error {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return validation.NewError("", "error trying to read the body: "+err.Error())
	}

	if err := v.ValidateJSON(schema, body); err != nil {
		return err
	}

	if err := json.Unmarshal(body, dst); err != nil {
		return validation.NewError("", "JSON error: "+err.Error())
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, resp models.ErrorResponse) {
	writeJSON(w, status, resp)
}

// writeServiceError maps an error from the service layer onto a response.
func writeServiceError(w http.ResponseWriter, r *http.Request, logger *log.Logger, err error) {
	var ve *validation.Error
	switch {
	case errors.As(err, &ve):
		writeError(w, http.StatusBadRequest, models.ErrorResponse{
			Error: ve.Message,
			Code:  models.CodeInvalidRequest,
			Field: ve.Field,
		})
	case errors.Is(err, models.ErrNotFound):
		writeError(w, http.StatusNotFound, models.ErrorResponse{
			Error: err.Error(),
			Code:  models.CodeNotFound,
		})
	case errors.Is(err, context.DeadlineExceeded):
		logger.Warn("request timed out", "rid", middleware.RequestIDFromContext(r.Context()), "err", err)
		writeError(w, http.StatusServiceUnavailable, models.ErrorResponse{
			Error: "request timed out",
			Code:  models.CodeTimeout,
		})
	default:
		logger.Error("request failed", "rid", middleware.RequestIDFromContext(r.Context()), "err", err)
		writeError(w, http.StatusInternalServerError, models.ErrorResponse{
			Error: "internal error",
			Code:  models.CodeInternal,
		})
	}
}
