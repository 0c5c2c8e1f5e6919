package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/portfolio/internal/common"
	"github.com/dmitrijs2005/portfolio/internal/server/services"
)

// maxBodyBytes caps request bodies; bulk imports stay far below it.
const maxBodyBytes = 1 << 20

// writeJSON writes a JSON response with the given status code.
func (s *Server) writeJSON(ctx context.Context, w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Warn(ctx, "failed to encode JSON response", "error", err)
	}
}

// writeErrorMessage writes {"error": {"message": ...}}.
func (s *Server) writeErrorMessage(ctx context.Context, w http.ResponseWriter, status int, message string) {
	s.writeJSON(ctx, w, status, map[string]any{
		"error": map[string]string{
			"message": message,
		},
	})
}

// writeError maps err onto a status code. Messages of infrastructure and
// unknown errors are not exposed.
func (s *Server) writeError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, common.ErrorNotFound):
		s.writeErrorMessage(ctx, w, http.StatusNotFound, "not found")
	case errors.Is(err, common.ErrorValidation):
		s.writeErrorMessage(ctx, w, http.StatusBadRequest, err.Error())
	case errors.Is(err, common.ErrorAlreadyExists):
		s.writeErrorMessage(ctx, w, http.StatusConflict, "already exists")
	case errors.Is(err, common.ErrorUnauthorized):
		s.writeErrorMessage(ctx, w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, common.ErrorForbidden):
		s.writeErrorMessage(ctx, w, http.StatusForbidden, "forbidden")
	case errors.Is(err, services.ErrImagesDisabled):
		s.writeErrorMessage(ctx, w, http.StatusNotImplemented, "image storage is not configured")
	case errors.Is(err, common.ErrStoreUnavailable):
		s.logger.Error(ctx, "store unavailable", "error", err)
		s.writeErrorMessage(ctx, w, http.StatusServiceUnavailable, "service unavailable")
	default:
		s.logger.Error(ctx, "request failed", "error", err)
		s.writeErrorMessage(ctx, w, http.StatusInternalServerError, "internal error")
	}
}

// errInvalidJSON is what clients see for any undecodable body; the decoder
// detail only goes to the debug log.
var errInvalidJSON = fmt.Errorf("%w: invalid JSON", common.ErrorValidation)

// decodeJSON reads the request body into v.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		s.logger.Debug(r.Context(), "invalid request body", "path", r.URL.Path, "error", err)
		return errInvalidJSON
	}
	if dec.More() {
		s.logger.Debug(r.Context(), "invalid request body", "path", r.URL.Path, "error", "trailing data")
		return errInvalidJSON
	}
	return nil
}
