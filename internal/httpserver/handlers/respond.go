package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/Samyk00/LinkVault/internal/bulk"
	"github.com/Samyk00/LinkVault/internal/domain"
	"github.com/Samyk00/LinkVault/internal/httpserver/deps"
	"github.com/Samyk00/LinkVault/internal/logger"
)

// maxBodyBytes bounds JSON request bodies other than imports.
const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error  string       `json:"error"`
	Code   string       `json:"code"`
	Prompt *bulk.Prompt `json:"prompt,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps the domain error taxonomy onto HTTP statuses.
func writeError(w http.ResponseWriter, r *http.Request, d deps.Deps, err error) {
	resp := errorResponse{Error: err.Error()}
	status := http.StatusInternalServerError

	var declined *bulk.DeclinedError
	switch {
	case errors.As(err, &declined):
		status, resp.Code, resp.Prompt = http.StatusConflict, "confirmation_required", &declined.Prompt
	case errors.Is(err, domain.ErrInvalidSnapshot):
		status, resp.Code = http.StatusUnprocessableEntity, "invalid_snapshot"
	case errors.Is(err, domain.ErrValidation):
		status, resp.Code = http.StatusUnprocessableEntity, "validation_failed"
	case errors.Is(err, domain.ErrQuotaExceeded):
		status, resp.Code = http.StatusInsufficientStorage, "quota_exceeded"
	case errors.Is(err, domain.ErrNotHydrated):
		status, resp.Code = http.StatusServiceUnavailable, "not_hydrated"
	case errors.Is(err, errBadRequest):
		status, resp.Code = http.StatusBadRequest, "bad_request"
	default:
		resp.Code = "internal"
		resp.Error = "internal error"
		d.Logger.Error("request failed",
			logger.String("method", r.Method),
			logger.String("path", r.URL.Path),
			logger.Error(err))
	}

	writeJSON(w, status, resp)
}

var errBadRequest = errors.New("bad request")

type badRequest struct{ msg string }

func (e badRequest) Error() string        { return e.msg }
func (e badRequest) Is(target error) bool { return target == errBadRequest }

// decodeJSON reads a bounded JSON body into dst. An empty body leaves dst unchanged.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return badRequest{msg: "invalid JSON body: " + err.Error()}
	}
	return nil
}
