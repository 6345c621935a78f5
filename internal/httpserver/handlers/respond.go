package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/MrSnakeDoc/toolhub/internal/domain"
	"github.com/MrSnakeDoc/toolhub/internal/httpserver/deps"
	"github.com/MrSnakeDoc/toolhub/internal/logger"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// respond writes the {data, error} envelope for a fetch-layer result.
func respond[T any](w http.ResponseWriter, d deps.Deps, r *http.Request, v T, err error) {
	respondStatus(w, d, r, http.StatusOK, v, err)
}

func respondStatus[T any](w http.ResponseWriter, d deps.Deps, r *http.Request, ok int, v T, err error) {
	if err == nil {
		writeJSON(w, ok, domain.Resolve(v, nil))
		return
	}

	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		d.Logger.Warn("request failed",
			logger.String("path", r.URL.Path),
			logger.Error(err))
	}
	writeJSON(w, status, domain.Resolve(v, err))
}

func fail(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, domain.Failed[struct{}](msg))
}

// statusFor maps fetch-layer errors to HTTP statuses.
func statusFor(err error) int {
	switch {
	case domain.IsValidation(err):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNoIdentity):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrAlreadyFavorited):
		return http.StatusConflict
	case domain.IsRemote(err):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// decode reads a JSON body into dst, rejecting unknown fields.
func decode(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return domain.NewValidationError("body", "invalid request body: %v", err)
	}
	return nil
}

// intParam parses an optional positive integer query parameter.
func intParam(r *http.Request, name string) (int, bool, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return 0, false, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, false, domain.NewValidationError(name, "%s must be a positive integer", name)
	}
	return n, true, nil
}

// flag reports whether a boolean query parameter is set to a true value.
func flag(r *http.Request, name string) bool {
	b, err := strconv.ParseBool(r.URL.Query().Get(name))
	return err == nil && b
}
