package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/atakanbattal/Kademe-KYS-sub003/errors"
)

// writeJSON writes a JSON response with the given status code
func writeJSON(w http.ResponseWriter, status int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// writeError writes a JSON error response. Hints attached to err are included.
func writeError(w http.ResponseWriter, status int, message string, err error) {
	body := map[string]string{"error": message}
	if err != nil {
		if hint := errors.FlattenHints(err); hint != "" {
			body["hint"] = hint
		}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// writeEngineError maps an engine error onto an HTTP status
func writeEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.IsInvalidRequestError(err):
		writeError(w, http.StatusBadRequest, err.Error(), err)
	case errors.IsNotFoundError(err):
		writeError(w, http.StatusNotFound, err.Error(), err)
	case errors.Is(err, errors.ErrRateLimited):
		writeError(w, http.StatusTooManyRequests, err.Error(), err)
	case errors.IsStoreUnavailableError(err):
		writeError(w, http.StatusServiceUnavailable, err.Error(), err)
	default:
		writeError(w, http.StatusInternalServerError, "internal error", err)
	}
}

// requireMethod checks if the request method matches the expected method
func requireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed", nil)
		return false
	}
	return true
}

// extractPathParts extracts path segments after removing a prefix
func extractPathParts(urlPath, prefix string) []string {
	return strings.Split(strings.Trim(strings.TrimPrefix(urlPath, prefix), "/"), "/")
}
