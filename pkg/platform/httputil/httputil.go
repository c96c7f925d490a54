// Package httputil centralizes JSON request decoding and error translation so
// handlers stay thin and error envelopes stay consistent.
package httputil

import (
	"encoding/json"
	"log/slog"
	"net/http"

	dErrors "uniregistry/pkg/domain-errors"
)

// WriteError translates a domain error into an HTTP response with a JSON
// envelope. Internal errors intentionally omit the description so backend
// details never reach callers.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	status := dErrors.ToHTTPStatus(code)

	body := map[string]string{"error": string(code)}
	if code != dErrors.CodeInternal {
		if msg := dErrors.MessageOf(err); msg != "" {
			body["error_description"] = msg
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// WriteJSON encodes a response body with the given status.
func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// DecodeAndPrepare decodes a JSON request body into T. On failure it writes a
// bad_request envelope and returns ok=false; handlers should just return.
func DecodeAndPrepare[T any](w http.ResponseWriter, r *http.Request, logger *slog.Logger, requestID string) (T, bool) {
	var req T
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if logger != nil {
			logger.WarnContext(r.Context(), "invalid request body",
				"request_id", requestID,
				"error", err,
			)
		}
		WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return req, false
	}
	return req, true
}
