package httputil

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	dErrors "invitedesk/pkg/domain-errors"
)

// DecodeJSON decodes a JSON request body into the target type.
// On failure it writes a 400 and returns nil, false.
//
// Usage:
//
//	req, ok := httputil.DecodeJSON[contract.LoginRequest](w, r, h.logger, ctx, requestID)
//	if !ok {
//	    return
//	}
func DecodeJSON[T any](w http.ResponseWriter, r *http.Request, logger *slog.Logger, ctx context.Context, requestID string) (*T, bool) {
	var req T
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "failed to decode request body",
			"error", err,
			"request_id", requestID,
		)
		WriteError(w, dErrors.New(dErrors.CodeBadRequest, "Invalid request body"))
		return nil, false
	}
	return &req, true
}

// BearerToken returns the token of an "Authorization: Bearer <token>" header.
func BearerToken(r *http.Request) string {
	const prefix = "Bearer "
	h := r.Header.Get("Authorization")
	if len(h) <= len(prefix) || h[:len(prefix)] != prefix {
		return ""
	}
	return h[len(prefix):]
}
