package api

import (
	"encoding/json"
	"net/http"
	"strings"

	dErrors "invitedesk/pkg/domain-errors"
)

// errorFromResponse maps a non-2xx response to the console's error taxonomy.
// The message is the server's JSON "error" field, then "message", else "".
func errorFromResponse(status int, body []byte) error {
	return statusError(status, serverMessage(body), nil)
}

func statusError(status int, msg string, cause error) error {
	code := dErrors.CodeAPI
	if status == http.StatusUnauthorized {
		code = dErrors.CodeUnauthorized
	}
	return &dErrors.Error{Code: code, Message: msg, Status: status, Err: cause}
}

// networkError wraps a transport failure. It carries no message so callers
// fall back to their own wording.
func networkError(err error) error {
	return &dErrors.Error{Code: dErrors.CodeNetwork, Err: err}
}

func decodeError(status int, err error) error {
	return &dErrors.Error{Code: dErrors.CodeAPI, Status: status, Err: err}
}

func serverMessage(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if s := strings.TrimSpace(payload.Error); s != "" {
		return s
	}
	return strings.TrimSpace(payload.Message)
}
