package httputil

import (
	"encoding/json"
	"errors"
	"net/http"

	dErrors "invitedesk/pkg/domain-errors"
)

func WriteJSON(w http.ResponseWriter, status int, response any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Errors after WriteHeader cannot change the status code, so we ignore encoding errors.
	_ = json.NewEncoder(w).Encode(response)
}

// WriteError translates a domain error into the invite manager's error body,
// {"error": "<message>"}. Unknown errors become a bare 500.
func WriteError(w http.ResponseWriter, err error) {
	var domainErr *dErrors.Error
	if errors.As(err, &domainErr) {
		msg := domainErr.Message
		if msg == "" {
			msg = http.StatusText(DomainCodeToHTTPStatus(domainErr.Code))
		}
		WriteJSON(w, DomainCodeToHTTPStatus(domainErr.Code), map[string]string{"error": msg})
		return
	}
	WriteJSON(w, http.StatusInternalServerError, map[string]string{
		"error": http.StatusText(http.StatusInternalServerError),
	})
}

// DomainCodeToHTTPStatus translates domain error codes to HTTP status codes.
func DomainCodeToHTTPStatus(code dErrors.Code) int {
	switch code {
	case dErrors.CodeNotFound:
		return http.StatusNotFound
	case dErrors.CodeBadRequest, dErrors.CodeValidation:
		return http.StatusBadRequest
	case dErrors.CodeConflict:
		return http.StatusConflict
	case dErrors.CodeUnauthorized:
		return http.StatusUnauthorized
	case dErrors.CodeNetwork:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
