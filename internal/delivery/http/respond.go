package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/dwikikusuma/minikart/internal/apperr"
)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response failed", "err", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	status, code, msg := httpStatusFromError(err)
	if status == http.StatusInternalServerError {
		slog.Error("request failed", "err", err)
	}
	writeJSON(w, status, errorBody{Code: code, Message: msg})
}

// httpStatusFromError maps typed application errors onto HTTP
// statuses. Internal details never reach the client.
func httpStatusFromError(err error) (int, string, string) {
	kind := apperr.KindOf(err)

	var status int
	switch kind {
	case apperr.KindInvalid:
		status = http.StatusBadRequest
	case apperr.KindNotFound:
		status = http.StatusNotFound
	case apperr.KindUnauthorized:
		status = http.StatusUnauthorized
	case apperr.KindForbidden:
		status = http.StatusForbidden
	case apperr.KindConflict:
		status = http.StatusConflict
	default:
		status = http.StatusInternalServerError
	}

	return status, kind.String(), apperr.MessageOf(err)
}
