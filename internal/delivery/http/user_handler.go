package http

import (
	"encoding/json"
	"net/http"

	"github.com/dwikikusuma/minikart/internal/apperr"
	"github.com/go-chi/chi/v5"
)

// handleGetUser returns the caller's own profile. With ?q=address only
// the shipping address is returned.
func (h *Handler) handleGetUser(w http.ResponseWriter, r *http.Request) {
	caller, ok := userFromContext(r.Context())
	if !ok {
		writeError(w, apperr.Unauthorized("please authenticate"))
		return
	}

	userID := chi.URLParam(r, "userId")
	if userID != caller.ID {
		writeError(w, apperr.Forbidden("cannot access another user's data"))
		return
	}

	if r.URL.Query().Get("q") == "address" {
		address, err := h.identity.Address(r.Context(), userID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"address": address})
		return
	}

	user, err := h.identity.GetUser(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(user))
}

type setAddressRequest struct {
	Address string `json:"address"`
}

func (h *Handler) handleSetAddress(w http.ResponseWriter, r *http.Request) {
	caller, ok := userFromContext(r.Context())
	if !ok {
		writeError(w, apperr.Unauthorized("please authenticate"))
		return
	}

	userID := chi.URLParam(r, "userId")
	if userID != caller.ID {
		writeError(w, apperr.Forbidden("cannot access another user's data"))
		return
	}

	var req setAddressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperr.Invalid("invalid request body"))
		return
	}

	user, err := h.identity.SetAddress(r.Context(), userID, req.Address)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"address": user.Address})
}
