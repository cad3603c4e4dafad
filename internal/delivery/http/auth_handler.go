package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/dwikikusuma/minikart/internal/apperr"
	"github.com/dwikikusuma/minikart/internal/auth"
	"github.com/dwikikusuma/minikart/internal/identity/domain"
)

type userResponse struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	WalletBalance int64  `json:"wallet_balance"`
	Address       string `json:"address"`
}

type tokenResponse struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}

type authResponse struct {
	User   userResponse `json:"user"`
	Tokens struct {
		Access tokenResponse `json:"access"`
	} `json:"tokens"`
}

func toUserResponse(u domain.User) userResponse {
	return userResponse{
		ID:            u.ID,
		Name:          u.Name,
		Email:         u.Email,
		WalletBalance: u.WalletBalance,
		Address:       u.Address,
	}
}

func toAuthResponse(u domain.User, tok auth.Token) authResponse {
	var resp authResponse
	resp.User = toUserResponse(u)
	resp.Tokens.Access = tokenResponse{Token: tok.Value, Expires: tok.ExpiresAt}
	return resp
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperr.Invalid("invalid request body"))
		return
	}

	user, err := h.identity.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	tok, err := h.issuer.Issue(user.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toAuthResponse(user, tok))
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperr.Invalid("invalid request body"))
		return
	}

	user, err := h.identity.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	tok, err := h.issuer.Issue(user.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toAuthResponse(user, tok))
}
