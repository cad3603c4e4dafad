package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/dwikikusuma/minikart/internal/apperr"
	"github.com/dwikikusuma/minikart/internal/identity/domain"
)

type contextKey struct{ name string }

var userKey = &contextKey{"user"}

// requireAuth resolves the bearer token to a user and stores the user
// on the request context. The token only proves identity; the account
// itself must still exist.
func (h *Handler) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		value, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || value == "" {
			writeError(w, apperr.Unauthorized("please authenticate"))
			return
		}

		userID, err := h.issuer.Verify(value)
		if err != nil {
			writeError(w, err)
			return
		}

		user, err := h.identity.GetUser(r.Context(), userID)
		if err != nil {
			if apperr.KindOf(err) == apperr.KindNotFound {
				writeError(w, apperr.Unauthorized("please authenticate"))
				return
			}
			writeError(w, err)
			return
		}

		ctx := context.WithValue(r.Context(), userKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func userFromContext(ctx context.Context) (domain.User, bool) {
	user, ok := ctx.Value(userKey).(domain.User)
	return user, ok
}
