package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/SaiPran04/Spero-AI-Mental-Health-Assistant/internal/auth"
	"github.com/SaiPran04/Spero-AI-Mental-Health-Assistant/internal/core"
)

const sessionCookieName = "spero_session"

type contextKey string

const sessionKey contextKey = "session"

// SessionFromContext returns the session attached by the session gate.
func SessionFromContext(ctx context.Context) (*auth.Session, bool) {
	s, ok := ctx.Value(sessionKey).(*auth.Session)
	return s, ok
}

// currentSession resolves the request's session cookie. Missing, invalid,
// expired and revoked tokens all yield core.ErrNotAuthenticated.
func (h *APIHandler) currentSession(r *http.Request) (*auth.Session, error) {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil || cookie.Value == "" {
		return nil, core.ErrNotAuthenticated
	}

	session, err := h.sessions.Parse(cookie.Value)
	if err != nil {
		return nil, core.ErrNotAuthenticated
	}

	revoked, err := h.revoker.IsRevoked(r.Context(), session.TokenID)
	if err != nil {
		return nil, fmt.Errorf("failed to check session revocation: %w", err)
	}
	if revoked {
		return nil, core.ErrNotAuthenticated
	}
	return session, nil
}

// RequireSession guards JSON endpoints.
func (h *APIHandler) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, err := h.currentSession(r)
		if err != nil {
			if errors.Is(err, core.ErrNotAuthenticated) {
				writeError(w, http.StatusUnauthorized, "Not logged in")
				return
			}
			h.logger.Error("session check failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, internalErrorMessage)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionKey, session)))
	})
}

// RequirePage guards HTML pages, sending anonymous visitors to the login page.
func (h *APIHandler) RequirePage(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, err := h.currentSession(r)
		if err != nil {
			if !errors.Is(err, core.ErrNotAuthenticated) {
				h.logger.Error("session check failed", zap.Error(err))
			}
			http.Redirect(w, r, "/", http.StatusFound)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionKey, session)))
	})
}

func (h *APIHandler) startSession(w http.ResponseWriter, userID int64, name string) error {
	token, session, err := h.sessions.Issue(userID, name)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		MaxAge:   int(h.sessions.TTL().Seconds()),
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func (h *APIHandler) clearSession(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}
