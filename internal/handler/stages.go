package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/trezm/brutalist-twitter/internal/domain"
)

// SessionCookieName is the cookie carrying the session token.
const SessionCookieName = "Session"

var errUnauthorized = errors.New("authentication required")

// ParseCookies copies the request cookies into rc.Cookies.
func ParseCookies(rc *RequestContext) *HTTPError {
	cookies := rc.R.Cookies()
	rc.Cookies = make(map[string]string, len(cookies))
	for _, c := range cookies {
		if _, seen := rc.Cookies[c.Name]; !seen {
			rc.Cookies[c.Name] = c.Value
		}
	}
	return nil
}

// ResolveUser attaches the owner of the session cookie to rc.User. A token
// that no longer resolves is cleared on the client and the request continues
// anonymously; a storage failure aborts with 500.
func (h *Handler) ResolveUser(rc *RequestContext) *HTTPError {
	token := rc.Cookies[SessionCookieName]
	if token == "" {
		return nil
	}

	user, err := h.auth.ResolveSession(rc.Context(), token)
	if errors.Is(err, domain.ErrNotFound) {
		h.clearSessionCookie(rc.W)
		return nil
	}
	if err != nil {
		return &HTTPError{Status: http.StatusInternalServerError, Err: err}
	}

	rc.User = user
	return nil
}

// RequireAuth rejects anonymous requests with 401.
func RequireAuth(rc *RequestContext) *HTTPError {
	if rc.User == nil {
		return &HTTPError{Status: http.StatusUnauthorized, Err: errUnauthorized}
	}
	return nil
}

func (h *Handler) setSessionCookie(w http.ResponseWriter, s *domain.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    s.Token,
		Path:     "/",
		Expires:  s.ExpiresAt(h.auth.SessionTTL()),
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}
