package handler

import (
	"github.com/go-chi/chi/v5"
)

// CreateUser registers an account, opens a session and redirects home.
func (h *Handler) CreateUser(rc *RequestContext) *HTTPError {
	form, herr := parseForm(rc, "username", "password")
	if herr != nil {
		return herr
	}

	_, session, err := h.auth.SignUp(rc.Context(), form["username"], form["password"])
	if err != nil {
		return fail(err)
	}

	h.setSessionCookie(rc.W, session)
	return redirect(rc, "/")
}

// CreateSession signs in. Bad credentials are answered with 401.
func (h *Handler) CreateSession(rc *RequestContext) *HTTPError {
	form, herr := parseForm(rc, "username", "password")
	if herr != nil {
		return herr
	}

	_, session, err := h.auth.SignIn(rc.Context(), form["username"], form["password"])
	if err != nil {
		return fail(err)
	}

	h.setSessionCookie(rc.W, session)
	return redirect(rc, "/")
}

// SignOut revokes the session server-side and clears the cookie.
func (h *Handler) SignOut(rc *RequestContext) *HTTPError {
	if err := h.auth.SignOut(rc.Context(), rc.Cookies[SessionCookieName]); err != nil {
		return fail(err)
	}

	h.clearSessionCookie(rc.W)
	return redirect(rc, "/")
}

func (h *Handler) Follow(rc *RequestContext) *HTTPError {
	if err := h.graph.Follow(rc.Context(), rc.User.ID, chi.URLParam(rc.R, "username")); err != nil {
		return fail(err)
	}
	return redirect(rc, refererTarget(rc.R))
}

func (h *Handler) Unfollow(rc *RequestContext) *HTTPError {
	if err := h.graph.Unfollow(rc.Context(), rc.User.ID, chi.URLParam(rc.R, "username")); err != nil {
		return fail(err)
	}
	return redirect(rc, refererTarget(rc.R))
}
