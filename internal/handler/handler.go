package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/trezm/brutalist-twitter/internal/domain"
	"github.com/trezm/brutalist-twitter/internal/usecase"
	"github.com/trezm/brutalist-twitter/internal/view"
)

// maxFormBytes bounds urlencoded request bodies.
const maxFormBytes = 64 << 10

// Handler serves the HTML pages and form posts.
type Handler struct {
	auth          usecase.AuthUseCase
	tweets        usecase.TweetUseCase
	graph         usecase.GraphUseCase
	secureCookies bool
	logger        *slog.Logger
}

func NewHandler(
	auth usecase.AuthUseCase,
	tweets usecase.TweetUseCase,
	graph usecase.GraphUseCase,
	secureCookies bool,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		auth:          auth,
		tweets:        tweets,
		graph:         graph,
		secureCookies: secureCookies,
		logger:        logger,
	}
}

// fail maps a use case error onto an HTTP status.
func fail(err error) *HTTPError {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrSelfFollow):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrConflict):
		status = http.StatusConflict
	}
	return &HTTPError{Status: status, Err: err}
}

func badRequest(err error) *HTTPError {
	return &HTTPError{Status: http.StatusBadRequest, Err: err}
}

// respondWithError writes the status text as a minimal plain body.
func (h *Handler) respondWithError(rc *RequestContext, herr *HTTPError) {
	attrs := []any{
		"method", rc.R.Method,
		"path", rc.R.URL.Path,
		"status", herr.Status,
		"error", herr.Err,
	}
	if herr.Status >= http.StatusInternalServerError {
		h.logger.Error("request failed", attrs...)
	} else {
		h.logger.Warn("request rejected", attrs...)
	}

	rc.W.Header().Set("Content-Type", "text/plain; charset=utf-8")
	rc.W.Header().Set("X-Content-Type-Options", "nosniff")
	rc.W.WriteHeader(herr.Status)
	if _, err := rc.W.Write([]byte(http.StatusText(herr.Status))); err != nil {
		h.logger.Error("failed to write HTTP response", "error", err)
	}
}

// respondWithPage renders a view and writes it with 200.
func (h *Handler) respondWithPage(rc *RequestContext, page string, data any) *HTTPError {
	body, err := view.Render(page, data)
	if err != nil {
		return &HTTPError{Status: http.StatusInternalServerError, Err: err}
	}

	rc.W.Header().Set("Content-Type", "text/html; charset=utf-8")
	rc.W.WriteHeader(http.StatusOK)
	if _, err := rc.W.Write(body); err != nil {
		h.logger.Error("failed to write HTTP response", "page", page, "error", err)
	}
	return nil
}

func redirect(rc *RequestContext, to string) *HTTPError {
	http.Redirect(rc.W, rc.R, to, http.StatusFound)
	return nil
}

// refererTarget is where like and retweet send the browser back to: the
// Referer when it points at this host, "/" otherwise.
func refererTarget(r *http.Request) string {
	ref := r.Header.Get("Referer")
	if ref == "" {
		return "/"
	}

	u, err := url.Parse(ref)
	if err != nil {
		return "/"
	}
	if u.Scheme != "" && u.Scheme != "http" && u.Scheme != "https" {
		return "/"
	}
	if u.Host != "" && u.Host != r.Host {
		return "/"
	}
	if u.Host == "" && u.Scheme != "" {
		return "/"
	}
	return ref
}

// parseForm reads the urlencoded body and returns the required fields.
// A missing field is a malformed body.
func parseForm(rc *RequestContext, fields ...string) (map[string]string, *HTTPError) {
	rc.R.Body = http.MaxBytesReader(rc.W, rc.R.Body, maxFormBytes)
	if err := rc.R.ParseForm(); err != nil {
		return nil, badRequest(fmt.Errorf("parse form: %w", err))
	}

	values := make(map[string]string, len(fields))
	for _, f := range fields {
		v, ok := rc.R.PostForm[f]
		if !ok || len(v) == 0 {
			return nil, badRequest(fmt.Errorf("form field %q missing", f))
		}
		values[f] = v[0]
	}
	return values, nil
}

// tweetID parses the {id} route parameter. An unparsable id cannot name a tweet.
func tweetID(rc *RequestContext) (uuid.UUID, *HTTPError) {
	raw := chi.URLParam(rc.R, "id")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, &HTTPError{Status: http.StatusNotFound, Err: fmt.Errorf("tweet id %q: %w", raw, domain.ErrNotFound)}
	}
	return id, nil
}

// before parses the optional ?before= pagination cursor.
func before(rc *RequestContext) (*time.Time, *HTTPError) {
	raw := rc.R.URL.Query().Get("before")
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return nil, badRequest(fmt.Errorf("before %q: %w", raw, domain.ErrInvalidInput))
	}
	return &t, nil
}

func viewerID(u *domain.User) *uuid.UUID {
	if u == nil {
		return nil
	}
	id := u.ID
	return &id
}
