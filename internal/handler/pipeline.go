package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/trezm/brutalist-twitter/internal/domain"
)

// RequestContext is the per-request state threaded through a route's stages.
// Stages may fill Cookies and User; only the terminal stage writes a body.
type RequestContext struct {
	W       http.ResponseWriter
	R       *http.Request
	Cookies map[string]string
	User    *domain.User
}

func (rc *RequestContext) Context() context.Context {
	return rc.R.Context()
}

// HTTPError stops the chain with the given status.
type HTTPError struct {
	Status int
	Err    error
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d %s: %v", e.Status, http.StatusText(e.Status), e.Err)
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

// Stage is one step of a route. A nil return continues with the next stage.
type Stage func(rc *RequestContext) *HTTPError

// Chain runs stages in order and stops at the first error, which is written
// to the client as a plain status response.
func (h *Handler) Chain(stages ...Stage) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rc := &RequestContext{W: w, R: r}
		for _, stage := range stages {
			if herr := stage(rc); herr != nil {
				h.respondWithError(rc, herr)
				return
			}
		}
	})
}
