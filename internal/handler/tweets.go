package handler

import (
	"context"

	"github.com/google/uuid"
)

// CreateTweet posts a top-level tweet and redirects home.
func (h *Handler) CreateTweet(rc *RequestContext) *HTTPError {
	form, herr := parseForm(rc, "content")
	if herr != nil {
		return herr
	}

	if _, err := h.tweets.Post(rc.Context(), rc.User.ID, form["content"]); err != nil {
		return fail(err)
	}
	return redirect(rc, "/")
}

// CreateReply answers the tweet in the path and redirects home.
func (h *Handler) CreateReply(rc *RequestContext) *HTTPError {
	id, herr := tweetID(rc)
	if herr != nil {
		return herr
	}
	form, herr := parseForm(rc, "content")
	if herr != nil {
		return herr
	}

	if _, err := h.tweets.Reply(rc.Context(), rc.User.ID, id, form["content"]); err != nil {
		return fail(err)
	}
	return redirect(rc, "/")
}

func (h *Handler) Like(rc *RequestContext) *HTTPError {
	return h.engage(rc, h.tweets.Like)
}

func (h *Handler) Unlike(rc *RequestContext) *HTTPError {
	return h.engage(rc, h.tweets.Unlike)
}

func (h *Handler) Retweet(rc *RequestContext) *HTTPError {
	return h.engage(rc, h.tweets.Retweet)
}

func (h *Handler) Unretweet(rc *RequestContext) *HTTPError {
	return h.engage(rc, h.tweets.Unretweet)
}

// engage applies a like/retweet style action and sends the browser back
// to the page it came from.
func (h *Handler) engage(rc *RequestContext, action func(ctx context.Context, tweetID, userID uuid.UUID) error) *HTTPError {
	id, herr := tweetID(rc)
	if herr != nil {
		return herr
	}

	if err := action(rc.Context(), id, rc.User.ID); err != nil {
		return fail(err)
	}
	return redirect(rc, refererTarget(rc.R))
}
