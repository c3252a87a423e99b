package handler

import (
	"net/http"

	"github.com/trezm/brutalist-twitter/internal/domain"
	"github.com/trezm/brutalist-twitter/internal/view"
)

// Ping is the liveness probe.
func (h *Handler) Ping(rc *RequestContext) *HTTPError {
	rc.W.Header().Set("Content-Type", "text/plain; charset=utf-8")
	rc.W.WriteHeader(http.StatusOK)
	_, _ = rc.W.Write([]byte("pong"))
	return nil
}

// Home renders the timeline, personalised when a user is attached.
func (h *Handler) Home(rc *RequestContext) *HTTPError {
	cursor, herr := before(rc)
	if herr != nil {
		return herr
	}

	feed, err := h.tweets.Feed(rc.Context(), viewerID(rc.User), cursor)
	if err != nil {
		return fail(err)
	}

	return h.respondWithPage(rc, view.PageHome, view.FeedPage{
		User:       rc.User,
		Feed:       feed,
		NextBefore: view.NextCursor(feed, domain.FeedPageSize),
	})
}

func (h *Handler) SignUpForm(rc *RequestContext) *HTTPError {
	return h.respondWithPage(rc, view.PageSignUp, view.SignUpPage{})
}

func (h *Handler) SignInForm(rc *RequestContext) *HTTPError {
	return h.respondWithPage(rc, view.PageSignIn, view.SignInPage{})
}

// SingleTweet renders a tweet with its replies and its author's follow stats.
func (h *Handler) SingleTweet(rc *RequestContext) *HTTPError {
	id, herr := tweetID(rc)
	if herr != nil {
		return herr
	}
	cursor, herr := before(rc)
	if herr != nil {
		return herr
	}

	ctx := rc.Context()
	tweet, replies, err := h.tweets.Thread(ctx, id, viewerID(rc.User), cursor)
	if err != nil {
		return fail(err)
	}

	stats, err := h.graph.Stats(ctx, tweet.UserID)
	if err != nil {
		return fail(err)
	}

	follows := false
	if rc.User != nil && rc.User.ID != tweet.UserID {
		if follows, err = h.graph.IsFollowing(ctx, rc.User.ID, tweet.UserID); err != nil {
			return fail(err)
		}
	}

	return h.respondWithPage(rc, view.PageSingleTweet, view.SingleTweetPage{
		User:                rc.User,
		Tweet:               *tweet,
		Replies:             replies,
		AuthorStats:         *stats,
		ViewerFollowsAuthor: follows,
		NextBefore:          view.NextCursor(replies, domain.FeedPageSize),
	})
}

// ReplyForm renders the reply form for a tweet. Requires a signed-in user.
func (h *Handler) ReplyForm(rc *RequestContext) *HTTPError {
	id, herr := tweetID(rc)
	if herr != nil {
		return herr
	}

	tweet, err := h.tweets.Get(rc.Context(), id, viewerID(rc.User))
	if err != nil {
		return fail(err)
	}

	return h.respondWithPage(rc, view.PageReply, view.ReplyPage{User: *rc.User, Tweet: *tweet})
}
