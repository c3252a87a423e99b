package view

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezm/brutalist-twitter/internal/domain"
)

func tweetInfo(author *domain.User, content string) domain.TweetWithUserInfo {
	return domain.TweetWithUserInfo{
		Tweet: domain.Tweet{
			ID:        uuid.New(),
			UserID:    author.ID,
			Content:   content,
			LikeCount: 3,
			CreatedAt: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
		},
		Username: author.Username,
	}
}

func TestRenderHomeAnonymous(t *testing.T) {
	alice := &domain.User{ID: uuid.New(), Username: "alice"}

	out, err := Render(PageHome, FeedPage{Feed: []domain.TweetWithUserInfo{tweetInfo(alice, "<b>hi</b>")}})
	require.NoError(t, err)

	html := string(out)
	assert.Contains(t, html, "&lt;b&gt;hi&lt;/b&gt;")
	assert.Contains(t, html, "@alice")
	assert.Contains(t, html, `href="/signin"`)
	assert.NotContains(t, html, `action="/tweets"`)
	assert.NotContains(t, html, "/likes")
}

func TestRenderHomeSignedIn(t *testing.T) {
	alice := &domain.User{ID: uuid.New(), Username: "alice"}
	liked := tweetInfo(alice, "liked")
	liked.UserHasLiked = true
	next := liked.CreatedAt

	out, err := Render(PageHome, FeedPage{User: alice, Feed: []domain.TweetWithUserInfo{liked}, NextBefore: &next})
	require.NoError(t, err)

	html := string(out)
	assert.Contains(t, html, "signed in as <b>alice</b>")
	assert.Contains(t, html, `action="/tweets"`)
	assert.Contains(t, html, fmt.Sprintf(`action="/tweets/%s/unlike"`, liked.ID))
	assert.Contains(t, html, fmt.Sprintf(`action="/tweets/%s/retweets"`, liked.ID))
	assert.Contains(t, html, `href="/?before=2024-01-01T12`)
}

func TestRenderSingleTweetFollowButton(t *testing.T) {
	alice := &domain.User{ID: uuid.New(), Username: "alice"}
	bob := &domain.User{ID: uuid.New(), Username: "bob"}
	tw := tweetInfo(alice, "root")

	out, err := Render(PageSingleTweet, SingleTweetPage{
		User:        bob,
		Tweet:       tw,
		Replies:     []domain.TweetWithUserInfo{tweetInfo(bob, "answer")},
		AuthorStats: domain.FollowStats{Followers: 7, Following: 2},
	})
	require.NoError(t, err)
	html := string(out)
	assert.Contains(t, html, `action="/users/alice/follow"`)
	assert.Contains(t, html, "7 followers, 2 following")
	assert.Contains(t, html, "answer")

	// no follow button on your own tweet
	out, err = Render(PageSingleTweet, SingleTweetPage{User: alice, Tweet: tw})
	require.NoError(t, err)
	assert.NotContains(t, string(out), "/follow")
	assert.Contains(t, string(out), "no replies")
}

func TestRenderFormsAndReply(t *testing.T) {
	out, err := Render(PageSignUp, SignUpPage{})
	require.NoError(t, err)
	assert.Contains(t, string(out), `action="/users"`)

	out, err = Render(PageSignIn, SignInPage{})
	require.NoError(t, err)
	assert.Contains(t, string(out), `action="/sessions"`)

	alice := domain.User{ID: uuid.New(), Username: "alice"}
	tw := tweetInfo(&alice, "root")
	out, err = Render(PageReply, ReplyPage{User: alice, Tweet: tw})
	require.NoError(t, err)
	assert.Contains(t, string(out), fmt.Sprintf(`action="/tweets/%s/replies"`, tw.ID))
}

func TestRenderUnknownPage(t *testing.T) {
	_, err := Render("nope", nil)
	assert.Error(t, err)
}

func TestNextCursor(t *testing.T) {
	alice := &domain.User{ID: uuid.New(), Username: "alice"}
	page := []domain.TweetWithUserInfo{tweetInfo(alice, "a"), tweetInfo(alice, "b")}

	assert.Nil(t, NextCursor(page, 3))
	assert.Nil(t, NextCursor(nil, 0))
	require.NotNil(t, NextCursor(page, 2))
	assert.Equal(t, page[1].CreatedAt, *NextCursor(page, 2))
}
