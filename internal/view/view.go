// Package view renders the HTML pages from plain view-model structs.
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"time"

	"github.com/google/uuid"

	"github.com/trezm/brutalist-twitter/internal/domain"
)

//go:embed templates/*.html
var files embed.FS

// Page names accepted by Render.
const (
	PageHome        = "home"
	PageSignUp      = "signup"
	PageSignIn      = "signin"
	PageSingleTweet = "single_tweet"
	PageReply       = "reply"
)

// FeedPage is the view-model of the home timeline.
type FeedPage struct {
	User       *domain.User
	Feed       []domain.TweetWithUserInfo
	NextBefore *time.Time
}

type SignUpPage struct{}

type SignInPage struct{}

// SingleTweetPage shows one tweet, its author's graph stats and its replies.
type SingleTweetPage struct {
	User                *domain.User
	Tweet               domain.TweetWithUserInfo
	Replies             []domain.TweetWithUserInfo
	AuthorStats         domain.FollowStats
	ViewerFollowsAuthor bool
	NextBefore          *time.Time
}

// ReplyPage is the reply form. Only reachable when signed in.
type ReplyPage struct {
	User  domain.User
	Tweet domain.TweetWithUserInfo
}

var funcs = template.FuncMap{
	"cursor": func(t *time.Time) string {
		if t == nil {
			return ""
		}
		return t.UTC().Format(time.RFC3339Nano)
	},
	"stamp": func(t time.Time) string {
		return t.UTC().Format("2006-01-02 15:04")
	},
	"isSelf": func(viewer *domain.User, authorID uuid.UUID) bool {
		return viewer != nil && viewer.ID == authorID
	},
	// dict builds the argument map of a nested template call.
	"dict": func(kv ...any) (map[string]any, error) {
		if len(kv)%2 != 0 {
			return nil, fmt.Errorf("dict: odd number of arguments")
		}
		m := make(map[string]any, len(kv)/2)
		for i := 0; i < len(kv); i += 2 {
			key, ok := kv[i].(string)
			if !ok {
				return nil, fmt.Errorf("dict: key %v is not a string", kv[i])
			}
			m[key] = kv[i+1]
		}
		return m, nil
	},
}

var pages = map[string]*template.Template{}

func init() {
	for _, name := range []string{PageHome, PageSignUp, PageSignIn, PageSingleTweet, PageReply} {
		pages[name] = template.Must(template.New(name).Funcs(funcs).ParseFS(files,
			"templates/layout.html",
			"templates/tweet.html",
			"templates/"+name+".html",
		))
	}
}

// Render executes the named page with data and returns the HTML.
func Render(name string, data any) ([]byte, error) {
	t, ok := pages[name]
	if !ok {
		return nil, fmt.Errorf("view: unknown page %q", name)
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		return nil, fmt.Errorf("view: render %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

// NextCursor returns the created_at of the last tweet when the page is full,
// i.e. when another page may follow.
func NextCursor(tweets []domain.TweetWithUserInfo, pageSize int) *time.Time {
	if len(tweets) < pageSize || len(tweets) == 0 {
		return nil
	}
	t := tweets[len(tweets)-1].CreatedAt
	return &t
}
