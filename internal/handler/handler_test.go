package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezm/brutalist-twitter/internal/credential"
	"github.com/trezm/brutalist-twitter/internal/database/storage"
	"github.com/trezm/brutalist-twitter/internal/database/storagetest"
	"github.com/trezm/brutalist-twitter/internal/logger"
	"github.com/trezm/brutalist-twitter/internal/messaging"
	"github.com/trezm/brutalist-twitter/internal/usecase"
)

type server struct {
	router http.Handler
	tweets usecase.TweetUseCase
}

func newServer(t *testing.T) *server {
	t.Helper()

	db := storagetest.NewDB(t)
	log := logger.Discard()
	tx := storage.NewTransactor(db)
	users := storage.NewUserStorage(db, log)

	hasher := credential.NewHasher(credential.Params{Memory: 64, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32})
	auth := usecase.NewAuthUseCase(users, storage.NewSessionStorage(db, log), hasher, time.Hour, log)
	tweets := usecase.NewTweetUseCase(
		storage.NewTweetStorage(db, tx, log),
		storage.NewLikeStorage(tx, log),
		storage.NewRetweetStorage(tx, log),
		messaging.NewNopPublisher(log),
		log,
	)
	graph := usecase.NewGraphUseCase(users, storage.NewFollowStorage(storagetest.NewGorm(t, db), log), log)

	h := NewHandler(auth, tweets, graph, false, log)
	return &server{
		router: NewRouter(h, log, RouterOptions{}),
		tweets: tweets,
	}
}

type request struct {
	method  string
	path    string
	form    url.Values
	session *http.Cookie
	referer string
}

func (s *server) do(t *testing.T, req request) *httptest.ResponseRecorder {
	t.Helper()

	var r *http.Request
	if req.form != nil {
		r = httptest.NewRequest(req.method, req.path, strings.NewReader(req.form.Encode()))
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		r = httptest.NewRequest(req.method, req.path, nil)
	}
	if req.session != nil {
		r.AddCookie(req.session)
	}
	if req.referer != "" {
		r.Header.Set("Referer", req.referer)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, r)
	return w
}

func sessionCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == SessionCookieName {
			return c
		}
	}
	return nil
}

// signUp registers a user and returns its session cookie.
func (s *server) signUp(t *testing.T, username string) *http.Cookie {
	t.Helper()

	w := s.do(t, request{
		method: http.MethodPost,
		path:   "/users",
		form:   url.Values{"username": {username}, "password": {"hunter2"}},
	})
	require.Equal(t, http.StatusFound, w.Code)
	c := sessionCookie(w)
	require.NotNil(t, c)
	return c
}

func (s *server) post(t *testing.T, session *http.Cookie, content string) uuid.UUID {
	t.Helper()

	w := s.do(t, request{method: http.MethodPost, path: "/tweets", form: url.Values{"content": {content}}, session: session})
	require.Equal(t, http.StatusFound, w.Code)

	feed, err := s.tweets.Feed(context.Background(), nil, nil)
	require.NoError(t, err)
	require.NotEmpty(t, feed)
	require.Equal(t, content, feed[0].Content)
	return feed[0].ID
}

func TestPing(t *testing.T) {
	s := newServer(t)

	w := s.do(t, request{method: http.MethodGet, path: "/ping"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())
}

func TestSignUpSetsSessionCookie(t *testing.T) {
	s := newServer(t)

	w := s.do(t, request{
		method: http.MethodPost,
		path:   "/users",
		form:   url.Values{"username": {"alice"}, "password": {"hunter2"}},
	})

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	c := sessionCookie(w)
	require.NotNil(t, c)
	assert.Len(t, c.Value, 64)
	assert.True(t, c.HttpOnly)
	assert.Equal(t, "/", c.Path)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
	assert.False(t, c.Expires.IsZero())
}

func TestSignUpDuplicateUsername(t *testing.T) {
	s := newServer(t)
	s.signUp(t, "alice")

	w := s.do(t, request{
		method: http.MethodPost,
		path:   "/users",
		form:   url.Values{"username": {"ALICE"}, "password": {"other"}},
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Nil(t, sessionCookie(w))
}

func TestHomeShowsSignedInUser(t *testing.T) {
	s := newServer(t)

	anon := s.do(t, request{method: http.MethodGet, path: "/"})
	require.Equal(t, http.StatusOK, anon.Code)
	assert.Contains(t, anon.Body.String(), `href="/signin"`)

	session := s.signUp(t, "alice")
	w := s.do(t, request{method: http.MethodGet, path: "/", session: session})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "alice")
	assert.Contains(t, w.Body.String(), `action="/tweets"`)
}

func TestNewTweetAppearsFirst(t *testing.T) {
	s := newServer(t)
	session := s.signUp(t, "alice")

	s.post(t, session, "first")
	s.post(t, session, "second")

	w := s.do(t, request{method: http.MethodGet, path: "/", session: session})
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Less(t, strings.Index(body, "second"), strings.Index(body, "first"))
}

func TestSignIn(t *testing.T) {
	s := newServer(t)
	s.signUp(t, "alice")

	cases := []struct {
		name     string
		username string
		password string
		status   int
	}{
		{"valid", "alice", "hunter2", http.StatusFound},
		{"wrong password", "alice", "nope", http.StatusUnauthorized},
		{"unknown user", "bob", "hunter2", http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := s.do(t, request{
				method: http.MethodPost,
				path:   "/sessions",
				form:   url.Values{"username": {tc.username}, "password": {tc.password}},
			})
			assert.Equal(t, tc.status, w.Code)
			if tc.status == http.StatusFound {
				assert.NotNil(t, sessionCookie(w))
			} else {
				assert.Nil(t, sessionCookie(w))
			}
		})
	}
}

func TestProtectedRoutesRequireSession(t *testing.T) {
	s := newServer(t)
	id := uuid.NewString()

	cases := []request{
		{method: http.MethodPost, path: "/tweets", form: url.Values{"content": {"hi"}}},
		{method: http.MethodPost, path: "/tweets/" + id + "/likes", form: url.Values{}},
		{method: http.MethodPost, path: "/tweets/" + id + "/retweets", form: url.Values{}},
		{method: http.MethodGet, path: "/tweets/" + id + "/replies"},
		{method: http.MethodPost, path: "/tweets/" + id + "/replies", form: url.Values{"content": {"hi"}}},
		{method: http.MethodPost, path: "/users/alice/follow", form: url.Values{}},
	}
	for _, req := range cases {
		t.Run(req.method+" "+req.path, func(t *testing.T) {
			w := s.do(t, req)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, "Unauthorized", w.Body.String())
		})
	}
}

func TestUnknownSessionIsClearedAndAnonymous(t *testing.T) {
	s := newServer(t)

	w := s.do(t, request{
		method:  http.MethodGet,
		path:    "/",
		session: &http.Cookie{Name: SessionCookieName, Value: "bogus"},
	})
	require.Equal(t, http.StatusOK, w.Code)

	c := sessionCookie(w)
	require.NotNil(t, c)
	assert.Empty(t, c.Value)
	assert.Equal(t, -1, c.MaxAge)
	assert.Contains(t, w.Body.String(), `href="/signin"`)
}

func TestLikeRedirectsToReferer(t *testing.T) {
	s := newServer(t)
	session := s.signUp(t, "alice")
	id := s.post(t, session, "hello")

	cases := []struct {
		name     string
		verb     string
		referer  string
		location string
	}{
		{"no referer", "likes", "", "/"},
		{"same host", "unlike", "http://example.com/tweets/" + id.String(), "http://example.com/tweets/" + id.String()},
		{"relative", "retweets", "/tweets/abc", "/tweets/abc"},
		{"foreign host", "unretweet", "https://evil.example.org/", "/"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := s.do(t, request{
				method:  http.MethodPost,
				path:    "/tweets/" + id.String() + "/" + tc.verb,
				form:    url.Values{},
				session: session,
				referer: tc.referer,
			})
			assert.Equal(t, http.StatusFound, w.Code)
			assert.Equal(t, tc.location, w.Header().Get("Location"))
		})
	}
}

func TestEngagementConflictsAndMissing(t *testing.T) {
	s := newServer(t)
	session := s.signUp(t, "alice")
	id := s.post(t, session, "hello")
	likes := "/tweets/" + id.String() + "/likes"

	first := s.do(t, request{method: http.MethodPost, path: likes, form: url.Values{}, session: session})
	require.Equal(t, http.StatusFound, first.Code)

	again := s.do(t, request{method: http.MethodPost, path: likes, form: url.Values{}, session: session})
	assert.Equal(t, http.StatusConflict, again.Code)

	unretweet := s.do(t, request{method: http.MethodPost, path: "/tweets/" + id.String() + "/unretweet", form: url.Values{}, session: session})
	assert.Equal(t, http.StatusNotFound, unretweet.Code)

	got, err := s.tweets.Get(context.Background(), id, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 1, got.LikeCount)
}

func TestMalformedForm(t *testing.T) {
	s := newServer(t)
	session := s.signUp(t, "alice")

	cases := []request{
		{method: http.MethodPost, path: "/users", form: url.Values{"username": {"bob"}}},
		{method: http.MethodPost, path: "/sessions", form: url.Values{"password": {"x"}}},
		{method: http.MethodPost, path: "/tweets", form: url.Values{"body": {"hi"}}, session: session},
		{method: http.MethodPost, path: "/tweets", form: url.Values{"content": {"   "}}, session: session},
		{method: http.MethodPost, path: "/tweets", form: url.Values{"content": {strings.Repeat("a", 281)}}, session: session},
	}
	for _, req := range cases {
		w := s.do(t, req)
		assert.Equal(t, http.StatusBadRequest, w.Code, "%s %v", req.path, req.form)
	}
}

func TestUnknownTweet(t *testing.T) {
	s := newServer(t)
	session := s.signUp(t, "alice")

	for _, path := range []string{"/tweets/not-a-uuid", "/tweets/" + uuid.NewString()} {
		w := s.do(t, request{method: http.MethodGet, path: path})
		assert.Equal(t, http.StatusNotFound, w.Code, path)
	}

	w := s.do(t, request{
		method:  http.MethodPost,
		path:    "/tweets/" + uuid.NewString() + "/likes",
		form:    url.Values{},
		session: session,
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBadCursor(t *testing.T) {
	s := newServer(t)

	w := s.do(t, request{method: http.MethodGet, path: "/?before=yesterday"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReplyFlow(t *testing.T) {
	s := newServer(t)
	alice := s.signUp(t, "alice")
	bob := s.signUp(t, "bob")
	id := s.post(t, alice, "root tweet")

	form := s.do(t, request{method: http.MethodGet, path: "/tweets/" + id.String() + "/replies", session: bob})
	require.Equal(t, http.StatusOK, form.Code)
	assert.Contains(t, form.Body.String(), "root tweet")

	w := s.do(t, request{
		method:  http.MethodPost,
		path:    "/tweets/" + id.String() + "/replies",
		form:    url.Values{"content": {"a reply"}},
		session: bob,
	})
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	page := s.do(t, request{method: http.MethodGet, path: "/tweets/" + id.String()})
	require.Equal(t, http.StatusOK, page.Code)
	assert.Contains(t, page.Body.String(), "a reply")

	home := s.do(t, request{method: http.MethodGet, path: "/"})
	assert.NotContains(t, home.Body.String(), "a reply")

	got, err := s.tweets.Get(context.Background(), id, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 1, got.ReplyCount)
}

func TestSignOutRevokesSession(t *testing.T) {
	s := newServer(t)
	session := s.signUp(t, "alice")

	w := s.do(t, request{method: http.MethodPost, path: "/signout", form: url.Values{}, session: session})
	require.Equal(t, http.StatusFound, w.Code)
	cleared := sessionCookie(w)
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)

	after := s.do(t, request{method: http.MethodPost, path: "/tweets", form: url.Values{"content": {"hi"}}, session: session})
	assert.Equal(t, http.StatusUnauthorized, after.Code)
}

func TestFollowFlow(t *testing.T) {
	s := newServer(t)
	alice := s.signUp(t, "alice")
	bob := s.signUp(t, "bob")
	id := s.post(t, alice, "follow me")
	page := "/tweets/" + id.String()

	w := s.do(t, request{method: http.MethodPost, path: "/users/alice/follow", form: url.Values{}, session: bob, referer: page})
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, page, w.Header().Get("Location"))

	again := s.do(t, request{method: http.MethodPost, path: "/users/alice/follow", form: url.Values{}, session: bob})
	assert.Equal(t, http.StatusConflict, again.Code)

	self := s.do(t, request{method: http.MethodPost, path: "/users/alice/follow", form: url.Values{}, session: alice})
	assert.Equal(t, http.StatusBadRequest, self.Code)

	missing := s.do(t, request{method: http.MethodPost, path: "/users/nobody/follow", form: url.Values{}, session: bob})
	assert.Equal(t, http.StatusNotFound, missing.Code)

	view := s.do(t, request{method: http.MethodGet, path: page, session: bob})
	require.Equal(t, http.StatusOK, view.Code)
	assert.Contains(t, view.Body.String(), "1 followers")
	assert.Contains(t, view.Body.String(), `action="/users/alice/unfollow"`)

	un := s.do(t, request{method: http.MethodPost, path: "/users/alice/unfollow", form: url.Values{}, session: bob})
	assert.Equal(t, http.StatusFound, un.Code)
}

func TestRefererTarget(t *testing.T) {
	cases := []struct {
		referer string
		want    string
	}{
		{"", "/"},
		{"/tweets/abc", "/tweets/abc"},
		{"http://example.com/?before=x", "http://example.com/?before=x"},
		{"https://other.test/", "/"},
		{"javascript:alert(1)", "/"},
		{"//other.test/x", "/"},
	}
	for _, tc := range cases {
		r := httptest.NewRequest(http.MethodPost, "http://example.com/tweets/x/likes", nil)
		if tc.referer != "" {
			r.Header.Set("Referer", tc.referer)
		}
		assert.Equal(t, tc.want, refererTarget(r), tc.referer)
	}
}
