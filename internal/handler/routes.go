package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// RouterOptions carries the transport settings of the router.
type RouterOptions struct {
	RequestTimeout     time.Duration
	CORSAllowedOrigins []string
}

// NewRouter wires every route to its ordered list of stages.
func NewRouter(h *Handler, logger *slog.Logger, opts RouterOptions) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(logger))
	r.Use(middleware.Recoverer)
	if opts.RequestTimeout > 0 {
		r.Use(middleware.Timeout(opts.RequestTimeout))
	}
	if len(opts.CORSAllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   opts.CORSAllowedOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost},
			AllowedHeaders:   []string{"Content-Type"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	anyone := []Stage{ParseCookies, h.ResolveUser}
	signedIn := []Stage{ParseCookies, h.ResolveUser, RequireAuth}

	r.Method(http.MethodGet, "/ping", h.Chain(h.Ping))
	r.Method(http.MethodGet, "/", h.Chain(append(anyone, h.Home)...))
	r.Method(http.MethodGet, "/signup", h.Chain(h.SignUpForm))
	r.Method(http.MethodGet, "/signin", h.Chain(h.SignInForm))
	r.Method(http.MethodPost, "/users", h.Chain(h.CreateUser))
	r.Method(http.MethodPost, "/sessions", h.Chain(h.CreateSession))
	r.Method(http.MethodPost, "/signout", h.Chain(ParseCookies, h.SignOut))

	r.Method(http.MethodPost, "/tweets", h.Chain(append(signedIn, h.CreateTweet)...))
	r.Method(http.MethodGet, "/tweets/{id}", h.Chain(append(anyone, h.SingleTweet)...))
	r.Method(http.MethodPost, "/tweets/{id}/likes", h.Chain(append(signedIn, h.Like)...))
	r.Method(http.MethodPost, "/tweets/{id}/unlike", h.Chain(append(signedIn, h.Unlike)...))
	r.Method(http.MethodPost, "/tweets/{id}/retweets", h.Chain(append(signedIn, h.Retweet)...))
	r.Method(http.MethodPost, "/tweets/{id}/unretweet", h.Chain(append(signedIn, h.Unretweet)...))
	r.Method(http.MethodGet, "/tweets/{id}/replies", h.Chain(append(signedIn, h.ReplyForm)...))
	r.Method(http.MethodPost, "/tweets/{id}/replies", h.Chain(append(signedIn, h.CreateReply)...))

	r.Method(http.MethodPost, "/users/{username}/follow", h.Chain(append(signedIn, h.Follow)...))
	r.Method(http.MethodPost, "/users/{username}/unfollow", h.Chain(append(signedIn, h.Unfollow)...))

	return r
}
