package usecase

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/trezm/brutalist-twitter/internal/credential"
	"github.com/trezm/brutalist-twitter/internal/database/storage"
	"github.com/trezm/brutalist-twitter/internal/database/storagetest"
	"github.com/trezm/brutalist-twitter/internal/logger"
	"github.com/trezm/brutalist-twitter/internal/messaging/payloads"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []payloads.EngagementPayload
}

func (p *recordingPublisher) PublishEngagement(_ context.Context, payload payloads.EngagementPayload) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, payload)
	return nil
}

func (p *recordingPublisher) Events() []payloads.EngagementPayload {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]payloads.EngagementPayload(nil), p.events...)
}

type env struct {
	users     *storage.UserStorage
	sessions  *storage.SessionStorage
	tweets    *storage.TweetStorage
	publisher *recordingPublisher
	auth      *authUseCase
	tweetUC   TweetUseCase
	graph     GraphUseCase
	audit     AuditUseCase
	exec      func(t *testing.T, query string, args ...any)
}

func newEnv(t *testing.T) *env {
	t.Helper()

	db := storagetest.NewDB(t)
	log := logger.Discard()
	tx := storage.NewTransactor(db)

	e := &env{
		users:     storage.NewUserStorage(db, log),
		sessions:  storage.NewSessionStorage(db, log),
		tweets:    storage.NewTweetStorage(db, tx, log),
		publisher: &recordingPublisher{},
	}

	hasher := credential.NewHasher(credential.Params{Memory: 64, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32})
	e.auth = NewAuthUseCase(e.users, e.sessions, hasher, testTTL, log).(*authUseCase)
	e.tweetUC = NewTweetUseCase(e.tweets, storage.NewLikeStorage(tx, log), storage.NewRetweetStorage(tx, log), e.publisher, log)
	e.graph = NewGraphUseCase(e.users, storage.NewFollowStorage(storagetest.NewGorm(t, db), log), log)
	e.audit = NewAuditUseCase(e.tweets, storage.NewCounterAudit(db), log)
	e.exec = func(t *testing.T, query string, args ...any) {
		t.Helper()
		_, err := db.Exec(query, args...)
		require.NoError(t, err)
	}
	return e
}
