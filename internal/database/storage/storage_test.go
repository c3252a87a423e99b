package storage

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/trezm/brutalist-twitter/internal/database/storagetest"
	"github.com/trezm/brutalist-twitter/internal/domain"
	"github.com/trezm/brutalist-twitter/internal/logger"
)

type fixture struct {
	db       *sqlx.DB
	clock    *storagetest.Clock
	tx       *Transactor
	users    *UserStorage
	sessions *SessionStorage
	tweets   *TweetStorage
	likes    *LikeStorage
	retweets *RetweetStorage
	follows  *FollowStorage
	audit    *CounterAudit
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := storagetest.NewDB(t)
	log := logger.Discard()
	clock := storagetest.NewClock()
	tx := NewTransactor(db)

	f := &fixture{
		db:       db,
		clock:    clock,
		tx:       tx,
		users:    NewUserStorage(db, log),
		sessions: NewSessionStorage(db, log),
		tweets:   NewTweetStorage(db, tx, log),
		likes:    NewLikeStorage(tx, log),
		retweets: NewRetweetStorage(tx, log),
		follows:  NewFollowStorage(storagetest.NewGorm(t, db), log),
		audit:    NewCounterAudit(db),
	}
	f.users.now = clock.Now
	f.sessions.now = clock.Now
	f.tweets.now = clock.Now
	f.likes.store.now = clock.Now
	f.retweets.store.now = clock.Now
	f.follows.now = clock.Now

	return f
}

func (f *fixture) user(t *testing.T, name string) *domain.User {
	t.Helper()
	u, err := f.users.CreateUser(context.Background(), name, "hash")
	require.NoError(t, err)
	return u
}

func (f *fixture) tweet(t *testing.T, author uuid.UUID, parent *uuid.UUID, content string) *domain.Tweet {
	t.Helper()
	tw, err := f.tweets.CreateTweet(context.Background(), author, parent, content)
	require.NoError(t, err)
	return tw
}
