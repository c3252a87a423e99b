// Package storagetest opens throwaway SQLite databases carrying the
// application schema so storage code can be exercised without PostgreSQL.
package storagetest

import (
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/trezm/brutalist-twitter/internal/database/client"
)

// schema mirrors migrations/sql/000001_init.up.sql in SQLite types.
// TIMESTAMP columns are what go-sqlite3 scans back into time.Time.
const schema = `
CREATE TABLE users (
    id         TEXT PRIMARY KEY,
    username   TEXT NOT NULL,
    password   TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL
);
CREATE UNIQUE INDEX users_username_lower_key ON users (LOWER(username));

CREATE TABLE sessions (
    id         TEXT PRIMARY KEY,
    token      TEXT NOT NULL UNIQUE,
    user_id    TEXT NOT NULL REFERENCES users (id) ON DELETE CASCADE,
    created_at TIMESTAMP NOT NULL
);

CREATE TABLE tweets (
    id            TEXT PRIMARY KEY,
    user_id       TEXT NOT NULL REFERENCES users (id) ON DELETE CASCADE,
    responding_to TEXT REFERENCES tweets (id) ON DELETE CASCADE,
    content       TEXT NOT NULL CHECK (length(content) BETWEEN 1 AND 280),
    like_count    INTEGER NOT NULL DEFAULT 0 CHECK (like_count >= 0),
    retweet_count INTEGER NOT NULL DEFAULT 0 CHECK (retweet_count >= 0),
    reply_count   INTEGER NOT NULL DEFAULT 0 CHECK (reply_count >= 0),
    created_at    TIMESTAMP NOT NULL,
    updated_at    TIMESTAMP NOT NULL
);

CREATE TABLE likes (
    tweet_id   TEXT NOT NULL REFERENCES tweets (id) ON DELETE CASCADE,
    user_id    TEXT NOT NULL REFERENCES users (id) ON DELETE CASCADE,
    created_at TIMESTAMP NOT NULL,
    PRIMARY KEY (tweet_id, user_id)
);

CREATE TABLE retweets (
    tweet_id   TEXT NOT NULL REFERENCES tweets (id) ON DELETE CASCADE,
    user_id    TEXT NOT NULL REFERENCES users (id) ON DELETE CASCADE,
    created_at TIMESTAMP NOT NULL,
    PRIMARY KEY (tweet_id, user_id)
);

CREATE TABLE follows (
    follower_id  TEXT NOT NULL REFERENCES users (id) ON DELETE CASCADE,
    following_id TEXT NOT NULL REFERENCES users (id) ON DELETE CASCADE,
    created_at   TIMESTAMP NOT NULL,
    PRIMARY KEY (follower_id, following_id),
    CHECK (follower_id <> following_id)
);
`

// NewDB returns a sqlx handle on a fresh SQLite file with the schema applied.
// A single connection serialises access the way a transaction would.
func NewDB(t *testing.T) *sqlx.DB {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "test.db") + "?_foreign_keys=on&_busy_timeout=5000"
	db, err := sqlx.Open("sqlite3", dsn)
	require.NoError(t, err)
	db.SetMaxOpenConns(1)

	_, err = db.Exec(schema)
	require.NoError(t, err)

	t.Cleanup(func() { _ = db.Close() })
	return db
}

// NewGorm attaches GORM to the same connection pool as db.
func NewGorm(t *testing.T, db *sqlx.DB) *gorm.DB {
	t.Helper()

	gdb, err := client.OpenGorm(&sqlite.Dialector{DriverName: sqlite.DriverName, Conn: db.DB})
	require.NoError(t, err)
	return gdb
}

// Clock hands out strictly increasing timestamps, one step apart.
type Clock struct {
	mu   sync.Mutex
	t    time.Time
	step time.Duration
}

func NewClock() *Clock {
	return &Clock{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC), step: time.Second}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(c.step)
	return c.t
}

// Peek returns the last handed out time without advancing.
func (c *Clock) Peek() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}
