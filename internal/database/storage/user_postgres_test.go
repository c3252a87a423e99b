package storage

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezm/brutalist-twitter/internal/domain"
)

func TestCreateUserAndLookup(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.users.CreateUser(ctx, "Alice", "$argon2id$hash")
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)

	for _, name := range []string{"Alice", "alice", "ALICE"} {
		got, err := f.users.GetUserByUsername(ctx, name)
		require.NoError(t, err, name)
		assert.Equal(t, created.ID, got.ID)
		assert.Equal(t, "Alice", got.Username)
		assert.Equal(t, "$argon2id$hash", got.PasswordHash)
	}

	byID, err := f.users.GetUserByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Username, byID.Username)
	assert.True(t, created.CreatedAt.Equal(byID.CreatedAt))
}

func TestCreateUserConflictIgnoresCase(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.user(t, "bob")

	_, err := f.users.CreateUser(ctx, "BoB", "other")
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = f.users.CreateUser(ctx, "bob", "other")
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestGetUserNotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.users.GetUserByID(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.users.GetUserByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
