package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/trezm/brutalist-twitter/internal/core/ports"
	"github.com/trezm/brutalist-twitter/internal/domain"
)

// GraphUseCase manages follow relationships, addressed by username.
type GraphUseCase interface {
	Follow(ctx context.Context, followerID uuid.UUID, username string) error
	Unfollow(ctx context.Context, followerID uuid.UUID, username string) error
	Stats(ctx context.Context, userID uuid.UUID) (*domain.FollowStats, error)
	IsFollowing(ctx context.Context, followerID, followingID uuid.UUID) (bool, error)
}

type graphUseCase struct {
	users   ports.UserStorage
	follows ports.FollowStorage
	logger  *slog.Logger
}

func NewGraphUseCase(users ports.UserStorage, follows ports.FollowStorage, logger *slog.Logger) GraphUseCase {
	return &graphUseCase{users: users, follows: follows, logger: logger}
}

func (uc *graphUseCase) Follow(ctx context.Context, followerID uuid.UUID, username string) error {
	target, err := uc.users.GetUserByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("usecase: follow %q: %w", username, err)
	}
	if target.ID == followerID {
		return domain.ErrSelfFollow
	}

	if _, err := uc.follows.CreateFollow(ctx, followerID, target.ID); err != nil {
		return fmt.Errorf("usecase: follow %q: %w", username, err)
	}
	return nil
}

func (uc *graphUseCase) Unfollow(ctx context.Context, followerID uuid.UUID, username string) error {
	target, err := uc.users.GetUserByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("usecase: unfollow %q: %w", username, err)
	}

	if err := uc.follows.DeleteFollow(ctx, followerID, target.ID); err != nil {
		return fmt.Errorf("usecase: unfollow %q: %w", username, err)
	}
	return nil
}

func (uc *graphUseCase) Stats(ctx context.Context, userID uuid.UUID) (*domain.FollowStats, error) {
	followers, err := uc.follows.CountFollowers(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("usecase: count followers: %w", err)
	}
	following, err := uc.follows.CountFollowing(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("usecase: count following: %w", err)
	}
	return &domain.FollowStats{Followers: followers, Following: following}, nil
}

func (uc *graphUseCase) IsFollowing(ctx context.Context, followerID, followingID uuid.UUID) (bool, error) {
	return uc.follows.IsFollowing(ctx, followerID, followingID)
}
