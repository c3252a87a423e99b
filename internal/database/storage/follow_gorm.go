package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/trezm/brutalist-twitter/internal/domain"
)

// FollowStorage implements ports.FollowStorage with GORM.
type FollowStorage struct {
	db     *gorm.DB
	logger *slog.Logger
	now    func() time.Time
}

func NewFollowStorage(db *gorm.DB, logger *slog.Logger) *FollowStorage {
	return &FollowStorage{db: db, logger: logger, now: now}
}

// CreateFollow adds the edge follower -> following. An existing edge yields domain.ErrConflict.
func (s *FollowStorage) CreateFollow(ctx context.Context, followerID, followingID uuid.UUID) (*domain.Follow, error) {
	if followerID == followingID {
		return nil, domain.ErrSelfFollow
	}

	follow := domain.Follow{FollowerID: followerID, FollowingID: followingID, CreatedAt: s.now()}

	result := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&follow)
	if result.Error != nil {
		s.logger.Error("failed to create follow", "follower_id", followerID, "following_id", followingID, "error", result.Error)
		return nil, fmt.Errorf("create follow: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, fmt.Errorf("follow %s -> %s: %w", followerID, followingID, domain.ErrConflict)
	}

	s.logger.Info("follow created", "follower_id", followerID, "following_id", followingID)
	return &follow, nil
}

func (s *FollowStorage) DeleteFollow(ctx context.Context, followerID, followingID uuid.UUID) error {
	result := s.db.WithContext(ctx).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Delete(&domain.Follow{})
	if result.Error != nil {
		s.logger.Error("failed to delete follow", "follower_id", followerID, "following_id", followingID, "error", result.Error)
		return fmt.Errorf("delete follow: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("follow %s -> %s: %w", followerID, followingID, domain.ErrNotFound)
	}

	s.logger.Info("follow deleted", "follower_id", followerID, "following_id", followingID)
	return nil
}

func (s *FollowStorage) IsFollowing(ctx context.Context, followerID, followingID uuid.UUID) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).
		Model(&domain.Follow{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("check follow: %w", err)
	}
	return n > 0, nil
}

func (s *FollowStorage) CountFollowers(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.count(ctx, "following_id = ?", userID)
}

func (s *FollowStorage) CountFollowing(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.count(ctx, "follower_id = ?", userID)
}

func (s *FollowStorage) count(ctx context.Context, where string, userID uuid.UUID) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&domain.Follow{}).Where(where, userID).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count follows: %w", err)
	}
	return n, nil
}
