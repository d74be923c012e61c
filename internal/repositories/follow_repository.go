package repositories

import (
	"context"

	"github.com/anonto42/nano-social/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FollowRepository defines the interface for follow operations
type FollowRepository interface {
	Follow(ctx context.Context, followerID, followingID uint) (bool, error)
	Unfollow(ctx context.Context, followerID, followingID uint) error
	IsFollowing(ctx context.Context, followerID, followingID uint) (bool, error)
	GetFollowingIDs(ctx context.Context, userID uint) ([]uint, error)
	GetFollowingSet(ctx context.Context, followerID uint, candidateIDs []uint) (map[uint]bool, error)
	GetFollowers(ctx context.Context, userID uint, page models.Page) ([]models.User, int64, error)
	GetFollowing(ctx context.Context, userID uint, page models.Page) ([]models.User, int64, error)
}

// PostgresFollowRepository implements FollowRepository for PostgreSQL
type PostgresFollowRepository struct {
	db *gorm.DB
}

// NewPostgresFollowRepository creates a new PostgresFollowRepository
func NewPostgresFollowRepository(db *gorm.DB) *PostgresFollowRepository {
	return &PostgresFollowRepository{db: db}
}

// Follow inserts the edge if absent. The unique index is the guard against
// concurrent duplicates; created is false when the edge already existed.
func (r *PostgresFollowRepository) Follow(ctx context.Context, followerID, followingID uint) (bool, error) {
	follow := models.Follow{FollowerID: followerID, FollowingID: followingID}
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&follow)
	if res.Error != nil {
		return false, translate("follow", res.Error)
	}
	return res.RowsAffected == 1, nil
}

// Unfollow removes the edge; ErrNotFound if it did not exist
func (r *PostgresFollowRepository) Unfollow(ctx context.Context, followerID, followingID uint) error {
	res := r.db.WithContext(ctx).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Delete(&models.Follow{})
	if res.Error != nil {
		return translate("unfollow", res.Error)
	}
	if res.RowsAffected == 0 {
		return translate("unfollow", gorm.ErrRecordNotFound)
	}
	return nil
}

// IsFollowing checks if a user is following another user
func (r *PostgresFollowRepository) IsFollowing(ctx context.Context, followerID, followingID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&count).Error
	if err != nil {
		return false, translate("is following", err)
	}
	return count > 0, nil
}

// GetFollowingIDs returns the IDs of accounts the user follows
func (r *PostgresFollowRepository) GetFollowingIDs(ctx context.Context, userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_id = ?", userID).
		Pluck("following_id", &ids).Error
	if err != nil {
		return nil, translate("get following ids", err)
	}
	return ids, nil
}

// GetFollowingSet reports, for each candidate, whether followerID follows them
func (r *PostgresFollowRepository) GetFollowingSet(ctx context.Context, followerID uint, candidateIDs []uint) (map[uint]bool, error) {
	result := make(map[uint]bool, len(candidateIDs))
	if len(candidateIDs) == 0 {
		return result, nil
	}
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_id = ? AND following_id IN ?", followerID, candidateIDs).
		Pluck("following_id", &ids).Error
	if err != nil {
		return nil, translate("get following set", err)
	}
	for _, id := range ids {
		result[id] = true
	}
	return result, nil
}

// GetFollowers returns a page of users following userID, most recent follows first
func (r *PostgresFollowRepository) GetFollowers(ctx context.Context, userID uint, page models.Page) ([]models.User, int64, error) {
	return r.pageUsers(ctx, "follows.follower_id", "follows.following_id = ?", userID, page)
}

// GetFollowing returns a page of users userID follows, most recent follows first
func (r *PostgresFollowRepository) GetFollowing(ctx context.Context, userID uint, page models.Page) ([]models.User, int64, error) {
	return r.pageUsers(ctx, "follows.following_id", "follows.follower_id = ?", userID, page)
}

func (r *PostgresFollowRepository) pageUsers(ctx context.Context, joinCol, where string, userID uint, page models.Page) ([]models.User, int64, error) {
	db := r.db.WithContext(ctx)

	var total int64
	if err := db.Model(&models.Follow{}).Where(where, userID).Count(&total).Error; err != nil {
		return nil, 0, translate("count follows", err)
	}

	var users []models.User
	err := db.Model(&models.User{}).
		Joins("JOIN follows ON users.id = "+joinCol).
		Where(where, userID).
		Order("follows.created_at DESC, follows.id DESC").
		Offset(page.Offset()).Limit(page.Limit).
		Find(&users).Error
	if err != nil {
		return nil, 0, translate("list follows", err)
	}
	return users, total, nil
}
