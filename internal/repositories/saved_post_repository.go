package repositories

import (
	"context"

	"github.com/anonto42/nano-social/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SavedPostRepository defines the interface for bookmark operations
type SavedPostRepository interface {
	SavePost(ctx context.Context, userID, postID uint) error
	UnsavePost(ctx context.Context, userID, postID uint) error
	GetSavedPostIDs(ctx context.Context, userID uint, postIDs []uint) (map[uint]bool, error)
	GetSavedPosts(ctx context.Context, userID uint, page models.Page) ([]models.Post, int64, error)
}

// PostgresSavedPostRepository implements SavedPostRepository for PostgreSQL
type PostgresSavedPostRepository struct {
	db *gorm.DB
}

// NewPostgresSavedPostRepository creates a new PostgresSavedPostRepository
func NewPostgresSavedPostRepository(db *gorm.DB) *PostgresSavedPostRepository {
	return &PostgresSavedPostRepository{db: db}
}

// SavePost bookmarks a post; ErrConflict if already saved
func (r *PostgresSavedPostRepository) SavePost(ctx context.Context, userID, postID uint) error {
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.SavedPost{UserID: userID, PostID: postID})
	if res.Error != nil {
		return translate("save post", res.Error)
	}
	if res.RowsAffected == 0 {
		return translate("save post", models.ErrConflict)
	}
	return nil
}

// UnsavePost removes a bookmark; ErrNotFound if it was not saved
func (r *PostgresSavedPostRepository) UnsavePost(ctx context.Context, userID, postID uint) error {
	res := r.db.WithContext(ctx).Where("user_id = ? AND post_id = ?", userID, postID).Delete(&models.SavedPost{})
	if res.Error != nil {
		return translate("unsave post", res.Error)
	}
	if res.RowsAffected == 0 {
		return translate("unsave post", gorm.ErrRecordNotFound)
	}
	return nil
}

// GetSavedPostIDs returns which of postIDs the user has saved
func (r *PostgresSavedPostRepository) GetSavedPostIDs(ctx context.Context, userID uint, postIDs []uint) (map[uint]bool, error) {
	result := make(map[uint]bool, len(postIDs))
	if len(postIDs) == 0 {
		return result, nil
	}
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.SavedPost{}).
		Where("user_id = ? AND post_id IN ?", userID, postIDs).
		Pluck("post_id", &ids).Error
	if err != nil {
		return nil, translate("get saved post ids", err)
	}
	for _, id := range ids {
		result[id] = true
	}
	return result, nil
}

// GetSavedPosts lists the user's bookmarks, most recently saved first
func (r *PostgresSavedPostRepository) GetSavedPosts(ctx context.Context, userID uint, page models.Page) ([]models.Post, int64, error) {
	db := r.db.WithContext(ctx)

	var total int64
	if err := db.Model(&models.SavedPost{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, translate("count saved posts", err)
	}

	var posts []models.Post
	err := db.Model(&models.Post{}).
		Joins("JOIN saved_posts ON saved_posts.post_id = posts.id").
		Where("saved_posts.user_id = ?", userID).
		Order("saved_posts.created_at DESC, saved_posts.id DESC").
		Offset(page.Offset()).Limit(page.Limit).
		Find(&posts).Error
	if err != nil {
		return nil, 0, translate("list saved posts", err)
	}
	return posts, total, nil
}
