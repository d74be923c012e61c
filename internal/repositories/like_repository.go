package repositories

import (
	"context"

	"github.com/anonto42/nano-social/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LikeRepository defines the interface for post like operations
type LikeRepository interface {
	LikePost(ctx context.Context, postID, userID uint) (*models.Post, error)
	UnlikePost(ctx context.Context, postID, userID uint) (*models.Post, error)
	GetLikedPostIDs(ctx context.Context, userID uint, postIDs []uint) (map[uint]bool, error)
	GetLikers(ctx context.Context, postID uint, page models.Page) ([]models.User, int64, error)
}

// PostgresLikeRepository implements LikeRepository for PostgreSQL
type PostgresLikeRepository struct {
	db *gorm.DB
}

// NewPostgresLikeRepository creates a new PostgresLikeRepository
func NewPostgresLikeRepository(db *gorm.DB) *PostgresLikeRepository {
	return &PostgresLikeRepository{db: db}
}

// LikePost creates the like edge and increments likes_count in one transaction.
// It returns ErrNotFound for a missing post and ErrConflict when the edge exists.
func (r *PostgresLikeRepository) LikePost(ctx context.Context, postID, userID uint) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Select("id").First(&post, postID).Error; err != nil {
			return err
		}
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.Like{PostID: postID, UserID: userID})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.ErrConflict
		}
		if err := tx.Model(&models.Post{}).Where("id = ?", postID).
			UpdateColumn("likes_count", gorm.Expr("likes_count + ?", 1)).Error; err != nil {
			return err
		}
		return tx.First(&post, postID).Error
	})
	if err != nil {
		return nil, translate("like post", err)
	}
	return &post, nil
}

// UnlikePost deletes the like edge and decrements likes_count in one transaction.
// A missing edge is ErrNotFound and leaves the counter untouched.
func (r *PostgresLikeRepository) UnlikePost(ctx context.Context, postID, userID uint) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("post_id = ? AND user_id = ?", postID, userID).Delete(&models.Like{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		if err := tx.Model(&models.Post{}).Where("id = ?", postID).
			UpdateColumn("likes_count", gorm.Expr("likes_count - ?", 1)).Error; err != nil {
			return err
		}
		return tx.First(&post, postID).Error
	})
	if err != nil {
		return nil, translate("unlike post", err)
	}
	return &post, nil
}

// GetLikedPostIDs returns which of postIDs the user has liked, in one query
func (r *PostgresLikeRepository) GetLikedPostIDs(ctx context.Context, userID uint, postIDs []uint) (map[uint]bool, error) {
	result := make(map[uint]bool, len(postIDs))
	if len(postIDs) == 0 {
		return result, nil
	}
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.Like{}).
		Where("user_id = ? AND post_id IN ?", userID, postIDs).
		Pluck("post_id", &ids).Error
	if err != nil {
		return nil, translate("get liked posts", err)
	}
	for _, id := range ids {
		result[id] = true
	}
	return result, nil
}

// GetLikers returns a page of users who liked a post, most recent first
func (r *PostgresLikeRepository) GetLikers(ctx context.Context, postID uint, page models.Page) ([]models.User, int64, error) {
	db := r.db.WithContext(ctx)

	var total int64
	if err := db.Model(&models.Like{}).Where("post_id = ?", postID).Count(&total).Error; err != nil {
		return nil, 0, translate("count likers", err)
	}

	var users []models.User
	err := db.Model(&models.User{}).
		Joins("JOIN likes ON likes.user_id = users.id").
		Where("likes.post_id = ?", postID).
		Order("likes.created_at DESC, likes.id DESC").
		Offset(page.Offset()).Limit(page.Limit).
		Find(&users).Error
	if err != nil {
		return nil, 0, translate("list likers", err)
	}
	return users, total, nil
}
