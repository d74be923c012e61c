package repositories

import (
	"context"

	"github.com/anonto42/nano-social/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CommentLikeRepository defines the interface for comment like operations
type CommentLikeRepository interface {
	LikeComment(ctx context.Context, commentID, userID uint) (int64, error)
	UnlikeComment(ctx context.Context, commentID, userID uint) (int64, error)
	GetLikedCommentIDs(ctx context.Context, userID uint, commentIDs []uint) (map[uint]bool, error)
}

// PostgresCommentLikeRepository implements CommentLikeRepository for PostgreSQL
type PostgresCommentLikeRepository struct {
	db *gorm.DB
}

// NewPostgresCommentLikeRepository creates a new PostgresCommentLikeRepository
func NewPostgresCommentLikeRepository(db *gorm.DB) *PostgresCommentLikeRepository {
	return &PostgresCommentLikeRepository{db: db}
}

// LikeComment adds the edge and bumps likes_count; returns the new count
func (r *PostgresCommentLikeRepository) LikeComment(ctx context.Context, commentID, userID uint) (int64, error) {
	var comment models.Comment
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Select("id").First(&comment, commentID).Error; err != nil {
			return err
		}
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.CommentLike{CommentID: commentID, UserID: userID})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.ErrConflict
		}
		if err := tx.Model(&models.Comment{}).Where("id = ?", commentID).
			UpdateColumn("likes_count", gorm.Expr("likes_count + ?", 1)).Error; err != nil {
			return err
		}
		return tx.Select("likes_count").First(&comment, commentID).Error
	})
	if err != nil {
		return 0, translate("like comment", err)
	}
	return comment.LikesCount, nil
}

// UnlikeComment removes the edge and decrements likes_count; returns the new count
func (r *PostgresCommentLikeRepository) UnlikeComment(ctx context.Context, commentID, userID uint) (int64, error) {
	var comment models.Comment
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("comment_id = ? AND user_id = ?", commentID, userID).Delete(&models.CommentLike{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		if err := tx.Model(&models.Comment{}).Where("id = ?", commentID).
			UpdateColumn("likes_count", gorm.Expr("likes_count - ?", 1)).Error; err != nil {
			return err
		}
		return tx.Select("likes_count").First(&comment, commentID).Error
	})
	if err != nil {
		return 0, translate("unlike comment", err)
	}
	return comment.LikesCount, nil
}

// GetLikedCommentIDs returns which of commentIDs the user has liked
func (r *PostgresCommentLikeRepository) GetLikedCommentIDs(ctx context.Context, userID uint, commentIDs []uint) (map[uint]bool, error) {
	result := make(map[uint]bool, len(commentIDs))
	if len(commentIDs) == 0 {
		return result, nil
	}
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.CommentLike{}).
		Where("user_id = ? AND comment_id IN ?", userID, commentIDs).
		Pluck("comment_id", &ids).Error
	if err != nil {
		return nil, translate("get liked comments", err)
	}
	for _, id := range ids {
		result[id] = true
	}
	return result, nil
}
