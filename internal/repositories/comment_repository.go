package repositories

import (
	"context"

	"github.com/anonto42/nano-social/backend/internal/models"
	"gorm.io/gorm"
)

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	CreateComment(ctx context.Context, comment *models.Comment) error
	GetCommentByID(ctx context.Context, id uint) (*models.Comment, error)
	DeleteComment(ctx context.Context, id, requesterID uint) (*models.Comment, error)
	GetTopLevelComments(ctx context.Context, postID uint, page models.Page) ([]models.Comment, int64, error)
	GetReplies(ctx context.Context, parentID uint, page models.Page) ([]models.Comment, int64, error)
	GetReplyPreviews(ctx context.Context, parentIDs []uint, n int) (map[uint][]models.Comment, error)
	GetReplyCounts(ctx context.Context, parentIDs []uint) (map[uint]int64, error)
}

// PostgresCommentRepository implements CommentRepository for PostgreSQL
type PostgresCommentRepository struct {
	db *gorm.DB
}

// NewPostgresCommentRepository creates a new PostgresCommentRepository
func NewPostgresCommentRepository(db *gorm.DB) *PostgresCommentRepository {
	return &PostgresCommentRepository{db: db}
}

// CreateComment inserts the comment and bumps the post's comments_count atomically
func (r *PostgresCommentRepository) CreateComment(ctx context.Context, comment *models.Comment) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(comment).Error; err != nil {
			return err
		}
		res := tx.Model(&models.Post{}).Where("id = ?", comment.PostID).
			UpdateColumn("comments_count", gorm.Expr("comments_count + ?", 1))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	return translate("create comment", err)
}

// GetCommentByID retrieves a comment by ID
func (r *PostgresCommentRepository) GetCommentByID(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).First(&comment, id).Error; err != nil {
		return nil, translate("get comment", err)
	}
	return &comment, nil
}

// DeleteComment removes a comment owned by requesterID along with its replies
// and likes, decrementing comments_count by the number of rows removed.
func (r *PostgresCommentRepository) DeleteComment(ctx context.Context, id, requesterID uint) (*models.Comment, error) {
	var comment models.Comment
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&comment, id).Error; err != nil {
			return err
		}
		if comment.UserID != requesterID {
			return models.ErrForbidden
		}

		var replyIDs []uint
		if err := tx.Model(&models.Comment{}).Where("parent_id = ?", id).Pluck("id", &replyIDs).Error; err != nil {
			return err
		}
		ids := append(replyIDs, id)

		if err := tx.Where("comment_id IN ?", ids).Delete(&models.CommentLike{}).Error; err != nil {
			return err
		}
		res := tx.Where("id IN ?", ids).Delete(&models.Comment{})
		if res.Error != nil {
			return res.Error
		}
		return tx.Model(&models.Post{}).
			Where("id = ? AND comments_count >= ?", comment.PostID, res.RowsAffected).
			UpdateColumn("comments_count", gorm.Expr("comments_count - ?", res.RowsAffected)).Error
	})
	if err != nil {
		return nil, translate("delete comment", err)
	}
	return &comment, nil
}

// GetTopLevelComments returns a page of comments without a parent, newest first
func (r *PostgresCommentRepository) GetTopLevelComments(ctx context.Context, postID uint, page models.Page) ([]models.Comment, int64, error) {
	return r.page(ctx, "get comments", page, "created_at DESC, id DESC", "post_id = ? AND parent_id IS NULL", postID)
}

// GetReplies returns a page of replies to a comment, oldest first
func (r *PostgresCommentRepository) GetReplies(ctx context.Context, parentID uint, page models.Page) ([]models.Comment, int64, error) {
	return r.page(ctx, "get replies", page, "created_at ASC, id ASC", "parent_id = ?", parentID)
}

func (r *PostgresCommentRepository) page(ctx context.Context, op string, page models.Page, order, where string, arg uint) ([]models.Comment, int64, error) {
	db := r.db.WithContext(ctx)

	var total int64
	if err := db.Model(&models.Comment{}).Where(where, arg).Count(&total).Error; err != nil {
		return nil, 0, translate(op, err)
	}

	var comments []models.Comment
	err := db.Where(where, arg).Order(order).
		Offset(page.Offset()).Limit(page.Limit).
		Find(&comments).Error
	if err != nil {
		return nil, 0, translate(op, err)
	}
	return comments, total, nil
}

// GetReplyPreviews returns up to n oldest replies for each parent
func (r *PostgresCommentRepository) GetReplyPreviews(ctx context.Context, parentIDs []uint, n int) (map[uint][]models.Comment, error) {
	result := make(map[uint][]models.Comment, len(parentIDs))
	db := r.db.WithContext(ctx)
	for _, pid := range parentIDs {
		var replies []models.Comment
		err := db.Where("parent_id = ?", pid).
			Order("created_at ASC, id ASC").
			Limit(n).
			Find(&replies).Error
		if err != nil {
			return nil, translate("get reply previews", err)
		}
		result[pid] = replies
	}
	return result, nil
}

// GetReplyCounts counts replies per parent in one grouped query
func (r *PostgresCommentRepository) GetReplyCounts(ctx context.Context, parentIDs []uint) (map[uint]int64, error) {
	result := make(map[uint]int64, len(parentIDs))
	if len(parentIDs) == 0 {
		return result, nil
	}
	var rows []struct {
		ParentID uint
		Count    int64
	}
	err := r.db.WithContext(ctx).Model(&models.Comment{}).
		Select("parent_id, COUNT(*) AS count").
		Where("parent_id IN ?", parentIDs).
		Group("parent_id").
		Scan(&rows).Error
	if err != nil {
		return nil, translate("get reply counts", err)
	}
	for _, row := range rows {
		result[row.ParentID] = row.Count
	}
	return result, nil
}
