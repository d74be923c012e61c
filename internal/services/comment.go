package services

import (
	"context"
	"fmt"

	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/repositories"
	"github.com/anonto42/nano-social/backend/pkg/sanitize"
)

const replyPreviewSize = 3

// CommentService handles comments, replies and comment likes
type CommentService struct {
	comments     repositories.CommentRepository
	commentLikes repositories.CommentLikeRepository
	posts        repositories.PostRepository
	users        repositories.UserRepository
	notifier     Notifier
}

// NewCommentService creates a CommentService
func NewCommentService(
	commentRepo repositories.CommentRepository,
	commentLikeRepo repositories.CommentLikeRepository,
	postRepo repositories.PostRepository,
	userRepo repositories.UserRepository,
	notifier Notifier,
) *CommentService {
	return &CommentService{
		comments:     commentRepo,
		commentLikes: commentLikeRepo,
		posts:        postRepo,
		users:        userRepo,
		notifier:     notifier,
	}
}

// CreateComment adds a comment or a reply to a post and notifies the post's
// author. Replies to replies attach to the top-level comment.
func (s *CommentService) CreateComment(ctx context.Context, author *models.User, postID uint, req *models.CreateCommentRequest) (*models.EnrichedComment, error) {
	post, err := s.visiblePost(ctx, author.ID, postID)
	if err != nil {
		return nil, err
	}
	if !post.CommentsEnabled {
		return nil, fmt.Errorf("comments are disabled on post %d: %w", postID, models.ErrForbidden)
	}

	content := sanitize.Text(req.Content)
	if content == "" {
		return nil, fmt.Errorf("comment content is required: %w", models.ErrValidation)
	}

	comment := &models.Comment{PostID: postID, UserID: author.ID, Content: content}
	var repliedTo *models.Comment
	if req.ParentID != nil {
		parent, err := s.comments.GetCommentByID(ctx, *req.ParentID)
		if err != nil {
			return nil, err
		}
		repliedTo = parent
		if parent.PostID != postID {
			return nil, fmt.Errorf("parent comment %d is on another post: %w", parent.ID, models.ErrValidation)
		}
		parentID := parent.ID
		if parent.ParentID != nil {
			parentID = *parent.ParentID
		}
		comment.ParentID = &parentID
	}

	if err := s.comments.CreateComment(ctx, comment); err != nil {
		return nil, err
	}

	s.notifier.Dispatch(Event{
		Type:        models.NotificationComment,
		ActorID:     author.ID,
		RecipientID: post.UserID,
		TargetID:    idString(post.ID),
		TargetType:  "post",
		Message:     author.DisplayName() + " commented on your post",
	})
	// the post owner was already notified above
	if repliedTo != nil && repliedTo.UserID != post.UserID {
		s.notifier.Dispatch(Event{
			Type:        models.NotificationComment,
			ActorID:     author.ID,
			RecipientID: repliedTo.UserID,
			TargetID:    idString(repliedTo.ID),
			TargetType:  "comment",
			Message:     author.DisplayName() + " replied to your comment",
		})
	}

	return &models.EnrichedComment{Comment: *comment, Author: author.ToCompact()}, nil
}

// ListComments returns a page of top-level comments, each with its first
// replies and total reply count
func (s *CommentService) ListComments(ctx context.Context, viewerID, postID uint, page models.Page) ([]models.CommentWithReplies, models.PageMeta, error) {
	if _, err := s.visiblePost(ctx, viewerID, postID); err != nil {
		return nil, models.PageMeta{}, err
	}

	top, total, err := s.comments.GetTopLevelComments(ctx, postID, page)
	if err != nil {
		return nil, models.PageMeta{}, err
	}
	ids := make([]uint, len(top))
	for i, c := range top {
		ids[i] = c.ID
	}
	previews, err := s.comments.GetReplyPreviews(ctx, ids, replyPreviewSize)
	if err != nil {
		return nil, models.PageMeta{}, err
	}
	counts, err := s.comments.GetReplyCounts(ctx, ids)
	if err != nil {
		return nil, models.PageMeta{}, err
	}

	all := append([]models.Comment{}, top...)
	for _, id := range ids {
		all = append(all, previews[id]...)
	}
	enriched, err := s.enrich(ctx, viewerID, all)
	if err != nil {
		return nil, models.PageMeta{}, err
	}

	out := make([]models.CommentWithReplies, len(top))
	offset := len(top)
	for i, id := range ids {
		n := len(previews[id])
		out[i] = models.CommentWithReplies{
			EnrichedComment: enriched[i],
			Replies:         enriched[offset : offset+n],
			RepliesCount:    counts[id],
		}
		offset += n
	}
	return out, page.Meta(total), nil
}

// ListReplies returns a page of replies to a comment, oldest first
func (s *CommentService) ListReplies(ctx context.Context, viewerID, commentID uint, page models.Page) ([]models.EnrichedComment, models.PageMeta, error) {
	if _, err := s.visibleComment(ctx, viewerID, commentID); err != nil {
		return nil, models.PageMeta{}, err
	}
	replies, total, err := s.comments.GetReplies(ctx, commentID, page)
	if err != nil {
		return nil, models.PageMeta{}, err
	}
	enriched, err := s.enrich(ctx, viewerID, replies)
	if err != nil {
		return nil, models.PageMeta{}, err
	}
	return enriched, page.Meta(total), nil
}

// DeleteComment removes a comment and its replies; only the author may do so
func (s *CommentService) DeleteComment(ctx context.Context, requesterID, commentID uint) error {
	if _, err := s.visibleComment(ctx, requesterID, commentID); err != nil {
		return err
	}
	_, err := s.comments.DeleteComment(ctx, commentID, requesterID)
	return err
}

// LikeComment likes a comment and notifies its author
func (s *CommentService) LikeComment(ctx context.Context, actor *models.User, commentID uint) (int64, error) {
	comment, err := s.visibleComment(ctx, actor.ID, commentID)
	if err != nil {
		return 0, err
	}
	count, err := s.commentLikes.LikeComment(ctx, commentID, actor.ID)
	if err != nil {
		return 0, err
	}
	s.notifier.Dispatch(Event{
		Type:        models.NotificationLike,
		ActorID:     actor.ID,
		RecipientID: comment.UserID,
		TargetID:    idString(comment.ID),
		TargetType:  "comment",
		Message:     actor.DisplayName() + " liked your comment",
	})
	return count, nil
}

// UnlikeComment removes the viewer's like from a comment
func (s *CommentService) UnlikeComment(ctx context.Context, userID, commentID uint) (int64, error) {
	if _, err := s.visibleComment(ctx, userID, commentID); err != nil {
		return 0, err
	}
	return s.commentLikes.UnlikeComment(ctx, commentID, userID)
}

// visiblePost loads a post the viewer may see. Private posts read as missing
// to everyone but their author.
func (s *CommentService) visiblePost(ctx context.Context, viewerID, postID uint) (*models.Post, error) {
	post, err := s.posts.GetPostByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !post.IsPublic && post.UserID != viewerID {
		return nil, fmt.Errorf("post %d: %w", postID, models.ErrNotFound)
	}
	return post, nil
}

// visibleComment loads a comment whose post the viewer may see
func (s *CommentService) visibleComment(ctx context.Context, viewerID, commentID uint) (*models.Comment, error) {
	comment, err := s.comments.GetCommentByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if _, err := s.visiblePost(ctx, viewerID, comment.PostID); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *CommentService) enrich(ctx context.Context, viewerID uint, comments []models.Comment) ([]models.EnrichedComment, error) {
	ids := make([]uint, len(comments))
	authorIDs := make([]uint, 0, len(comments))
	for i, c := range comments {
		ids[i] = c.ID
		authorIDs = append(authorIDs, c.UserID)
	}
	authors, err := s.users.GetUsersByIDs(ctx, authorIDs)
	if err != nil {
		return nil, err
	}
	liked, err := s.commentLikes.GetLikedCommentIDs(ctx, viewerID, ids)
	if err != nil {
		return nil, err
	}

	out := make([]models.EnrichedComment, len(comments))
	for i, c := range comments {
		out[i] = models.EnrichedComment{Comment: c, IsLiked: liked[c.ID]}
		if u, ok := authors[c.UserID]; ok {
			out[i].Author = u.ToCompact()
		}
	}
	return out, nil
}
