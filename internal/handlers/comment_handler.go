package handlers

import (
	"net/http"

	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// CommentHandler handles comments and replies
type CommentHandler struct {
	comments *services.CommentService
	users    *services.UserService
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(commentService *services.CommentService, userService *services.UserService) *CommentHandler {
	return &CommentHandler{comments: commentService, users: userService}
}

// RegisterCommentRoutes registers comment routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.POST("/posts/:id/comments", h.CreateComment)
	g.GET("/posts/:id/comments", h.GetComments)
	g.GET("/comments/:id/replies", h.GetReplies)
	g.DELETE("/comments/:id", h.DeleteComment)
	g.POST("/comments/:id/like", h.LikeComment)
	g.DELETE("/comments/:id/like", h.UnlikeComment)
}

// CreateComment adds a comment or reply to a post
func (h *CommentHandler) CreateComment(c echo.Context) error {
	postID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	me, err := currentUser(c, h.users)
	if err != nil {
		return err
	}
	var req models.CreateCommentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	comment, err := h.comments.CreateComment(c.Request().Context(), me, postID, &req)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": comment})
}

// GetComments lists top-level comments with reply previews
func (h *CommentHandler) GetComments(c echo.Context) error {
	postID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	comments, meta, err := h.comments.ListComments(c.Request().Context(), getUserIDFromContext(c), postID, parsePage(c, 20))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"comments": comments}, "meta": meta})
}

// GetReplies lists replies to a comment, oldest first
func (h *CommentHandler) GetReplies(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	replies, meta, err := h.comments.ListReplies(c.Request().Context(), getUserIDFromContext(c), id, parsePage(c, 20))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"replies": replies}, "meta": meta})
}

// DeleteComment removes one of the caller's comments
func (h *CommentHandler) DeleteComment(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.comments.DeleteComment(c.Request().Context(), getUserIDFromContext(c), id); err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Comment deleted"})
}

// LikeComment likes a comment
func (h *CommentHandler) LikeComment(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	me, err := currentUser(c, h.users)
	if err != nil {
		return err
	}
	count, err := h.comments.LikeComment(c.Request().Context(), me, id)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"comment_id": id, "likes_count": count, "is_liked": true},
	})
}

// UnlikeComment removes the caller's like from a comment
func (h *CommentHandler) UnlikeComment(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	count, err := h.comments.UnlikeComment(c.Request().Context(), getUserIDFromContext(c), id)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"comment_id": id, "likes_count": count, "is_liked": false},
	})
}
