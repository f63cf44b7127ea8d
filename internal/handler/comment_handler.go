package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"kvitto/internal/service"
)

// CommentHandler handles the threaded discussion endpoints.
type CommentHandler struct {
	commentService service.CommentService
}

// NewCommentHandler creates a new CommentHandler.
func NewCommentHandler(commentService service.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

// List handles GET /api/v1/receipts/:id/comments
func (h *CommentHandler) List(c *gin.Context) {
	receiptID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	nodes, err := h.commentService.ListForReceipt(c.Request.Context(), receiptID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, nodes)
}

// Add handles POST /api/v1/receipts/:id/comments
func (h *CommentHandler) Add(c *gin.Context) {
	userID, _, ok := authedUser(c)
	if !ok {
		return
	}
	receiptID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		CommentText     string     `json:"comment_text" binding:"required"`
		ParentCommentID *uuid.UUID `json:"parent_comment_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_BODY", "comment_text field is required")
		return
	}

	comment, err := h.commentService.Add(c.Request.Context(), service.AddCommentInput{
		ReceiptID:       receiptID,
		AuthorID:        userID,
		CommentText:     req.CommentText,
		ParentCommentID: req.ParentCommentID,
		Meta:            requestMeta(c),
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, comment)
}

// Delete handles DELETE /api/v1/comments/:id (admin only, soft delete).
func (h *CommentHandler) Delete(c *gin.Context) {
	userID, _, ok := authedUser(c)
	if !ok {
		return
	}
	commentID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	deleted, err := h.commentService.SoftDelete(c.Request.Context(), commentID, userID, requestMeta(c))
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"deleted": deleted})
}

// UnreadCount handles GET /api/v1/comments/unread-count
func (h *CommentHandler) UnreadCount(c *gin.Context) {
	userID, _, ok := authedUser(c)
	if !ok {
		return
	}

	n, err := h.commentService.CountRecentForOwner(c.Request.Context(), userID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"count": n})
}
