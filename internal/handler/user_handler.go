package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"kvitto/internal/domain"
	"kvitto/internal/service"
)

// UserHandler handles account administration endpoints (admin only).
type UserHandler struct {
	userService service.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// Create handles POST /api/v1/users
func (h *UserHandler) Create(c *gin.Context) {
	actorID, _, ok := authedUser(c)
	if !ok {
		return
	}

	var req struct {
		Email    string `json:"email" binding:"required"`
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
		Role     string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_BODY", "email, username, password and role are required")
		return
	}

	u, err := h.userService.Create(c.Request.Context(), service.CreateUserInput{
		Email:    req.Email,
		Username: req.Username,
		Password: req.Password,
		Role:     domain.UserRole(req.Role),
		ActorID:  actorID,
		Meta:     requestMeta(c),
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, u)
}

// List handles GET /api/v1/users
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.userService.List(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, users)
}

// GetByID handles GET /api/v1/users/:id
func (h *UserHandler) GetByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	u, err := h.userService.GetByID(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, u)
}

// UpdateRole handles PUT /api/v1/users/:id/role
func (h *UserHandler) UpdateRole(c *gin.Context) {
	actorID, _, ok := authedUser(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Role string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_BODY", "role field is required")
		return
	}

	if err := h.userService.UpdateRole(c.Request.Context(), id, domain.UserRole(req.Role), actorID, requestMeta(c)); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"id": id, "role": req.Role})
}

// Delete handles DELETE /api/v1/users/:id
func (h *UserHandler) Delete(c *gin.Context) {
	actorID, _, ok := authedUser(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if id == actorID {
		RespondError(c, http.StatusBadRequest, "SELF_DELETE", "cannot delete your own account")
		return
	}

	if err := h.userService.Delete(c.Request.Context(), id, actorID, requestMeta(c)); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"deleted": true})
}
