package user

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// GetMe returns the authenticated user's profile
// @Summary Get current user
// @Tags Users
// @Produce json
// @Success 200 {object} UserResponse
// @Failure 401 {object} gin.H
// @Router /api/v1/users/me [get]
func (h *Handler) GetMe(c *gin.Context) {
	userVal, exists := c.Get("user")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}

	u, ok := userVal.(User)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid user object"})
		return
	}

	c.JSON(http.StatusOK, toResponse(&u))
}

// ListUsers returns a paginated user directory (admin only)
// @Summary List users
// @Tags Users
// @Produce json
// @Param search query string false "Search by email or name"
// @Param role query string false "Filter by role"
// @Param status query string false "Filter by status"
// @Param page query int false "Page number (default: 1)"
// @Param limit query int false "Records per page (default: 20)"
// @Success 200 {object} PaginatedUsers
// @Failure 500 {object} gin.H
// @Router /api/v1/admin/users [get]
func (h *Handler) ListUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	result, err := h.service.ListUsers(limit, page, c.Query("search"), c.Query("role"), c.Query("status"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve users"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// UpdateRole changes a user's platform role (admin only)
// @Summary Update user role
// @Tags Users
// @Accept json
// @Produce json
// @Param id path uint true "User ID"
// @Param request body UpdateRoleRequest true "New role"
// @Success 200 {object} gin.H
// @Failure 400 {object} gin.H
// @Failure 404 {object} gin.H
// @Router /api/v1/admin/users/{id}/role [patch]
func (h *Handler) UpdateRole(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	var req UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actorID, ok := actorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}

	if err := h.service.UpdateRole(c.Request.Context(), actorID, uint(id), req.Role, clientIPFromContext(c)); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Role updated successfully"})
}

// UpdateStatus activates or suspends a user (admin only)
// @Summary Update user status
// @Tags Users
// @Accept json
// @Produce json
// @Param id path uint true "User ID"
// @Param request body UpdateStatusRequest true "New status"
// @Success 200 {object} gin.H
// @Failure 400 {object} gin.H
// @Router /api/v1/admin/users/{id}/status [patch]
func (h *Handler) UpdateStatus(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actorID, ok := actorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}

	if err := h.service.UpdateStatus(c.Request.Context(), actorID, uint(id), req.Status, clientIPFromContext(c)); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Status updated successfully"})
}

// actorFromContext reads the authenticated user's ID set by the auth middleware.
// This package sits below middleware in the import graph, so the gin context
// keys are read directly rather than through the middleware helpers.
func actorFromContext(c *gin.Context) (uint, bool) {
	if val, exists := c.Get("user_id"); exists {
		if id, ok := val.(uint); ok {
			return id, true
		}
	}
	return 0, false
}

// clientIPFromContext prefers the proxy-aware IP resolved upstream
func clientIPFromContext(c *gin.Context) string {
	if val, exists := c.Get("client_ip"); exists {
		if ip, ok := val.(string); ok {
			return ip
		}
	}
	return c.ClientIP()
}
