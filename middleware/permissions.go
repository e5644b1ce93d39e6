package middleware

import (
	"github.com/gin-gonic/gin"
)

// Role constants to avoid string typos
const (
	RoleAdmin     = "admin"
	RoleOrganizer = "organizer"
	RoleMember    = "member"
)

// AccessContext stores user access information
type AccessContext struct {
	UserID         uint
	RoleName       string
	PermissionType string // "full" or "readonly"
}

// CanWrite returns true if the user has write permissions
func (ac *AccessContext) CanWrite() bool {
	return ac.PermissionType == "full"
}

// CanRead returns true if the user has read permissions
func (ac *AccessContext) CanRead() bool {
	return ac.PermissionType == "full" || ac.PermissionType == "readonly"
}

// IsAdmin returns true for platform administrators
func (ac *AccessContext) IsAdmin() bool {
	return ac.RoleName == RoleAdmin
}

// CanManageEvents returns true if the user can create and manage events
func (ac *AccessContext) CanManageEvents() bool {
	return ac.RoleName == RoleAdmin || ac.RoleName == RoleOrganizer
}

// GetAccessContext is a utility to pull the access context out of gin
func GetAccessContext(c *gin.Context) (AccessContext, bool) {
	if accessCtx, exists := c.Get("access_context"); exists {
		if ctx, ok := accessCtx.(AccessContext); ok {
			return ctx, true
		}
	}
	return AccessContext{}, false
}
