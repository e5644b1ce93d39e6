package user

import (
	"time"
)

// ============================
// 🔷 GORM User Model
//
// Accounts mirror the external identity provider: the provider owns
// credentials and sessions, we keep the profile and the platform role.
type User struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ExternalID string    `gorm:"size:64;uniqueIndex;not null" json:"external_id"` // identity provider subject
	Email      string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	FullName   string    `gorm:"size:255" json:"full_name"`
	AvatarURL  string    `gorm:"size:512" json:"avatar_url,omitempty"`
	RoleID     uint      `gorm:"not null" json:"role_id"`
	Role       Role      `gorm:"foreignKey:RoleID;references:ID" json:"role"`
	Status     string    `gorm:"size:20;default:active" json:"status"` // active, suspended
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// Role is a platform role mapped onto identity-provider accounts
type Role struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	RoleName    string `gorm:"size:50;uniqueIndex;not null" json:"role_name"` // admin, organizer, member
	Description string `gorm:"size:255" json:"description"`
}

// ============================
// 🟡 Requests
type UpdateRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=admin organizer member"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=active suspended"`
}

// ============================
// 🟠 Responses
type UserResponse struct {
	ID        uint      `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

type PaginatedUsers struct {
	Data       []UserResponse `json:"data"`
	Total      int64          `json:"total"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
	TotalPages int            `json:"total_pages"`
}

func toResponse(u *User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		FullName:  u.FullName,
		AvatarURL: u.AvatarURL,
		Role:      u.Role.RoleName,
		Status:    u.Status,
		CreatedAt: u.CreatedAt,
	}
}
