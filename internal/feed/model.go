package feed

import (
	"time"
)

// ============================
// 🔷 GORM Post Model
type Post struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	AuthorID  uint      `gorm:"not null;index" json:"author_id"`
	Body      string    `gorm:"type:text;not null" json:"body"`
	ImageURL  string    `gorm:"type:varchar(512)" json:"image_url,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	LikeCount  int    `gorm:"-" json:"like_count"`
	LikedByMe  bool   `gorm:"-" json:"liked_by_me"`
	AuthorName string `gorm:"-" json:"author_name,omitempty"`
}

// Like records one user's like on a post; one per user per post
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_post_user" json:"post_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_post_user" json:"user_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// ============================
// 🟡 Requests
type CreatePostRequest struct {
	Body     string `json:"body" binding:"required,max=2000"`
	ImageURL string `json:"image_url,omitempty" binding:"omitempty,url"`
}

// ============================
// 🟠 Responses
type PaginatedPosts struct {
	Data       []Post `json:"data"`
	Total      int64  `json:"total"`
	Page       int    `json:"page"`
	Limit      int    `json:"limit"`
	TotalPages int    `json:"total_pages"`
}

type ToggleLikeResponse struct {
	PostID    uint `json:"post_id"`
	Liked     bool `json:"liked"`
	LikeCount int  `json:"like_count"`
}
