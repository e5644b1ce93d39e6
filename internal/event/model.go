package event

import (
	"time"
)

// Event lifecycle states
const (
	StatusDraft     = "DRAFT"
	StatusPublished = "PUBLISHED"
	StatusCancelled = "CANCELLED"
)

// ============================
// 🔷 GORM Event Model
type Event struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Title        string     `gorm:"type:varchar(255);not null" json:"title"`
	Description  string     `gorm:"type:text;not null" json:"description"`
	StartDate    time.Time  `gorm:"not null;index" json:"start_date"`
	EndDate      *time.Time `json:"end_date,omitempty"`
	IsAllDay     bool       `gorm:"default:false" json:"is_all_day"`
	Location     string     `gorm:"type:text" json:"location"`
	IsOnline     bool       `gorm:"default:false" json:"is_online"`
	Price        float64    `gorm:"default:0" json:"price"`
	Currency     string     `gorm:"type:varchar(3);default:USD" json:"currency"`
	MaxAttendees *int       `json:"max_attendees,omitempty"`
	BannerURL    string     `gorm:"type:varchar(512)" json:"banner_url,omitempty"`
	Status       string     `gorm:"type:varchar(20);not null;default:DRAFT;index" json:"status"`
	CreatedByID  uint       `gorm:"not null;index" json:"created_by_id"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	RegistrationCount int `gorm:"-" json:"registration_count"`
}

// ============================
// 🟡 Create Event Request
type CreateEventRequest struct {
	Title        string  `json:"title" binding:"required,min=3,max=200"`
	Description  string  `json:"description" binding:"required"`
	StartDate    string  `json:"start_date" binding:"required"` // 🛠 RFC3339 or "2006-01-02"
	EndDate      string  `json:"end_date,omitempty"`
	IsAllDay     bool    `json:"is_all_day"`
	Location     string  `json:"location,omitempty"`
	IsOnline     bool    `json:"is_online"`
	Price        float64 `json:"price" binding:"gte=0"`
	Currency     string  `json:"currency,omitempty" binding:"omitempty,len=3"`
	MaxAttendees *int    `json:"max_attendees,omitempty" binding:"omitempty,gt=0"`
	BannerURL    string  `json:"banner_url,omitempty" binding:"omitempty,url"`
	Status       string  `json:"status,omitempty" binding:"omitempty,oneof=DRAFT PUBLISHED"`
}

// ============================
// 🟠 Update Event Request
type UpdateEventRequest struct {
	ID           uint    `json:"-"`
	Title        string  `json:"title" binding:"required,min=3,max=200"`
	Description  string  `json:"description" binding:"required"`
	StartDate    string  `json:"start_date" binding:"required"`
	EndDate      string  `json:"end_date,omitempty"`
	IsAllDay     bool    `json:"is_all_day"`
	Location     string  `json:"location,omitempty"`
	IsOnline     bool    `json:"is_online"`
	Price        float64 `json:"price" binding:"gte=0"`
	Currency     string  `json:"currency,omitempty" binding:"omitempty,len=3"`
	MaxAttendees *int    `json:"max_attendees,omitempty" binding:"omitempty,gt=0"`
	BannerURL    string  `json:"banner_url,omitempty" binding:"omitempty,url"`
}

// ============================
// 🟢 Paginated listing response
type PaginatedEvents struct {
	Data       []Event `json:"data"`
	Total      int64   `json:"total"`
	Page       int     `json:"page"`
	Limit      int     `json:"limit"`
	TotalPages int     `json:"total_pages"`
}
