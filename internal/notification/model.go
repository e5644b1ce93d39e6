package notification

import (
	"time"

	"gorm.io/datatypes"
)

// ============================
// 🔷 GORM Models

// InAppNotification is a per-user notification shown in the app's inbox
type InAppNotification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Title     string    `gorm:"type:varchar(255);not null" json:"title"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	Category  string    `gorm:"type:varchar(50);index" json:"category"` // event, feed, registration, system
	IsRead    bool      `gorm:"default:false;index" json:"is_read"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

func (InAppNotification) TableName() string {
	return "in_app_notifications"
}

// FCMDeviceToken stores a registered push token for one of a user's devices
type FCMDeviceToken struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	DeviceToken string    `gorm:"type:varchar(512);not null;uniqueIndex" json:"device_token"`
	DeviceType  string    `gorm:"type:varchar(20)" json:"device_type"` // android, ios, web
	DeviceName  string    `gorm:"type:varchar(100)" json:"device_name,omitempty"`
	IsActive    bool      `gorm:"default:true;index" json:"is_active"`
	LastUsedAt  time.Time `json:"last_used_at"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (FCMDeviceToken) TableName() string {
	return "fcm_device_tokens"
}

// NotificationLog records the outcome of a broadcast for auditing
type NotificationLog struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	Title      string         `gorm:"type:varchar(255)" json:"title"`
	Category   string         `gorm:"type:varchar(50)" json:"category"`
	Roles      datatypes.JSON `gorm:"type:jsonb" json:"roles"`
	Recipients int            `json:"recipients"`
	PushSent   int            `json:"push_sent"`
	PushFailed int            `json:"push_failed"`
	Status     string         `gorm:"type:varchar(20)" json:"status"` // sent, partial, failed
	CreatedAt  time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

func (NotificationLog) TableName() string {
	return "notification_logs"
}

// ============================
// 🟡 Requests
type RegisterDeviceTokenRequest struct {
	DeviceToken string `json:"device_token" binding:"required"`
	DeviceType  string `json:"device_type" binding:"required,oneof=android ios web"`
	DeviceName  string `json:"device_name"`
}

// ============================
// 🟠 Responses
type PaginatedNotifications struct {
	Data       []InAppNotification `json:"data"`
	Total      int64               `json:"total"`
	Unread     int64               `json:"unread"`
	Page       int                 `json:"page"`
	Limit      int                 `json:"limit"`
	TotalPages int                 `json:"total_pages"`
}
