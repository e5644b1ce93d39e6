package notification

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	CreateInApp(ctx context.Context, n *InAppNotification) error
	CreateInAppBatch(ctx context.Context, notifications []InAppNotification) error
	ListInAppByUser(ctx context.Context, userID uint, limit, offset int, unreadOnly bool) ([]InAppNotification, int64, error)
	CountUnread(ctx context.Context, userID uint) (int64, error)
	MarkAsRead(ctx context.Context, id, userID uint) error
	MarkAllAsRead(ctx context.Context, userID uint) error

	UpsertDeviceToken(ctx context.Context, token *FCMDeviceToken) error
	DeactivateDeviceToken(ctx context.Context, userID uint, deviceToken string) error
	DeactivateTokens(ctx context.Context, tokens []string) error
	ActiveTokensForUsers(ctx context.Context, userIDs []uint) ([]string, error)

	CreateLog(ctx context.Context, entry *NotificationLog) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// ===========================
// 🔔 In-app notifications

func (r *repository) CreateInApp(ctx context.Context, n *InAppNotification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *repository) CreateInAppBatch(ctx context.Context, notifications []InAppNotification) error {
	if len(notifications) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(notifications, 200).Error
}

func (r *repository) ListInAppByUser(ctx context.Context, userID uint, limit, offset int, unreadOnly bool) ([]InAppNotification, int64, error) {
	var notifications []InAppNotification
	var total int64

	query := r.db.WithContext(ctx).Model(&InAppNotification{}).Where("user_id = ?", userID)
	if unreadOnly {
		query = query.Where("is_read = ?", false)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&notifications).Error
	if err != nil {
		return nil, 0, err
	}

	return notifications, total, nil
}

func (r *repository) CountUnread(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&InAppNotification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

func (r *repository) MarkAsRead(ctx context.Context, id, userID uint) error {
	result := r.db.WithContext(ctx).Model(&InAppNotification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) MarkAllAsRead(ctx context.Context, userID uint) error {
	return r.db.WithContext(ctx).Model(&InAppNotification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true).Error
}

// ===========================
// 📱 Device tokens

// UpsertDeviceToken re-activates a known token or inserts a new one.
// The same token may move between users when a device is handed over.
func (r *repository) UpsertDeviceToken(ctx context.Context, token *FCMDeviceToken) error {
	token.IsActive = true
	token.LastUsedAt = time.Now().UTC()
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "device_token"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"user_id", "device_type", "device_name", "is_active", "last_used_at",
		}),
	}).Create(token).Error
}

func (r *repository) DeactivateDeviceToken(ctx context.Context, userID uint, deviceToken string) error {
	return r.db.WithContext(ctx).Model(&FCMDeviceToken{}).
		Where("user_id = ? AND device_token = ?", userID, deviceToken).
		Update("is_active", false).Error
}

// DeactivateTokens marks tokens FCM reported as invalid
func (r *repository) DeactivateTokens(ctx context.Context, tokens []string) error {
	if len(tokens) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&FCMDeviceToken{}).
		Where("device_token IN ?", tokens).
		Update("is_active", false).Error
}

func (r *repository) ActiveTokensForUsers(ctx context.Context, userIDs []uint) ([]string, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	var tokens []string
	err := r.db.WithContext(ctx).Model(&FCMDeviceToken{}).
		Where("user_id IN ? AND is_active = ?", userIDs, true).
		Pluck("device_token", &tokens).Error
	return tokens, err
}

// ===========================
// 📋 Broadcast log

func (r *repository) CreateLog(ctx context.Context, entry *NotificationLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}
