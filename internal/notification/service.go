package notification

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"math"

	"gorm.io/datatypes"

	"github.com/jdblank/fire-backend/internal/user"
	"github.com/jdblank/fire-backend/utils"
)

type Service interface {
	CreateInAppNotification(ctx context.Context, userID uint, title, message, category string) error
	ListInAppByUser(ctx context.Context, userID uint, limit, page int, unreadOnly bool) (*PaginatedNotifications, error)
	MarkInAppAsRead(ctx context.Context, id, userID uint) error
	MarkAllAsRead(ctx context.Context, userID uint) error

	BroadcastToRoles(ctx context.Context, roles []string, title, body, category string) error

	RegisterDeviceToken(ctx context.Context, userID uint, req RegisterDeviceTokenRequest) error
	RemoveDeviceToken(ctx context.Context, userID uint, deviceToken string) error
}

type service struct {
	repo     Repository
	userRepo user.Repository
}

func NewService(repo Repository, userRepo user.Repository) Service {
	return &service{repo: repo, userRepo: userRepo}
}

// ===========================
// 🔔 In-App Notifications

func (s *service) CreateInAppNotification(ctx context.Context, userID uint, title, message, category string) error {
	if title == "" || message == "" {
		return errors.New("title and message are required")
	}
	return s.repo.CreateInApp(ctx, &InAppNotification{
		UserID:   userID,
		Title:    title,
		Message:  message,
		Category: category,
	})
}

func (s *service) ListInAppByUser(ctx context.Context, userID uint, limit, page int, unreadOnly bool) (*PaginatedNotifications, error) {
	if limit <= 0 {
		limit = 20
	}
	if page <= 0 {
		page = 1
	}

	notifications, total, err := s.repo.ListInAppByUser(ctx, userID, limit, (page-1)*limit, unreadOnly)
	if err != nil {
		return nil, err
	}

	unread, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &PaginatedNotifications{
		Data:       notifications,
		Total:      total,
		Unread:     unread,
		Page:       page,
		Limit:      limit,
		TotalPages: int(math.Ceil(float64(total) / float64(limit))),
	}, nil
}

func (s *service) MarkInAppAsRead(ctx context.Context, id, userID uint) error {
	return s.repo.MarkAsRead(ctx, id, userID)
}

func (s *service) MarkAllAsRead(ctx context.Context, userID uint) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}

// ===========================
// 📢 Role Broadcast
//
// Fans out one message to every user holding any of the given roles:
// an in-app notification per user, plus an FCM push to their active
// devices. Push failures never fail the broadcast.
func (s *service) BroadcastToRoles(ctx context.Context, roles []string, title, body, category string) error {
	userIDs, err := s.collectUserIDs(roles)
	if err != nil {
		return err
	}
	if len(userIDs) == 0 {
		log.Printf("⚠️ Broadcast %q matched no users for roles %v\n", title, roles)
		return nil
	}

	notifications := make([]InAppNotification, 0, len(userIDs))
	for _, id := range userIDs {
		notifications = append(notifications, InAppNotification{
			UserID:   id,
			Title:    title,
			Message:  body,
			Category: category,
		})
	}
	if err := s.repo.CreateInAppBatch(ctx, notifications); err != nil {
		return err
	}

	entry := &NotificationLog{
		Title:      title,
		Category:   category,
		Recipients: len(userIDs),
		Status:     "sent",
	}
	if rolesJSON, err := json.Marshal(roles); err == nil {
		entry.Roles = datatypes.JSON(rolesJSON)
	}

	tokens, err := s.repo.ActiveTokensForUsers(ctx, userIDs)
	if err != nil {
		log.Printf("⚠️ Could not load device tokens for broadcast: %v\n", err)
	} else if len(tokens) > 0 {
		result, pushErr := sendPush(ctx, tokens, title, body)
		entry.PushSent = result.Sent
		entry.PushFailed = result.Failed
		if pushErr != nil {
			log.Printf("⚠️ Push delivery skipped: %v\n", pushErr)
		}
		if result.Failed > 0 {
			entry.Status = "partial"
		}
		if len(result.InvalidTokens) > 0 {
			if err := s.repo.DeactivateTokens(ctx, result.InvalidTokens); err != nil {
				log.Printf("⚠️ Could not deactivate %d stale tokens: %v\n", len(result.InvalidTokens), err)
			}
		}
	}

	if err := s.repo.CreateLog(ctx, entry); err != nil {
		log.Printf("⚠️ Could not write notification log: %v\n", err)
	}

	// Email fanout runs in the background and never blocks the broadcast
	if emails := s.collectEmails(roles); len(emails) > 0 {
		utils.SendBulkEmailsAsync(emails, title, body)
	}

	return nil
}

func (s *service) collectEmails(roles []string) []string {
	seen := make(map[string]struct{})
	var emails []string
	for _, role := range roles {
		addrs, err := s.userRepo.EmailsByRole(role)
		if err != nil {
			log.Printf("⚠️ Could not load emails for role %s: %v\n", role, err)
			continue
		}
		for _, addr := range addrs {
			if _, ok := seen[addr]; ok {
				continue
			}
			seen[addr] = struct{}{}
			emails = append(emails, addr)
		}
	}
	return emails
}

// collectUserIDs resolves roles to a deduplicated set of user IDs
func (s *service) collectUserIDs(roles []string) ([]uint, error) {
	seen := make(map[uint]struct{})
	var userIDs []uint
	for _, role := range roles {
		ids, err := s.userRepo.IDsByRole(role)
		if err != nil {
			return nil, err
		}
		for _, id := range ids {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			userIDs = append(userIDs, id)
		}
	}
	return userIDs, nil
}

// ===========================
// 📱 Device Tokens

func (s *service) RegisterDeviceToken(ctx context.Context, userID uint, req RegisterDeviceTokenRequest) error {
	return s.repo.UpsertDeviceToken(ctx, &FCMDeviceToken{
		UserID:      userID,
		DeviceToken: req.DeviceToken,
		DeviceType:  req.DeviceType,
		DeviceName:  req.DeviceName,
	})
}

func (s *service) RemoveDeviceToken(ctx context.Context, userID uint, deviceToken string) error {
	if deviceToken == "" {
		return errors.New("device token is required")
	}
	return s.repo.DeactivateDeviceToken(ctx, userID, deviceToken)
}
