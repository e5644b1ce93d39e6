package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/jdblank/fire-backend/middleware"
	"github.com/jdblank/fire-backend/utils"
)

// StartConsumer reads the platform event stream and turns selected events
// into user-facing notifications. Runs until the context is cancelled.
// Intended to be launched as a goroutine from main.
func StartConsumer(ctx context.Context, svc Service) {
	reader := utils.NewPlatformReader("fire-notifications")
	defer reader.Close()

	log.Println("✅ Notification consumer started")

	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Println("🛑 Notification consumer stopped")
				return
			}
			log.Printf("⚠️ Notification consumer read error: %v\n", err)
			continue
		}

		var evt utils.PlatformEvent
		if err := json.Unmarshal(msg.Value, &evt); err != nil {
			log.Printf("⚠️ Skipping malformed platform event: %v\n", err)
			continue
		}

		if err := handlePlatformEvent(ctx, svc, evt); err != nil {
			log.Printf("⚠️ Could not handle %s: %v\n", evt.Type, err)
		}
	}
}

func handlePlatformEvent(ctx context.Context, svc Service, evt utils.PlatformEvent) error {
	switch evt.Type {
	case "event.cancelled":
		title, _ := evt.Payload["title"].(string)
		return svc.BroadcastToRoles(ctx,
			[]string{middleware.RoleMember, middleware.RoleOrganizer},
			"Event Cancelled",
			fmt.Sprintf("%s has been cancelled", title),
			"event")

	case "registration.confirmed":
		userID, ok := payloadUint(evt.Payload, "user_id")
		if !ok {
			return fmt.Errorf("registration.confirmed missing user_id")
		}
		return svc.CreateInAppNotification(ctx, userID,
			"Registration Confirmed",
			"Your spot is confirmed. See you there!",
			"registration")

	case "events.imported":
		count, _ := payloadUint(evt.Payload, "created_count")
		return svc.BroadcastToRoles(ctx,
			[]string{middleware.RoleMember},
			"New Events Added",
			fmt.Sprintf("%d new events are open for registration", count),
			"event")

	case "post.created":
		// Organizers and admins keep an eye on community activity
		return svc.BroadcastToRoles(ctx,
			[]string{middleware.RoleAdmin, middleware.RoleOrganizer},
			"New Community Post",
			"A new post is up on the feed",
			"feed")
	}

	// event.published is announced synchronously by the event service;
	// nothing to do here.
	return nil
}

// payloadUint reads a numeric payload field. JSON numbers decode as float64.
func payloadUint(payload map[string]interface{}, key string) (uint, bool) {
	v, ok := payload[key].(float64)
	if !ok || v < 0 {
		return 0, false
	}
	return uint(v), true
}
