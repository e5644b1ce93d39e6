package notification

import (
	"context"
	"fmt"
	"log"

	"firebase.google.com/go/v4/messaging"

	"github.com/jdblank/fire-backend/utils"
)

// pushResult summarizes one broadcast over FCM
type pushResult struct {
	Sent          int
	Failed        int
	InvalidTokens []string
}

// sendPush delivers a notification to the given device tokens in batches.
// FCM allows at most 500 tokens per multicast request.
func sendPush(ctx context.Context, tokens []string, title, body string) (pushResult, error) {
	var result pushResult

	if !utils.IsFCMEnabled() {
		return result, fmt.Errorf("FCM client not initialized")
	}
	if len(tokens) == 0 {
		return result, nil
	}

	client := utils.GetFCMClient()
	batchSize := 500

	for i := 0; i < len(tokens); i += batchSize {
		end := i + batchSize
		if end > len(tokens) {
			end = len(tokens)
		}
		batch := tokens[i:end]

		message := &messaging.MulticastMessage{
			Tokens: batch,
			Notification: &messaging.Notification{
				Title: title,
				Body:  body,
			},
			Android: &messaging.AndroidConfig{
				Priority: "high",
				Notification: &messaging.AndroidNotification{
					Sound:        "default",
					ChannelID:    "fire_notifications",
					Priority:     messaging.PriorityHigh,
					DefaultSound: true,
				},
			},
			APNS: &messaging.APNSConfig{
				Payload: &messaging.APNSPayload{
					Aps: &messaging.Aps{
						Sound: "default",
					},
				},
			},
			Webpush: &messaging.WebpushConfig{
				Notification: &messaging.WebpushNotification{
					Title: title,
					Body:  body,
					Icon:  "/icon-192x192.png",
				},
			},
		}

		response, err := client.SendMulticast(ctx, message)
		if err != nil {
			log.Printf("❌ FCM multicast batch failed: %v\n", err)
			result.Failed += len(batch)
			continue
		}

		result.Sent += response.SuccessCount
		result.Failed += response.FailureCount

		// Tokens FCM no longer recognizes get deactivated by the caller
		for idx, resp := range response.Responses {
			if !resp.Success && messaging.IsUnregistered(resp.Error) {
				result.InvalidTokens = append(result.InvalidTokens, batch[idx])
			}
		}
	}

	log.Printf("✅ FCM broadcast: %d sent, %d failed of %d tokens\n",
		result.Sent, result.Failed, len(tokens))
	return result, nil
}
