package services

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/melodia-music/melodia-backend/internal/database"
	"github.com/melodia-music/melodia-backend/internal/models"
)

// ActivityChannel is the Redis Pub/Sub channel carrying new audit entries
// to websocket subscribers.
const ActivityChannel = "activities:feed"

// RecordActivity appends an audit entry and publishes it to the live feed.
// Audit recording is best-effort: a failure is logged, never surfaced to the
// request that triggered it.
func RecordActivity(ctx context.Context, userID, userName, action, detail string) {
	entry := models.Activity{
		CreatedAt: time.Now(),
		UserID:    userID,
		UserName:  userName,
		Action:    action,
		Detail:    detail,
	}

	if _, err := database.DB.Collection("activities").InsertOne(ctx, entry); err != nil {
		log.Printf("failed to record activity %q for %s: %v", action, userID, err)
		return
	}

	if database.RedisClient != nil {
		payload, err := json.Marshal(entry)
		if err == nil {
			if err := database.RedisClient.Publish(ctx, ActivityChannel, payload).Err(); err != nil {
				log.Printf("failed to publish activity to live feed: %v", err)
			}
		}
	}
}
