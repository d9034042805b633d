package services

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/melodia-music/melodia-backend/internal/database"
	"github.com/melodia-music/melodia-backend/internal/models"
)

// activityHub fans incoming audit entries out to local websocket
// subscribers. Entries arrive over a single Redis subscription shared by
// every connection on this process.
type activityHub struct {
	mu          sync.RWMutex
	subscribers map[chan models.Activity]struct{}
}

var (
	feedHub     = &activityHub{subscribers: make(map[chan models.Activity]struct{})}
	feedStarted sync.Once
)

// SubscribeActivityFeed registers a subscriber for live audit entries and
// returns its channel plus an unsubscribe func. The Redis listener is
// started lazily on first use.
func SubscribeActivityFeed() (<-chan models.Activity, func()) {
	feedStarted.Do(startActivityListener)

	ch := make(chan models.Activity, 16)
	feedHub.mu.Lock()
	feedHub.subscribers[ch] = struct{}{}
	feedHub.mu.Unlock()

	unsubscribe := func() {
		feedHub.mu.Lock()
		if _, ok := feedHub.subscribers[ch]; ok {
			delete(feedHub.subscribers, ch)
			close(ch)
		}
		feedHub.mu.Unlock()
	}
	return ch, unsubscribe
}

func startActivityListener() {
	if database.RedisClient == nil {
		return
	}

	sub := database.RedisClient.Subscribe(context.Background(), ActivityChannel)
	go func() {
		for msg := range sub.Channel() {
			var entry models.Activity
			if err := json.Unmarshal([]byte(msg.Payload), &entry); err != nil {
				log.Printf("activity feed: dropping malformed payload: %v", err)
				continue
			}

			feedHub.mu.RLock()
			for ch := range feedHub.subscribers {
				select {
				case ch <- entry:
				default:
					// Slow subscriber; drop rather than block the feed.
				}
			}
			feedHub.mu.RUnlock()
		}
	}()
}
