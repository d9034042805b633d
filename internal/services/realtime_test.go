package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/melodia-music/melodia-backend/internal/models"
)

func fanOut(entry models.Activity) {
	feedHub.mu.RLock()
	defer feedHub.mu.RUnlock()
	for ch := range feedHub.subscribers {
		select {
		case ch <- entry:
		default:
		}
	}
}

func TestSubscribeActivityFeed(t *testing.T) {
	ch, unsubscribe := SubscribeActivityFeed()
	defer unsubscribe()

	fanOut(models.Activity{Action: models.ActionLogin, UserName: "Ann"})

	select {
	case entry := <-ch:
		assert.Equal(t, models.ActionLogin, entry.Action)
		assert.Equal(t, "Ann", entry.UserName)
	case <-time.After(time.Second):
		t.Fatal("expected an activity entry")
	}
}

func TestSubscribeActivityFeed_UnsubscribeIsIdempotent(t *testing.T) {
	ch, unsubscribe := SubscribeActivityFeed()

	unsubscribe()
	unsubscribe() // second call must not panic or double-close

	_, open := <-ch
	require.False(t, open)

	// An unsubscribed channel no longer receives entries.
	fanOut(models.Activity{Action: models.ActionSignup})
}

func TestSubscribeActivityFeed_SlowSubscriberDoesNotBlock(t *testing.T) {
	ch, unsubscribe := SubscribeActivityFeed()
	defer unsubscribe()

	// Fill the buffer past capacity; extra entries are dropped, not blocking.
	done := make(chan struct{})
	go func() {
		for i := 0; i < 64; i++ {
			fanOut(models.Activity{Action: models.ActionLogin})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("fan-out blocked on a slow subscriber")
	}
	assert.NotEmpty(t, ch)
}
