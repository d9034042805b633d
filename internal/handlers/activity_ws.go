package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/melodia-music/melodia-backend/internal/middleware"
	"github.com/melodia-music/melodia-backend/internal/models"
	"github.com/melodia-music/melodia-backend/internal/services"
)

var feedUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// CORS for WebSocket is handled at the HTTP layer already.
		return true
	},
}

// ActivityFeedWS streams new audit entries to an admin over WebSocket.
// Browser WebSocket clients cannot set headers, so the token is accepted
// via the `token` query parameter as well.
func ActivityFeedWS(w http.ResponseWriter, r *http.Request) {
	token := middleware.ExtractBearerToken(r.Header.Get("Authorization"))
	if token == "" {
		token = r.URL.Query().Get("token")
	}
	if token == "" {
		fail(w, http.StatusUnauthorized, "Authorization token is required")
		return
	}

	claims, err := tokens.Validate(token)
	if err != nil {
		if errors.Is(err, services.ErrExpiredToken) {
			fail(w, http.StatusUnauthorized, "Token has expired, please log in again")
		} else {
			fail(w, http.StatusUnauthorized, "Invalid authorization token")
		}
		return
	}
	if claims.Role != models.RoleAdmin {
		fail(w, http.StatusForbidden, "You do not have permission to access this resource")
		return
	}

	conn, err := feedUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	entries, unsubscribe := services.SubscribeActivityFeed()
	defer unsubscribe()

	// Reader loop only services pings; clients never send feed data.
	go func() {
		conn.SetReadLimit(1024)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				unsubscribe()
				return
			}
		}
	}()

	ping := time.NewTicker(30 * time.Second)
	defer ping.Stop()

	for {
		select {
		case entry, ok := <-entries:
			if !ok {
				return
			}
			if err := conn.WriteJSON(entry); err != nil {
				return
			}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second)); err != nil {
				return
			}
		}
	}
}
