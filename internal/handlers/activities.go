package handlers

import (
	"net/http"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/melodia-music/melodia-backend/internal/database"
	"github.com/melodia-music/melodia-backend/internal/models"
)

// GetActivities serves the admin audit feed, newest first.
func GetActivities(w http.ResponseWriter, r *http.Request) {
	page, limit := pagination(r, 50)

	filter := bson.M{}
	if action := r.URL.Query().Get("action"); action != "" {
		filter["action"] = action
	}
	if userID := r.URL.Query().Get("user_id"); userID != "" {
		filter["user_id"] = userID
	}

	activities := database.DB.Collection("activities")
	total, err := activities.CountDocuments(r.Context(), filter)
	if err != nil {
		internalError(w)
		return
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := activities.Find(r.Context(), filter, opts)
	if err != nil {
		internalError(w)
		return
	}

	list := []models.Activity{}
	if err := cursor.All(r.Context(), &list); err != nil {
		internalError(w)
		return
	}

	respondJSON(w, http.StatusOK, listResponse(list, total, page, limit))
}
