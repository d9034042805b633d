package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/melodia-music/melodia-backend/internal/database"
	"github.com/melodia-music/melodia-backend/internal/middleware"
	"github.com/melodia-music/melodia-backend/internal/models"
)

type FavouriteRequest struct {
	SongID string `json:"song_id"`
}

// ToggleFavourite adds the song to the caller's favourites, or removes it
// if already present.
func ToggleFavourite(w http.ResponseWriter, r *http.Request) {
	userID, err := primitive.ObjectIDFromHex(middleware.CallerID(r.Context()))
	if err != nil {
		fail(w, http.StatusForbidden, "A user account is required for favourites")
		return
	}

	var req FavouriteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	songID, err := primitive.ObjectIDFromHex(req.SongID)
	if err != nil {
		failValidation(w, map[string]string{"song_id": "A valid song id is required"})
		return
	}

	count, err := database.DB.Collection("songs").CountDocuments(r.Context(), bson.M{"_id": songID})
	if err != nil {
		internalError(w)
		return
	}
	if count == 0 {
		fail(w, http.StatusNotFound, "Song not found")
		return
	}

	favourites := database.DB.Collection("favourites")
	filter := bson.M{"user_id": userID, "song_id": songID}

	err = favourites.FindOneAndDelete(r.Context(), filter).Err()
	if err == nil {
		respondJSON(w, http.StatusOK, map[string]interface{}{
			"success":    true,
			"message":    "Removed from favourites",
			"favourited": false,
		})
		return
	}
	if err != mongo.ErrNoDocuments {
		internalError(w)
		return
	}

	_, err = favourites.InsertOne(r.Context(), models.Favourite{
		CreatedAt: time.Now(),
		UserID:    userID,
		SongID:    songID,
	})
	if err != nil {
		internalError(w)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"message":    "Added to favourites",
		"favourited": true,
	})
}

// GetFavourites lists the caller's favourite songs, newest first.
func GetFavourites(w http.ResponseWriter, r *http.Request) {
	userID, err := primitive.ObjectIDFromHex(middleware.CallerID(r.Context()))
	if err != nil {
		fail(w, http.StatusForbidden, "A user account is required for favourites")
		return
	}

	page, limit := pagination(r, 20)

	favourites := database.DB.Collection("favourites")
	filter := bson.M{"user_id": userID}

	total, err := favourites.CountDocuments(r.Context(), filter)
	if err != nil {
		internalError(w)
		return
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := favourites.Find(r.Context(), filter, opts)
	if err != nil {
		internalError(w)
		return
	}

	favs := []models.Favourite{}
	if err := cursor.All(r.Context(), &favs); err != nil {
		internalError(w)
		return
	}

	// Resolve the favourited songs in one query.
	songIDs := make([]primitive.ObjectID, 0, len(favs))
	for _, f := range favs {
		songIDs = append(songIDs, f.SongID)
	}

	songs := []models.Song{}
	if len(songIDs) > 0 {
		songCursor, err := database.DB.Collection("songs").Find(r.Context(), bson.M{"_id": bson.M{"$in": songIDs}})
		if err != nil {
			internalError(w)
			return
		}
		if err := songCursor.All(r.Context(), &songs); err != nil {
			internalError(w)
			return
		}
	}

	respondJSON(w, http.StatusOK, listResponse(songs, total, page, limit))
}
