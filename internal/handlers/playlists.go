package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/melodia-music/melodia-backend/internal/database"
	"github.com/melodia-music/melodia-backend/internal/middleware"
	"github.com/melodia-music/melodia-backend/internal/models"
)

type PlaylistRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	CoverURL    string `json:"cover_url"`
}

// playlistOwnerFilter scopes queries so users only touch their own
// playlists while admins see everything.
func playlistOwnerFilter(r *http.Request, oid primitive.ObjectID) bson.M {
	filter := bson.M{"_id": oid}
	if middleware.CallerRole(r.Context()) != models.RoleAdmin {
		ownerID, err := primitive.ObjectIDFromHex(middleware.CallerID(r.Context()))
		if err == nil {
			filter["owner_id"] = ownerID
		}
	}
	return filter
}

func CreatePlaylist(w http.ResponseWriter, r *http.Request) {
	var req PlaylistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name == "" {
		failValidation(w, map[string]string{"name": "Playlist name is required"})
		return
	}

	ownerID, err := primitive.ObjectIDFromHex(middleware.CallerID(r.Context()))
	if err != nil {
		fail(w, http.StatusForbidden, "A user account is required to create playlists")
		return
	}

	now := time.Now()
	playlist := models.Playlist{
		CreatedAt:   now,
		UpdatedAt:   now,
		Name:        req.Name,
		Description: req.Description,
		CoverURL:    req.CoverURL,
		OwnerID:     ownerID,
		SongIDs:     []primitive.ObjectID{},
	}

	res, err := database.DB.Collection("playlists").InsertOne(r.Context(), playlist)
	if err != nil {
		internalError(w)
		return
	}
	playlist.ID = res.InsertedID.(primitive.ObjectID)

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "Playlist created successfully",
		"data":    playlist,
	})
}

func GetPlaylists(w http.ResponseWriter, r *http.Request) {
	page, limit := pagination(r, 20)

	filter := bson.M{}
	if middleware.CallerRole(r.Context()) != models.RoleAdmin {
		ownerID, err := primitive.ObjectIDFromHex(middleware.CallerID(r.Context()))
		if err != nil {
			fail(w, http.StatusForbidden, "A user account is required to list playlists")
			return
		}
		filter["owner_id"] = ownerID
	}

	playlists := database.DB.Collection("playlists")
	total, err := playlists.CountDocuments(r.Context(), filter)
	if err != nil {
		internalError(w)
		return
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := playlists.Find(r.Context(), filter, opts)
	if err != nil {
		internalError(w)
		return
	}

	list := []models.Playlist{}
	if err := cursor.All(r.Context(), &list); err != nil {
		internalError(w)
		return
	}

	respondJSON(w, http.StatusOK, listResponse(list, total, page, limit))
}

func GetPlaylist(w http.ResponseWriter, r *http.Request) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		fail(w, http.StatusBadRequest, "Invalid playlist id")
		return
	}

	var playlist models.Playlist
	if err := database.DB.Collection("playlists").FindOne(r.Context(), playlistOwnerFilter(r, oid)).Decode(&playlist); err != nil {
		if err == mongo.ErrNoDocuments {
			fail(w, http.StatusNotFound, "Playlist not found")
			return
		}
		internalError(w)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"success": true, "data": playlist})
}

func UpdatePlaylist(w http.ResponseWriter, r *http.Request) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		fail(w, http.StatusBadRequest, "Invalid playlist id")
		return
	}

	var req PlaylistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	set := bson.M{"updated_at": time.Now()}
	if req.Name != "" {
		set["name"] = req.Name
	}
	if req.Description != "" {
		set["description"] = req.Description
	}
	if req.CoverURL != "" {
		set["cover_url"] = req.CoverURL
	}

	var playlist models.Playlist
	err = database.DB.Collection("playlists").FindOneAndUpdate(
		r.Context(),
		playlistOwnerFilter(r, oid),
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&playlist)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			fail(w, http.StatusNotFound, "Playlist not found")
			return
		}
		internalError(w)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Playlist updated successfully",
		"data":    playlist,
	})
}

type PlaylistSongRequest struct {
	SongID string `json:"song_id"`
}

// AddPlaylistSong appends a song to the playlist, skipping duplicates.
func AddPlaylistSong(w http.ResponseWriter, r *http.Request) {
	playlistSongOp(w, r, "$addToSet")
}

// RemovePlaylistSong removes a song from the playlist.
func RemovePlaylistSong(w http.ResponseWriter, r *http.Request) {
	playlistSongOp(w, r, "$pull")
}

func playlistSongOp(w http.ResponseWriter, r *http.Request, op string) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		fail(w, http.StatusBadRequest, "Invalid playlist id")
		return
	}

	var req PlaylistSongRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	songID, err := primitive.ObjectIDFromHex(req.SongID)
	if err != nil {
		failValidation(w, map[string]string{"song_id": "A valid song id is required"})
		return
	}

	if op == "$addToSet" {
		count, err := database.DB.Collection("songs").CountDocuments(r.Context(), bson.M{"_id": songID})
		if err != nil {
			internalError(w)
			return
		}
		if count == 0 {
			fail(w, http.StatusNotFound, "Song not found")
			return
		}
	}

	var playlist models.Playlist
	err = database.DB.Collection("playlists").FindOneAndUpdate(
		r.Context(),
		playlistOwnerFilter(r, oid),
		bson.M{op: bson.M{"song_ids": songID}, "$set": bson.M{"updated_at": time.Now()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&playlist)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			fail(w, http.StatusNotFound, "Playlist not found")
			return
		}
		internalError(w)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Playlist updated successfully",
		"data":    playlist,
	})
}

func DeletePlaylist(w http.ResponseWriter, r *http.Request) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		fail(w, http.StatusBadRequest, "Invalid playlist id")
		return
	}

	err = database.DB.Collection("playlists").FindOneAndDelete(r.Context(), playlistOwnerFilter(r, oid)).Err()
	if err != nil {
		if err == mongo.ErrNoDocuments {
			fail(w, http.StatusNotFound, "Playlist not found")
			return
		}
		internalError(w)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Playlist deleted successfully",
	})
}
