package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/melodia-music/melodia-backend/internal/database"
	"github.com/melodia-music/melodia-backend/internal/middleware"
	"github.com/melodia-music/melodia-backend/internal/models"
	"github.com/melodia-music/melodia-backend/internal/services"
)

const songsCacheKey = "songs:list"

// songTypeFromResource maps a Cloudinary resource type to the song media
// kind. Cloudinary reports audio assets under the "video" resource type, so
// the container format decides: known video containers are video, the rest
// is audio.
func songTypeFromResource(resourceType, format string) string {
	if resourceType == "video" {
		switch format {
		case "mp4", "webm", "mov", "avi", "mkv":
			return models.SongTypeVideo
		}
	}
	return models.SongTypeAudio
}

// CreateSong accepts multipart form data: song metadata plus an optional
// media file uploaded straight to Cloudinary. The song type is inferred
// from the uploaded asset, defaulting to audio.
func CreateSong(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(50 << 20); err != nil { // 50MB
		fail(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	title := r.FormValue("title")
	artistIDRaw := r.FormValue("artist_id")

	fieldErrors := map[string]string{}
	if title == "" {
		fieldErrors["title"] = "Song title is required"
	}
	artistID, err := primitive.ObjectIDFromHex(artistIDRaw)
	if err != nil {
		fieldErrors["artist_id"] = "A valid artist id is required"
	}
	if len(fieldErrors) > 0 {
		failValidation(w, fieldErrors)
		return
	}

	duration, _ := strconv.Atoi(r.FormValue("duration"))

	now := time.Now()
	song := models.Song{
		CreatedAt: now,
		UpdatedAt: now,
		Title:     title,
		ArtistID:  artistID,
		Duration:  duration,
		Type:      models.SongTypeAudio,
	}
	if albumID, err := primitive.ObjectIDFromHex(r.FormValue("album_id")); err == nil {
		song.AlbumID = albumID
	}
	if genreID, err := primitive.ObjectIDFromHex(r.FormValue("genre_id")); err == nil {
		song.GenreID = genreID
	}

	if files := r.MultipartForm.File["media"]; len(files) > 0 {
		if cloudinaryService == nil {
			fail(w, http.StatusInternalServerError, "File upload service not available")
			return
		}
		result, err := cloudinaryService.UploadFileFromHeader(r.Context(), files[0], "melodia/songs")
		if err != nil {
			fail(w, http.StatusInternalServerError, "Failed to upload media file")
			return
		}
		song.MediaURL = result.URL
		song.Type = songTypeFromResource(result.ResourceType, formatOf(files[0].Filename))
	}

	res, err := database.DB.Collection("songs").InsertOne(r.Context(), song)
	if err != nil {
		internalError(w)
		return
	}
	song.ID = res.InsertedID.(primitive.ObjectID)

	cache.Invalidate(r.Context(), songsCacheKey)
	services.RecordActivity(r.Context(), middleware.CallerID(r.Context()), "", models.ActionCatalogCreate, "song created: "+song.Title)

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "Song created successfully",
		"data":    song,
	})
}

func GetSongs(w http.ResponseWriter, r *http.Request) {
	page, limit := pagination(r, 20)
	search := r.URL.Query().Get("search")
	genreID := r.URL.Query().Get("genre_id")

	useCache := search == "" && genreID == "" && page == 1
	if useCache {
		var cached map[string]interface{}
		if hit, _ := cache.Get(r.Context(), songsCacheKey, &cached); hit {
			respondJSON(w, http.StatusOK, cached)
			return
		}
	}

	filter := bson.M{}
	if search != "" {
		filter["title"] = bson.M{"$regex": primitive.Regex{Pattern: search, Options: "i"}}
	}
	if genreID != "" {
		oid, err := primitive.ObjectIDFromHex(genreID)
		if err != nil {
			fail(w, http.StatusBadRequest, "Invalid genre id")
			return
		}
		filter["genre_id"] = oid
	}

	songs := database.DB.Collection("songs")
	total, err := songs.CountDocuments(r.Context(), filter)
	if err != nil {
		internalError(w)
		return
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := songs.Find(r.Context(), filter, opts)
	if err != nil {
		internalError(w)
		return
	}

	list := []models.Song{}
	if err := cursor.All(r.Context(), &list); err != nil {
		internalError(w)
		return
	}

	resp := listResponse(list, total, page, limit)
	if useCache {
		cache.Set(r.Context(), songsCacheKey, resp)
	}
	respondJSON(w, http.StatusOK, resp)
}

func GetSong(w http.ResponseWriter, r *http.Request) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		fail(w, http.StatusBadRequest, "Invalid song id")
		return
	}

	var song models.Song
	if err := database.DB.Collection("songs").FindOne(r.Context(), bson.M{"_id": oid}).Decode(&song); err != nil {
		if err == mongo.ErrNoDocuments {
			fail(w, http.StatusNotFound, "Song not found")
			return
		}
		internalError(w)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"success": true, "data": song})
}

type SongUpdateRequest struct {
	Title    string `json:"title"`
	ArtistID string `json:"artist_id"`
	AlbumID  string `json:"album_id"`
	GenreID  string `json:"genre_id"`
	Duration int    `json:"duration"`
}

func UpdateSong(w http.ResponseWriter, r *http.Request) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		fail(w, http.StatusBadRequest, "Invalid song id")
		return
	}

	var req SongUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	set := bson.M{"updated_at": time.Now()}
	if req.Title != "" {
		set["title"] = req.Title
	}
	if req.Duration != 0 {
		set["duration"] = req.Duration
	}
	for field, raw := range map[string]string{"artist_id": req.ArtistID, "album_id": req.AlbumID, "genre_id": req.GenreID} {
		if raw == "" {
			continue
		}
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			failValidation(w, map[string]string{field: "A valid id is required"})
			return
		}
		set[field] = id
	}

	var song models.Song
	err = database.DB.Collection("songs").FindOneAndUpdate(
		r.Context(),
		bson.M{"_id": oid},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&song)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			fail(w, http.StatusNotFound, "Song not found")
			return
		}
		internalError(w)
		return
	}

	cache.Invalidate(r.Context(), songsCacheKey)
	services.RecordActivity(r.Context(), middleware.CallerID(r.Context()), "", models.ActionCatalogUpdate, "song updated: "+song.Title)

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Song updated successfully",
		"data":    song,
	})
}

func DeleteSong(w http.ResponseWriter, r *http.Request) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		fail(w, http.StatusBadRequest, "Invalid song id")
		return
	}

	var song models.Song
	err = database.DB.Collection("songs").FindOneAndDelete(r.Context(), bson.M{"_id": oid}).Decode(&song)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			fail(w, http.StatusNotFound, "Song not found")
			return
		}
		internalError(w)
		return
	}

	cache.Invalidate(r.Context(), songsCacheKey)
	services.RecordActivity(r.Context(), middleware.CallerID(r.Context()), "", models.ActionCatalogDelete, "song deleted: "+song.Title)

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Song deleted successfully",
	})
}
