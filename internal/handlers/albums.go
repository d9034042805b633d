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
	"github.com/melodia-music/melodia-backend/internal/services"
)

type AlbumRequest struct {
	Title       string `json:"title"`
	ArtistID    string `json:"artist_id"`
	GenreID     string `json:"genre_id"`
	CoverURL    string `json:"cover_url"`
	ReleaseYear int    `json:"release_year"`
}

func CreateAlbum(w http.ResponseWriter, r *http.Request) {
	var req AlbumRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	fieldErrors := map[string]string{}
	if req.Title == "" {
		fieldErrors["title"] = "Album title is required"
	}
	artistID, err := primitive.ObjectIDFromHex(req.ArtistID)
	if err != nil {
		fieldErrors["artist_id"] = "A valid artist id is required"
	}
	if len(fieldErrors) > 0 {
		failValidation(w, fieldErrors)
		return
	}

	// The referenced artist must exist.
	count, err := database.DB.Collection("artists").CountDocuments(r.Context(), bson.M{"_id": artistID})
	if err != nil {
		internalError(w)
		return
	}
	if count == 0 {
		fail(w, http.StatusNotFound, "Artist not found")
		return
	}

	now := time.Now()
	album := models.Album{
		CreatedAt:   now,
		UpdatedAt:   now,
		Title:       req.Title,
		ArtistID:    artistID,
		CoverURL:    req.CoverURL,
		ReleaseYear: req.ReleaseYear,
	}
	if req.GenreID != "" {
		if genreID, err := primitive.ObjectIDFromHex(req.GenreID); err == nil {
			album.GenreID = genreID
		}
	}

	res, err := database.DB.Collection("albums").InsertOne(r.Context(), album)
	if err != nil {
		internalError(w)
		return
	}
	album.ID = res.InsertedID.(primitive.ObjectID)

	services.RecordActivity(r.Context(), middleware.CallerID(r.Context()), "", models.ActionCatalogCreate, "album created: "+album.Title)

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "Album created successfully",
		"data":    album,
	})
}

func GetAlbums(w http.ResponseWriter, r *http.Request) {
	page, limit := pagination(r, 20)

	filter := bson.M{}
	if search := r.URL.Query().Get("search"); search != "" {
		filter["title"] = bson.M{"$regex": primitive.Regex{Pattern: search, Options: "i"}}
	}
	if artistID := r.URL.Query().Get("artist_id"); artistID != "" {
		oid, err := primitive.ObjectIDFromHex(artistID)
		if err != nil {
			fail(w, http.StatusBadRequest, "Invalid artist id")
			return
		}
		filter["artist_id"] = oid
	}

	albums := database.DB.Collection("albums")
	total, err := albums.CountDocuments(r.Context(), filter)
	if err != nil {
		internalError(w)
		return
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := albums.Find(r.Context(), filter, opts)
	if err != nil {
		internalError(w)
		return
	}

	list := []models.Album{}
	if err := cursor.All(r.Context(), &list); err != nil {
		internalError(w)
		return
	}

	respondJSON(w, http.StatusOK, listResponse(list, total, page, limit))
}

func GetAlbum(w http.ResponseWriter, r *http.Request) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		fail(w, http.StatusBadRequest, "Invalid album id")
		return
	}

	var album models.Album
	if err := database.DB.Collection("albums").FindOne(r.Context(), bson.M{"_id": oid}).Decode(&album); err != nil {
		if err == mongo.ErrNoDocuments {
			fail(w, http.StatusNotFound, "Album not found")
			return
		}
		internalError(w)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"success": true, "data": album})
}

func UpdateAlbum(w http.ResponseWriter, r *http.Request) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		fail(w, http.StatusBadRequest, "Invalid album id")
		return
	}

	var req AlbumRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	set := bson.M{"updated_at": time.Now()}
	if req.Title != "" {
		set["title"] = req.Title
	}
	if req.CoverURL != "" {
		set["cover_url"] = req.CoverURL
	}
	if req.ReleaseYear != 0 {
		set["release_year"] = req.ReleaseYear
	}
	if req.ArtistID != "" {
		artistID, err := primitive.ObjectIDFromHex(req.ArtistID)
		if err != nil {
			failValidation(w, map[string]string{"artist_id": "A valid artist id is required"})
			return
		}
		set["artist_id"] = artistID
	}
	if req.GenreID != "" {
		genreID, err := primitive.ObjectIDFromHex(req.GenreID)
		if err != nil {
			failValidation(w, map[string]string{"genre_id": "A valid genre id is required"})
			return
		}
		set["genre_id"] = genreID
	}

	var album models.Album
	err = database.DB.Collection("albums").FindOneAndUpdate(
		r.Context(),
		bson.M{"_id": oid},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&album)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			fail(w, http.StatusNotFound, "Album not found")
			return
		}
		internalError(w)
		return
	}

	services.RecordActivity(r.Context(), middleware.CallerID(r.Context()), "", models.ActionCatalogUpdate, "album updated: "+album.Title)

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Album updated successfully",
		"data":    album,
	})
}

func DeleteAlbum(w http.ResponseWriter, r *http.Request) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		fail(w, http.StatusBadRequest, "Invalid album id")
		return
	}

	var album models.Album
	err = database.DB.Collection("albums").FindOneAndDelete(r.Context(), bson.M{"_id": oid}).Decode(&album)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			fail(w, http.StatusNotFound, "Album not found")
			return
		}
		internalError(w)
		return
	}

	services.RecordActivity(r.Context(), middleware.CallerID(r.Context()), "", models.ActionCatalogDelete, "album deleted: "+album.Title)

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Album deleted successfully",
	})
}
