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

const artistsCacheKey = "artists:list"

type ArtistRequest struct {
	Name     string `json:"name"`
	Bio      string `json:"bio"`
	ImageURL string `json:"image_url"`
}

func CreateArtist(w http.ResponseWriter, r *http.Request) {
	var req ArtistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name == "" {
		failValidation(w, map[string]string{"name": "Artist name is required"})
		return
	}

	now := time.Now()
	artist := models.Artist{
		CreatedAt: now,
		UpdatedAt: now,
		Name:      req.Name,
		Bio:       req.Bio,
		ImageURL:  req.ImageURL,
	}

	res, err := database.DB.Collection("artists").InsertOne(r.Context(), artist)
	if err != nil {
		internalError(w)
		return
	}
	artist.ID = res.InsertedID.(primitive.ObjectID)

	cache.Invalidate(r.Context(), artistsCacheKey)
	services.RecordActivity(r.Context(), middleware.CallerID(r.Context()), "", models.ActionCatalogCreate, "artist created: "+artist.Name)

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "Artist created successfully",
		"data":    artist,
	})
}

func GetArtists(w http.ResponseWriter, r *http.Request) {
	page, limit := pagination(r, 20)
	search := r.URL.Query().Get("search")

	// Only the unfiltered first page is cached; searches go to Mongo.
	useCache := search == "" && page == 1
	if useCache {
		var cached map[string]interface{}
		if hit, _ := cache.Get(r.Context(), artistsCacheKey, &cached); hit {
			respondJSON(w, http.StatusOK, cached)
			return
		}
	}

	filter := bson.M{}
	if search != "" {
		filter["name"] = bson.M{"$regex": primitive.Regex{Pattern: search, Options: "i"}}
	}

	artists := database.DB.Collection("artists")
	total, err := artists.CountDocuments(r.Context(), filter)
	if err != nil {
		internalError(w)
		return
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "name", Value: 1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := artists.Find(r.Context(), filter, opts)
	if err != nil {
		internalError(w)
		return
	}

	list := []models.Artist{}
	if err := cursor.All(r.Context(), &list); err != nil {
		internalError(w)
		return
	}

	resp := listResponse(list, total, page, limit)
	if useCache {
		cache.Set(r.Context(), artistsCacheKey, resp)
	}
	respondJSON(w, http.StatusOK, resp)
}

func GetArtist(w http.ResponseWriter, r *http.Request) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		fail(w, http.StatusBadRequest, "Invalid artist id")
		return
	}

	var artist models.Artist
	if err := database.DB.Collection("artists").FindOne(r.Context(), bson.M{"_id": oid}).Decode(&artist); err != nil {
		if err == mongo.ErrNoDocuments {
			fail(w, http.StatusNotFound, "Artist not found")
			return
		}
		internalError(w)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"success": true, "data": artist})
}

func UpdateArtist(w http.ResponseWriter, r *http.Request) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		fail(w, http.StatusBadRequest, "Invalid artist id")
		return
	}

	var req ArtistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	set := bson.M{"updated_at": time.Now()}
	if req.Name != "" {
		set["name"] = req.Name
	}
	if req.Bio != "" {
		set["bio"] = req.Bio
	}
	if req.ImageURL != "" {
		set["image_url"] = req.ImageURL
	}

	var artist models.Artist
	err = database.DB.Collection("artists").FindOneAndUpdate(
		r.Context(),
		bson.M{"_id": oid},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&artist)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			fail(w, http.StatusNotFound, "Artist not found")
			return
		}
		internalError(w)
		return
	}

	cache.Invalidate(r.Context(), artistsCacheKey)
	// Audit is attributed to the authenticated caller.
	services.RecordActivity(r.Context(), middleware.CallerID(r.Context()), "", models.ActionCatalogUpdate, "artist updated: "+artist.Name)

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Artist updated successfully",
		"data":    artist,
	})
}

func DeleteArtist(w http.ResponseWriter, r *http.Request) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		fail(w, http.StatusBadRequest, "Invalid artist id")
		return
	}

	var artist models.Artist
	err = database.DB.Collection("artists").FindOneAndDelete(r.Context(), bson.M{"_id": oid}).Decode(&artist)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			fail(w, http.StatusNotFound, "Artist not found")
			return
		}
		internalError(w)
		return
	}

	cache.Invalidate(r.Context(), artistsCacheKey)
	services.RecordActivity(r.Context(), middleware.CallerID(r.Context()), "", models.ActionCatalogDelete, "artist deleted: "+artist.Name)

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Artist deleted successfully",
	})
}
