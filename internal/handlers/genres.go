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

const genresCacheKey = "genres:list"

type GenreRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func CreateGenre(w http.ResponseWriter, r *http.Request) {
	var req GenreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name == "" {
		failValidation(w, map[string]string{"name": "Genre name is required"})
		return
	}

	genres := database.DB.Collection("genres")
	count, err := genres.CountDocuments(r.Context(), bson.M{"name": req.Name})
	if err != nil {
		internalError(w)
		return
	}
	if count > 0 {
		fail(w, http.StatusBadRequest, "Genre already exists")
		return
	}

	now := time.Now()
	genre := models.Genre{
		CreatedAt:   now,
		UpdatedAt:   now,
		Name:        req.Name,
		Description: req.Description,
	}

	res, err := genres.InsertOne(r.Context(), genre)
	if err != nil {
		internalError(w)
		return
	}
	genre.ID = res.InsertedID.(primitive.ObjectID)

	cache.Invalidate(r.Context(), genresCacheKey)
	services.RecordActivity(r.Context(), middleware.CallerID(r.Context()), "", models.ActionCatalogCreate, "genre created: "+genre.Name)

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "Genre created successfully",
		"data":    genre,
	})
}

// GetGenres serves the full genre list, cached in Redis.
func GetGenres(w http.ResponseWriter, r *http.Request) {
	var cached map[string]interface{}
	if hit, _ := cache.Get(r.Context(), genresCacheKey, &cached); hit {
		respondJSON(w, http.StatusOK, cached)
		return
	}

	cursor, err := database.DB.Collection("genres").Find(r.Context(), bson.M{},
		options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		internalError(w)
		return
	}

	list := []models.Genre{}
	if err := cursor.All(r.Context(), &list); err != nil {
		internalError(w)
		return
	}

	resp := map[string]interface{}{"success": true, "data": list}
	cache.Set(r.Context(), genresCacheKey, resp)
	respondJSON(w, http.StatusOK, resp)
}

func UpdateGenre(w http.ResponseWriter, r *http.Request) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		fail(w, http.StatusBadRequest, "Invalid genre id")
		return
	}

	var req GenreRequest
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

	var genre models.Genre
	err = database.DB.Collection("genres").FindOneAndUpdate(
		r.Context(),
		bson.M{"_id": oid},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&genre)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			fail(w, http.StatusNotFound, "Genre not found")
			return
		}
		internalError(w)
		return
	}

	cache.Invalidate(r.Context(), genresCacheKey)
	services.RecordActivity(r.Context(), middleware.CallerID(r.Context()), "", models.ActionCatalogUpdate, "genre updated: "+genre.Name)

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Genre updated successfully",
		"data":    genre,
	})
}

func DeleteGenre(w http.ResponseWriter, r *http.Request) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		fail(w, http.StatusBadRequest, "Invalid genre id")
		return
	}

	var genre models.Genre
	err = database.DB.Collection("genres").FindOneAndDelete(r.Context(), bson.M{"_id": oid}).Decode(&genre)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			fail(w, http.StatusNotFound, "Genre not found")
			return
		}
		internalError(w)
		return
	}

	cache.Invalidate(r.Context(), genresCacheKey)
	services.RecordActivity(r.Context(), middleware.CallerID(r.Context()), "", models.ActionCatalogDelete, "genre deleted: "+genre.Name)

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Genre deleted successfully",
	})
}
