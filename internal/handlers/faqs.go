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
	"github.com/melodia-music/melodia-backend/internal/models"
)

type FAQRequest struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

func CreateFAQ(w http.ResponseWriter, r *http.Request) {
	var req FAQRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	fieldErrors := map[string]string{}
	if req.Question == "" {
		fieldErrors["question"] = "Question is required"
	}
	if req.Answer == "" {
		fieldErrors["answer"] = "Answer is required"
	}
	if len(fieldErrors) > 0 {
		failValidation(w, fieldErrors)
		return
	}

	now := time.Now()
	faq := models.FAQ{
		CreatedAt: now,
		UpdatedAt: now,
		Question:  req.Question,
		Answer:    req.Answer,
	}

	res, err := database.DB.Collection("faqs").InsertOne(r.Context(), faq)
	if err != nil {
		internalError(w)
		return
	}
	faq.ID = res.InsertedID.(primitive.ObjectID)

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "FAQ created successfully",
		"data":    faq,
	})
}

func GetFAQs(w http.ResponseWriter, r *http.Request) {
	cursor, err := database.DB.Collection("faqs").Find(r.Context(), bson.M{},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		internalError(w)
		return
	}

	list := []models.FAQ{}
	if err := cursor.All(r.Context(), &list); err != nil {
		internalError(w)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"success": true, "data": list})
}

func UpdateFAQ(w http.ResponseWriter, r *http.Request) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		fail(w, http.StatusBadRequest, "Invalid FAQ id")
		return
	}

	var req FAQRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	set := bson.M{"updated_at": time.Now()}
	if req.Question != "" {
		set["question"] = req.Question
	}
	if req.Answer != "" {
		set["answer"] = req.Answer
	}

	var faq models.FAQ
	err = database.DB.Collection("faqs").FindOneAndUpdate(
		r.Context(),
		bson.M{"_id": oid},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&faq)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			fail(w, http.StatusNotFound, "FAQ not found")
			return
		}
		internalError(w)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "FAQ updated successfully",
		"data":    faq,
	})
}

func DeleteFAQ(w http.ResponseWriter, r *http.Request) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		fail(w, http.StatusBadRequest, "Invalid FAQ id")
		return
	}

	err = database.DB.Collection("faqs").FindOneAndDelete(r.Context(), bson.M{"_id": oid}).Err()
	if err != nil {
		if err == mongo.ErrNoDocuments {
			fail(w, http.StatusNotFound, "FAQ not found")
			return
		}
		internalError(w)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "FAQ deleted successfully",
	})
}
