package handlers

import (
	"encoding/json"
	"log"
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
	"github.com/melodia-music/melodia-backend/pkg/utils"
)

type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Signup creates a local account. The password is hashed as an explicit
// pipeline step before persisting, and the response envelope never contains
// it.
func Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	fieldErrors := map[string]string{}
	if req.Name == "" {
		fieldErrors["name"] = "Name is required"
	}
	if req.Email == "" {
		fieldErrors["email"] = "Email is required"
	}
	if req.Password == "" {
		fieldErrors["password"] = "Password is required"
	}
	if req.Role == "" {
		req.Role = models.RoleUser
	}
	if req.Role != models.RoleUser && req.Role != models.RoleAdmin {
		fieldErrors["role"] = "Role must be user or admin"
	}
	if len(fieldErrors) > 0 {
		failValidation(w, fieldErrors)
		return
	}

	users := database.DB.Collection("users")

	count, err := users.CountDocuments(r.Context(), bson.M{"email": req.Email})
	if err != nil {
		internalError(w)
		return
	}
	if count > 0 {
		fail(w, http.StatusBadRequest, "User with this email already exists")
		return
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		internalError(w)
		return
	}

	now := time.Now()
	user := models.User{
		CreatedAt: now,
		UpdatedAt: now,
		Name:      req.Name,
		Email:     req.Email,
		Password:  hashed,
		Role:      req.Role,
		LoginType: models.LoginTypeLocal,
	}

	res, err := users.InsertOne(r.Context(), user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			fail(w, http.StatusBadRequest, "User with this email already exists")
			return
		}
		internalError(w)
		return
	}
	user.ID = res.InsertedID.(primitive.ObjectID)

	services.RecordActivity(r.Context(), user.ID.Hex(), user.Name, models.ActionSignup, "account created")

	envelope, err := codec.Encrypt(models.ProfileOf(&user, false))
	if err != nil {
		internalError(w)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "Account created successfully",
		"data":    envelope,
	})
}

// Login authenticates a local account. Unknown email and wrong password are
// indistinguishable to the caller.
func Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		failValidation(w, map[string]string{
			"email":    "Email is required",
			"password": "Password is required",
		})
		return
	}

	var user models.User
	err := database.DB.Collection("users").FindOne(r.Context(), bson.M{"email": req.Email}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			fail(w, http.StatusBadRequest, "Invalid email or password")
			return
		}
		internalError(w)
		return
	}

	if !utils.VerifyPassword(req.Password, user.Password) {
		fail(w, http.StatusBadRequest, "Invalid email or password")
		return
	}

	accessToken, err := tokens.IssueAccess(&user)
	if err != nil {
		internalError(w)
		return
	}
	refreshToken, err := tokens.IssueRefresh(&user)
	if err != nil {
		internalError(w)
		return
	}

	envelope, err := codec.Encrypt(models.ProfileOf(&user, true))
	if err != nil {
		internalError(w)
		return
	}

	services.RecordActivity(r.Context(), user.ID.Hex(), user.Name, models.ActionLogin, "logged in")

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":      true,
		"message":      "Login successful",
		"accessToken":  accessToken,
		"refreshToken": refreshToken,
		"data":         envelope,
	})
}

// updateFieldPolicy is the per-role field allowlist consulted before any
// mutation: admins may change only roles, users may change only their own
// name, email, or password.
var updateFieldPolicy = map[string]map[string]bool{
	models.RoleAdmin: {
		"role": true,
	},
	models.RoleUser: {
		"name":            true,
		"email":           true,
		"oldPassword":     true,
		"newPassword":     true,
		"confirmPassword": true,
	},
}

// checkUpdatePermission validates the caller's role and ownership against
// the submitted field set. Returns "" when allowed, else a refusal message.
func checkUpdatePermission(callerRole, callerID, targetID string, fields map[string]string) string {
	allowed, ok := updateFieldPolicy[callerRole]
	if !ok {
		return "You do not have permission to update users"
	}
	if callerRole != models.RoleAdmin && callerID != targetID {
		return "You can only update your own profile"
	}
	for field := range fields {
		if !allowed[field] {
			return "You are not allowed to update the field: " + field
		}
	}
	return ""
}

// UpdateUser applies a partial profile update. Password changes require the
// old password plus a matching confirmation, and only a changed password is
// re-hashed.
func UpdateUser(w http.ResponseWriter, r *http.Request) {
	targetID := chi.URLParam(r, "userId")
	oid, err := primitive.ObjectIDFromHex(targetID)
	if err != nil {
		fail(w, http.StatusBadRequest, "Invalid user id")
		return
	}

	var fields map[string]string
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	callerID := middleware.CallerID(r.Context())
	callerRole := middleware.CallerRole(r.Context())

	if msg := checkUpdatePermission(callerRole, callerID, targetID, fields); msg != "" {
		fail(w, http.StatusForbidden, msg)
		return
	}

	users := database.DB.Collection("users")

	var user models.User
	if err := users.FindOne(r.Context(), bson.M{"_id": oid}).Decode(&user); err != nil {
		if err == mongo.ErrNoDocuments {
			fail(w, http.StatusNotFound, "User not found")
			return
		}
		internalError(w)
		return
	}

	set := bson.M{"updated_at": time.Now()}
	if name, ok := fields["name"]; ok {
		set["name"] = name
	}
	if email, ok := fields["email"]; ok {
		set["email"] = email
	}
	if role, ok := fields["role"]; ok {
		if role != models.RoleUser && role != models.RoleAdmin {
			failValidation(w, map[string]string{"role": "Role must be user or admin"})
			return
		}
		set["role"] = role
	}

	oldPassword, hasOld := fields["oldPassword"]
	newPassword, hasNew := fields["newPassword"]
	confirmPassword, hasConfirm := fields["confirmPassword"]
	if hasOld || hasNew || hasConfirm {
		if !hasOld || !hasNew || !hasConfirm {
			failValidation(w, map[string]string{
				"password": "oldPassword, newPassword and confirmPassword are all required to change the password",
			})
			return
		}
		if !utils.VerifyPassword(oldPassword, user.Password) {
			fail(w, http.StatusBadRequest, "Old password is incorrect")
			return
		}
		if newPassword != confirmPassword {
			failValidation(w, map[string]string{
				"confirmPassword": "New password and confirmation do not match",
			})
			return
		}
		hashed, err := utils.HashPassword(newPassword)
		if err != nil {
			internalError(w)
			return
		}
		set["password"] = hashed
	}

	if err := users.FindOneAndUpdate(
		r.Context(),
		bson.M{"_id": oid},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&user); err != nil {
		internalError(w)
		return
	}

	action := models.ActionSelfUpdate
	if callerID != targetID {
		action = models.ActionAdminUpdate
	}
	services.RecordActivity(r.Context(), callerID, user.Name, action, "profile updated for "+user.Email)

	envelope, err := codec.Encrypt(models.ProfileOf(&user, true))
	if err != nil {
		internalError(w)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Profile updated successfully",
		"data":    envelope,
	})
}

// GuestAccess always succeeds: it issues a capability-limited token usable
// only on read-style endpoints.
func GuestAccess(w http.ResponseWriter, r *http.Request) {
	token, err := tokens.IssueGuest()
	if err != nil {
		internalError(w)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Guest access granted",
		"token":   token,
	})
}

// GetAllUsers lists users for the admin panel, passwords stripped.
func GetAllUsers(w http.ResponseWriter, r *http.Request) {
	page, limit := pagination(r, 20)

	users := database.DB.Collection("users")
	total, err := users.CountDocuments(r.Context(), bson.M{})
	if err != nil {
		internalError(w)
		return
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := users.Find(r.Context(), bson.M{}, opts)
	if err != nil {
		internalError(w)
		return
	}

	list := []models.User{}
	if err := cursor.All(r.Context(), &list); err != nil {
		internalError(w)
		return
	}

	respondJSON(w, http.StatusOK, listResponse(list, total, page, limit))
}

// DeleteUser removes a user record. Admin only; audited.
func DeleteUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		fail(w, http.StatusBadRequest, "Invalid user id")
		return
	}

	var user models.User
	err = database.DB.Collection("users").FindOneAndDelete(r.Context(), bson.M{"_id": oid}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			fail(w, http.StatusNotFound, "User not found")
			return
		}
		internalError(w)
		return
	}

	services.RecordActivity(r.Context(), middleware.CallerID(r.Context()), user.Name, models.ActionUserDeleted, "deleted account "+user.Email)
	log.Printf("user %s deleted by %s", user.Email, middleware.CallerID(r.Context()))

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "User deleted successfully",
	})
}

// pagination reads page/limit query params with sane bounds.
func pagination(r *http.Request, defaultLimit int) (page, limit int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 || limit > 100 {
		limit = defaultLimit
	}
	return page, limit
}

func listResponse(data interface{}, total int64, page, limit int) map[string]interface{} {
	totalPages := (total + int64(limit) - 1) / int64(limit)
	return map[string]interface{}{
		"success":    true,
		"data":       data,
		"total":      total,
		"page":       page,
		"totalPages": totalPages,
	}
}
