package handlers

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/melodia-music/melodia-backend/internal/database"
	"github.com/melodia-music/melodia-backend/internal/models"
	"github.com/melodia-music/melodia-backend/internal/services"
	"github.com/melodia-music/melodia-backend/pkg/utils"
)

// ResetTokenTTL bounds how long an emailed reset link stays valid.
const ResetTokenTTL = 5 * time.Minute

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

type ResetPasswordRequest struct {
	Token           string `json:"token"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

// hashResetToken is the at-rest form of a reset token; the raw value is only
// ever emailed.
func hashResetToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// ForgotPassword issues a single-use, time-boxed reset token. A repeat
// request overwrites the previous token; only the latest one is valid.
func ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req ForgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Email == "" {
		failValidation(w, map[string]string{"email": "Email is required"})
		return
	}

	users := database.DB.Collection("users")

	var user models.User
	if err := users.FindOne(r.Context(), bson.M{"email": req.Email}).Decode(&user); err != nil {
		if err == mongo.ErrNoDocuments {
			fail(w, http.StatusNotFound, "No account found with that email")
			return
		}
		internalError(w)
		return
	}

	raw := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, raw); err != nil {
		internalError(w)
		return
	}
	token := hex.EncodeToString(raw)

	_, err := users.UpdateByID(r.Context(), user.ID, bson.M{"$set": bson.M{
		"reset_password_token":   hashResetToken(token),
		"reset_password_expires": time.Now().Add(ResetTokenTTL),
	}})
	if err != nil {
		internalError(w)
		return
	}

	if mailer == nil {
		internalError(w)
		return
	}
	resetURL := cfg.FrontendURL + "/reset-password/" + token
	if err := mailer.SendPasswordReset(user.Email, resetURL); err != nil {
		internalError(w)
		return
	}

	services.RecordActivity(r.Context(), user.ID.Hex(), user.Name, models.ActionForgotPassword, "password reset requested")

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Password reset email sent",
	})
}

// ResetPassword consumes a reset token: the new password is written and the
// token cleared in the same update, so a second attempt with the same token
// finds nothing.
func ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	fieldErrors := map[string]string{}
	if req.Token == "" {
		fieldErrors["token"] = "Reset token is required"
	}
	if req.NewPassword == "" {
		fieldErrors["newPassword"] = "New password is required"
	}
	if req.ConfirmPassword == "" {
		fieldErrors["confirmPassword"] = "Password confirmation is required"
	}
	if len(fieldErrors) > 0 {
		failValidation(w, fieldErrors)
		return
	}
	if req.NewPassword != req.ConfirmPassword {
		failValidation(w, map[string]string{
			"confirmPassword": "New password and confirmation do not match",
		})
		return
	}

	hashed, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		internalError(w)
		return
	}

	users := database.DB.Collection("users")

	var user models.User
	err = users.FindOneAndUpdate(
		r.Context(),
		bson.M{
			"reset_password_token":   hashResetToken(req.Token),
			"reset_password_expires": bson.M{"$gt": time.Now()},
		},
		bson.M{
			"$set":   bson.M{"password": hashed, "updated_at": time.Now()},
			"$unset": bson.M{"reset_password_token": "", "reset_password_expires": ""},
		},
	).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			fail(w, http.StatusNotFound, "Reset token is invalid or has expired")
			return
		}
		internalError(w)
		return
	}

	services.RecordActivity(r.Context(), user.ID.Hex(), user.Name, models.ActionResetPassword, "password reset completed")

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Password has been reset, you can now log in",
	})
}
