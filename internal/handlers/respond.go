package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/melodia-music/melodia-backend/internal/config"
	"github.com/melodia-music/melodia-backend/internal/services"
	"github.com/melodia-music/melodia-backend/pkg/utils"
)

// Shared collaborators, wired once from main. The envelope codec's key is
// generated at startup and reused for every envelope the process produces.
var (
	cfg               *config.Config
	tokens            *services.TokenIssuer
	codec             *utils.Codec
	mailer            *services.Mailer
	cloudinaryService *services.CloudinaryService
	cache             = &services.CacheService{}
)

// InitAuth wires the token issuer and envelope codec from configuration.
func InitAuth(c *config.Config) error {
	cfg = c
	tokens = services.NewTokenIssuer(c.JWTSecret)

	var err error
	codec, err = utils.NewCodec()
	if err != nil {
		return err
	}

	initGoogleOAuth(c)
	return nil
}

// Tokens exposes the issuer for route-level auth middleware.
func Tokens() *services.TokenIssuer {
	return tokens
}

// InitMailer wires the SMTP mailer. Optional: when unset, forgot-password
// requests fail with Internal.
func InitMailer(c *config.Config) error {
	m, err := services.NewMailer(c.SMTPHost, c.SMTPPort, c.SMTPUser, c.SMTPPassword, c.SMTPFrom)
	if err != nil {
		return err
	}
	mailer = m
	return nil
}

// InitCloudinaryService wires the media uploader.
func InitCloudinaryService(c *config.Config) error {
	service, err := services.NewCloudinaryService(c.CloudinaryName, c.CloudinaryAPIKey, c.CloudinaryAPISecret)
	if err != nil {
		return err
	}
	cloudinaryService = service
	return nil
}

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// fail writes the flat failure body shared by every error path.
func fail(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]interface{}{
		"success": false,
		"message": message,
	})
}

// failValidation enumerates per-field messages alongside the generic body.
func failValidation(w http.ResponseWriter, fieldErrors map[string]string) {
	respondJSON(w, http.StatusBadRequest, map[string]interface{}{
		"success": false,
		"message": "Validation failed",
		"errors":  fieldErrors,
	})
}

func internalError(w http.ResponseWriter) {
	fail(w, http.StatusInternalServerError, "Something went wrong, please try again")
}
