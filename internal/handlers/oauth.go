package handlers

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/melodia-music/melodia-backend/internal/config"
	"github.com/melodia-music/melodia-backend/internal/database"
	"github.com/melodia-music/melodia-backend/internal/models"
	"github.com/melodia-music/melodia-backend/internal/services"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

var googleOAuth *oauth2.Config

func initGoogleOAuth(c *config.Config) {
	googleOAuth = &oauth2.Config{
		ClientID:     c.GoogleClientID,
		ClientSecret: c.GoogleClientSecret,
		RedirectURL:  c.GoogleRedirectURL,
		Scopes:       []string{"openid", "email", "profile"},
		Endpoint:     google.Endpoint,
	}
}

type googleProfile struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// GoogleBegin starts the OAuth handshake by redirecting to the consent
// screen. The state value is echoed back via cookie to bind the callback to
// this browser.
func GoogleBegin(w http.ResponseWriter, r *http.Request) {
	stateBytes := make([]byte, 16)
	if _, err := io.ReadFull(rand.Reader, stateBytes); err != nil {
		internalError(w)
		return
	}
	state := hex.EncodeToString(stateBytes)

	http.SetCookie(w, &http.Cookie{
		Name:     "oauth_state",
		Value:    state,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(10 * time.Minute),
	})

	http.Redirect(w, r, googleOAuth.AuthCodeURL(state), http.StatusTemporaryRedirect)
}

// GoogleCallback completes the handshake: exchange the code, fetch the
// profile, provision-or-match the account, and redirect the browser to the
// frontend with a URL-encoded JSON payload. Unlike login/update, this path
// carries the profile in cleartext.
func GoogleCallback(w http.ResponseWriter, r *http.Request) {
	stateCookie, err := r.Cookie("oauth_state")
	if err != nil || stateCookie.Value == "" || r.URL.Query().Get("state") != stateCookie.Value {
		redirectWithError(w, r, "OAuth state mismatch")
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		redirectWithError(w, r, "Missing authorization code")
		return
	}

	token, err := googleOAuth.Exchange(r.Context(), code)
	if err != nil {
		redirectWithError(w, r, "Failed to exchange authorization code")
		return
	}

	profile, err := fetchGoogleProfile(r.Context(), googleOAuth.Client(r.Context(), token))
	if err != nil {
		redirectWithError(w, r, "Failed to fetch Google profile")
		return
	}

	user, errMsg := findOrCreateGoogleUser(r.Context(), profile)
	if errMsg != "" {
		redirectWithError(w, r, errMsg)
		return
	}

	accessToken, err := tokens.IssueAccess(user)
	if err != nil {
		redirectWithError(w, r, "Failed to issue session tokens")
		return
	}
	refreshToken, err := tokens.IssueRefresh(user)
	if err != nil {
		redirectWithError(w, r, "Failed to issue session tokens")
		return
	}

	payload, err := json.Marshal(map[string]interface{}{
		"user":         models.ProfileOf(user, true),
		"accessToken":  accessToken,
		"refreshToken": refreshToken,
	})
	if err != nil {
		redirectWithError(w, r, "Failed to build session payload")
		return
	}

	http.Redirect(w, r,
		cfg.FrontendURL+"/oauth/callback?payload="+url.QueryEscape(string(payload)),
		http.StatusTemporaryRedirect)
}

// VerifyToken exchanges a provider access token for a local session. Used by
// clients that run the Google flow themselves.
func VerifyToken(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AccessToken string `json:"accessToken"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.AccessToken == "" {
		failValidation(w, map[string]string{"accessToken": "Provider access token is required"})
		return
	}

	client := oauth2.NewClient(r.Context(), oauth2.StaticTokenSource(&oauth2.Token{AccessToken: req.AccessToken}))
	profile, err := fetchGoogleProfile(r.Context(), client)
	if err != nil {
		fail(w, http.StatusUnauthorized, "Provider token could not be verified")
		return
	}

	user, errMsg := findOrCreateGoogleUser(r.Context(), profile)
	if errMsg != "" {
		fail(w, http.StatusBadRequest, errMsg)
		return
	}

	accessToken, err := tokens.IssueAccess(user)
	if err != nil {
		internalError(w)
		return
	}
	refreshToken, err := tokens.IssueRefresh(user)
	if err != nil {
		internalError(w)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":      true,
		"message":      "Login successful",
		"accessToken":  accessToken,
		"refreshToken": refreshToken,
		"user":         models.ProfileOf(user, true),
	})
}

func fetchGoogleProfile(ctx context.Context, client *http.Client) (*googleProfile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, googleUserInfoURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo request failed with status %d", resp.StatusCode)
	}

	var profile googleProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, err
	}
	if profile.Email == "" {
		return nil, fmt.Errorf("userinfo response missing email")
	}
	return &profile, nil
}

// findOrCreateGoogleUser maps a Google profile to a local record. An email
// already registered through another origin is rejected rather than merged.
func findOrCreateGoogleUser(ctx context.Context, profile *googleProfile) (*models.User, string) {
	users := database.DB.Collection("users")

	var user models.User
	err := users.FindOne(ctx, bson.M{"email": profile.Email}).Decode(&user)
	if err == nil {
		if user.LoginType != models.LoginTypeGoogle {
			return nil, fmt.Sprintf("This email is already registered with %s login, please sign in that way", user.LoginType)
		}
		services.RecordActivity(ctx, user.ID.Hex(), user.Name, models.ActionOAuthLogin, "logged in with Google")
		return &user, ""
	}
	if err != mongo.ErrNoDocuments {
		return nil, "Something went wrong, please try again"
	}

	now := time.Now()
	user = models.User{
		CreatedAt: now,
		UpdatedAt: now,
		Name:      profile.Name,
		Email:     profile.Email,
		Role:      models.RoleUser,
		LoginType: models.LoginTypeGoogle,
	}
	res, err := users.InsertOne(ctx, user)
	if err != nil {
		return nil, "Something went wrong, please try again"
	}
	user.ID = res.InsertedID.(primitive.ObjectID)

	services.RecordActivity(ctx, user.ID.Hex(), user.Name, models.ActionOAuthSignup, "account provisioned via Google")
	return &user, ""
}

func redirectWithError(w http.ResponseWriter, r *http.Request, message string) {
	http.Redirect(w, r,
		cfg.FrontendURL+"/oauth/callback?error="+url.QueryEscape(message),
		http.StatusTemporaryRedirect)
}
