package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/melodia-music/melodia-backend/internal/models"
	"github.com/melodia-music/melodia-backend/internal/services"
)

const testSecret = "test-secret"

func authedRequest(token string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/artists", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func expiredToken(t *testing.T, role string) string {
	t.Helper()
	claims := services.Claims{
		UserID: primitive.NewObjectID().Hex(),
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    services.TokenIssuerName,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func TestExtractBearerToken(t *testing.T) {
	assert.Equal(t, "abc123", ExtractBearerToken("Bearer abc123"))
	assert.Equal(t, "abc123", ExtractBearerToken("Bearer  abc123"))
	assert.Empty(t, ExtractBearerToken("abc123"))
	assert.Empty(t, ExtractBearerToken("Basic abc123"))
	assert.Empty(t, ExtractBearerToken(""))
}

func TestAuth_ValidTokenPropagatesCaller(t *testing.T) {
	issuer := services.NewTokenIssuer(testSecret)
	user := &models.User{ID: primitive.NewObjectID(), Role: models.RoleAdmin}
	token, err := issuer.IssueAccess(user)
	require.NoError(t, err)

	var gotID, gotRole string
	handler := Auth(issuer, models.RoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = CallerID(r.Context())
		gotRole = CallerRole(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(token))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, user.ID.Hex(), gotID)
	assert.Equal(t, models.RoleAdmin, gotRole)
}

func TestAuth_MissingToken(t *testing.T) {
	issuer := services.NewTokenIssuer(testSecret)
	handler := Auth(issuer, models.RoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(""))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Authorization token is required", body["message"])
}

func TestAuth_ExpiredToken(t *testing.T) {
	issuer := services.NewTokenIssuer(testSecret)
	handler := Auth(issuer, models.RoleUser)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(expiredToken(t, models.RoleUser)))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Token has expired, please log in again")
}

func TestAuth_InvalidToken(t *testing.T) {
	issuer := services.NewTokenIssuer(testSecret)
	handler := Auth(issuer, models.RoleUser)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest("garbage"))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid authorization token")
}

func TestAuth_RoleNotAllowed(t *testing.T) {
	issuer := services.NewTokenIssuer(testSecret)

	guest, err := issuer.IssueGuest()
	require.NoError(t, err)

	handler := Auth(issuer, models.RoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(guest))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "You do not have permission to access this resource")
}

func TestAuth_GuestAllowedOnReads(t *testing.T) {
	issuer := services.NewTokenIssuer(testSecret)

	guest, err := issuer.IssueGuest()
	require.NoError(t, err)

	handler := Auth(issuer, models.RoleGuest, models.RoleUser, models.RoleAdmin)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Empty(t, CallerID(r.Context()))
			assert.Equal(t, models.RoleGuest, CallerRole(r.Context()))
			w.WriteHeader(http.StatusOK)
		}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(guest))
	assert.Equal(t, http.StatusOK, rec.Code)
}
