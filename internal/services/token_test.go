package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/melodia-music/melodia-backend/internal/models"
)

func newTestUser(role string) *models.User {
	return &models.User{
		ID:    primitive.NewObjectID(),
		Name:  "Ann",
		Email: "ann@x.com",
		Role:  role,
	}
}

func TestTokenIssuer_AccessRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("test-secret")
	user := newTestUser(models.RoleAdmin)

	token, err := issuer.IssueAccess(user)
	require.NoError(t, err)

	claims, err := issuer.Validate(token)
	require.NoError(t, err)

	assert.Equal(t, user.ID.Hex(), claims.UserID)
	assert.Equal(t, models.RoleAdmin, claims.Role)
	assert.Equal(t, TokenIssuerName, claims.Issuer)
	assert.WithinDuration(t, time.Now().Add(AccessTokenExpiry), claims.ExpiresAt.Time, time.Minute)
}

func TestTokenIssuer_RefreshExpiry(t *testing.T) {
	issuer := NewTokenIssuer("test-secret")

	token, err := issuer.IssueRefresh(newTestUser(models.RoleUser))
	require.NoError(t, err)

	claims, err := issuer.Validate(token)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(RefreshTokenExpiry), claims.ExpiresAt.Time, time.Minute)
}

func TestTokenIssuer_GuestToken(t *testing.T) {
	issuer := NewTokenIssuer("test-secret")

	token, err := issuer.IssueGuest()
	require.NoError(t, err)

	claims, err := issuer.Validate(token)
	require.NoError(t, err)

	// A guest carries a role but no identity.
	assert.Empty(t, claims.UserID)
	assert.Empty(t, claims.Subject)
	assert.Equal(t, models.RoleGuest, claims.Role)
	assert.WithinDuration(t, time.Now().Add(GuestTokenExpiry), claims.ExpiresAt.Time, time.Minute)
}

func TestTokenIssuer_ExpiredToken(t *testing.T) {
	issuer := NewTokenIssuer("test-secret")

	token, err := issuer.sign("abc", models.RoleUser, -time.Minute)
	require.NoError(t, err)

	_, err = issuer.Validate(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestTokenIssuer_InvalidToken(t *testing.T) {
	issuer := NewTokenIssuer("test-secret")

	t.Run("malformed", func(t *testing.T) {
		_, err := issuer.Validate("not.a.jwt")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewTokenIssuer("different-secret")
		token, err := other.IssueAccess(newTestUser(models.RoleUser))
		require.NoError(t, err)

		_, err = issuer.Validate(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("empty", func(t *testing.T) {
		_, err := issuer.Validate("")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
