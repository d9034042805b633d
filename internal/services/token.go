package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/melodia-music/melodia-backend/internal/models"
)

const (
	AccessTokenExpiry  = 24 * time.Hour
	RefreshTokenExpiry = 7 * 24 * time.Hour
	GuestTokenExpiry   = 3 * 24 * time.Hour
	TokenIssuerName    = "melodia"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

type Claims struct {
	UserID string `json:"user_id,omitempty"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// TokenIssuer mints and validates the bearer credentials the API trusts.
// Expiry lives inside the token; nothing is tracked server-side.
type TokenIssuer struct {
	secretKey []byte
}

func NewTokenIssuer(secret string) *TokenIssuer {
	return &TokenIssuer{secretKey: []byte(secret)}
}

// IssueAccess mints a short-lived access token for a user.
func (t *TokenIssuer) IssueAccess(user *models.User) (string, error) {
	return t.sign(user.ID.Hex(), user.Role, AccessTokenExpiry)
}

// IssueRefresh mints a longer-lived refresh token for a user.
func (t *TokenIssuer) IssueRefresh(user *models.User) (string, error) {
	return t.sign(user.ID.Hex(), user.Role, RefreshTokenExpiry)
}

// IssueGuest mints an identity-less token carrying only the guest role,
// accepted on read-style endpoints.
func (t *TokenIssuer) IssueGuest() (string, error) {
	return t.sign("", models.RoleGuest, GuestTokenExpiry)
}

func (t *TokenIssuer) sign(userID, role string, expiry time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    TokenIssuerName,
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Validate parses a token and fails closed. Expired tokens are reported
// distinctly so a client knows to request a fresh one.
func (t *TokenIssuer) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&Claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return t.secretKey, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(TokenIssuerName),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
