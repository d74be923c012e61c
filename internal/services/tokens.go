package services

import (
	"fmt"
	"strconv"
	"time"

	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// TokenManager signs and verifies the access/refresh token pair
type TokenManager struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

// NewTokenManager creates a TokenManager
func NewTokenManager(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *TokenManager {
	return &TokenManager{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		now:           time.Now,
	}
}

// Issue signs a fresh access and refresh token for user
func (m *TokenManager) Issue(user *models.User) (models.TokenPair, error) {
	access, err := m.sign(user, m.accessSecret, m.accessTTL)
	if err != nil {
		return models.TokenPair{}, fmt.Errorf("sign access token: %w", err)
	}
	refresh, err := m.sign(user, m.refreshSecret, m.refreshTTL)
	if err != nil {
		return models.TokenPair{}, fmt.Errorf("sign refresh token: %w", err)
	}
	return models.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(m.accessTTL.Seconds()),
	}, nil
}

// ParseAccessToken validates an access token and returns its claims
func (m *TokenManager) ParseAccessToken(token string) (*models.JwtCustomClaims, error) {
	return parse(token, m.accessSecret)
}

// ParseRefreshToken validates a refresh token and returns its claims
func (m *TokenManager) ParseRefreshToken(token string) (*models.JwtCustomClaims, error) {
	return parse(token, m.refreshSecret)
}

func (m *TokenManager) sign(user *models.User, secret []byte, ttl time.Duration) (string, error) {
	now := m.now()
	claims := &models.JwtCustomClaims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func parse(tokenString string, secret []byte) (*models.JwtCustomClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.JwtCustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrUnauthorized, err)
	}
	claims, ok := token.Claims.(*models.JwtCustomClaims)
	if !ok || !token.Valid || claims.UserID == 0 {
		return nil, fmt.Errorf("invalid token: %w", models.ErrUnauthorized)
	}
	return claims, nil
}
