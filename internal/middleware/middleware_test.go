package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/pkg/config"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticParser map[string]uint

func (p staticParser) ParseAccessToken(token string) (*models.JwtCustomClaims, error) {
	uid, ok := p[token]
	if !ok {
		return nil, errors.New("bad token")
	}
	return &models.JwtCustomClaims{UserID: uid}, nil
}

func serve(e *echo.Echo, path, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if auth != "" {
		req.Header.Set(echo.HeaderAuthorization, auth)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestJWTAuthMiddleware(t *testing.T) {
	e := echo.New()
	e.Use(JWTAuthMiddleware(staticParser{"good": 42}))
	e.GET("/me", func(c echo.Context) error {
		uid, _ := c.Get(config.UserIDKey).(uint)
		claims, _ := c.Get(ClaimsKey).(*models.JwtCustomClaims)
		require.NotNil(t, claims)
		return c.JSON(http.StatusOK, echo.Map{"id": uid})
	})

	tests := []struct {
		name string
		auth string
		code int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic good", http.StatusUnauthorized},
		{"no token", "Bearer ", http.StatusUnauthorized},
		{"rejected token", "Bearer forged", http.StatusUnauthorized},
		{"valid", "Bearer good", http.StatusOK},
		{"scheme is case-insensitive", "bearer good", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(e, "/me", tt.auth)
			assert.Equal(t, tt.code, rec.Code)
			if tt.code == http.StatusOK {
				assert.JSONEq(t, `{"id":42}`, rec.Body.String())
			}
		})
	}
}

func TestRateLimitFallsBackToIP(t *testing.T) {
	limited := 0
	e := echo.New()
	e.Use(RateLimit(RateLimitConfig{RequestsPerSecond: 0.001, Burst: 1, OnLimited: func() { limited++ }}))
	e.GET("/", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) })

	assert.Equal(t, http.StatusNoContent, serve(e, "/", "").Code)
	assert.Equal(t, http.StatusTooManyRequests, serve(e, "/", "").Code)
	assert.Equal(t, 1, limited)
}

type observation struct {
	method, route string
	status        int
}

type recorder struct{ seen []observation }

func (r *recorder) RecordHTTPRequest(method, route string, status int, _ time.Duration) {
	r.seen = append(r.seen, observation{method, route, status})
}

func TestHTTPMetricsUsesRouteTemplate(t *testing.T) {
	rec := &recorder{}
	e := echo.New()
	e.Use(HTTPMetrics(rec))
	e.GET("/posts/:id", func(c echo.Context) error {
		if c.Param("id") == "0" {
			return echo.NewHTTPError(http.StatusNotFound)
		}
		return c.NoContent(http.StatusOK)
	})

	serve(e, "/posts/7", "")
	serve(e, "/posts/0", "")
	serve(e, "/nowhere", "")

	require.Len(t, rec.seen, 3)
	assert.Equal(t, observation{http.MethodGet, "/posts/:id", http.StatusOK}, rec.seen[0])
	assert.Equal(t, observation{http.MethodGet, "/posts/:id", http.StatusNotFound}, rec.seen[1])
	assert.Equal(t, http.StatusNotFound, rec.seen[2].status)
}
