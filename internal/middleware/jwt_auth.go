package middleware

import (
	"net/http"
	"strings"

	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/pkg/config"
	"github.com/labstack/echo/v4"
)

// ClaimsKey is the echo context key holding the verified token claims
const ClaimsKey = "user"

// AccessTokenParser validates a bearer token
type AccessTokenParser interface {
	ParseAccessToken(token string) (*models.JwtCustomClaims, error)
}

// JWTAuthMiddleware checks for a valid access token and stores its claims.
func JWTAuthMiddleware(parser AccessTokenParser) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing Authorization header")
			}

			// Expecting "Bearer <token>"
			scheme, token, found := strings.Cut(authHeader, " ")
			if !found || !strings.EqualFold(scheme, "bearer") || token == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid Authorization header format")
			}

			claims, err := parser.ParseAccessToken(token)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")
			}

			c.Set(ClaimsKey, claims)
			c.Set(config.UserIDKey, claims.UserID)
			return next(c)
		}
	}
}
