package auth

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

type contextKey string

const (
	UserIDKey    contextKey = "user_id"
	UserEmailKey contextKey = "user_email"
)

// Skipper decides whether a request bypasses authentication.
type Skipper func(c echo.Context) bool

// Middleware returns Echo middleware that requires a valid Bearer token on
// every request except those matched by skip. The authenticated user ID and
// email are stored on the echo context.
func Middleware(issuer *TokenIssuer, skip Skipper) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if skip != nil && skip(c) {
				return next(c)
			}

			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization format")
			}

			claims, err := issuer.Verify(parts[1])
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
			}

			c.Set(string(UserIDKey), claims.Subject)
			c.Set(string(UserEmailKey), claims.Email)
			return next(c)
		}
	}
}

// PathSkipper returns a Skipper that bypasses auth for the given path
// prefixes.
func PathSkipper(prefixes ...string) Skipper {
	return func(c echo.Context) bool {
		path := c.Request().URL.Path
		for _, p := range prefixes {
			if strings.HasPrefix(path, p) {
				return true
			}
		}
		return false
	}
}
