package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// tokenMatches compares in constant time.
func tokenMatches(got, want string) bool {
	return got != "" && subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}

// AuthOK reports whether r carries the access password via ?password=, Authorization: Bearer
// or X-Auth-Token. An empty expected password accepts everything.
func AuthOK(r *http.Request, expected string) bool {
	if expected == "" {
		return true
	}
	if r == nil {
		return false
	}
	if tokenMatches(r.URL.Query().Get("password"), expected) {
		return true
	}
	ah := r.Header.Get("Authorization")
	if strings.HasPrefix(strings.ToLower(ah), "bearer ") {
		if tokenMatches(strings.TrimSpace(ah[len("Bearer "):]), expected) {
			return true
		}
	}
	return tokenMatches(r.Header.Get("X-Auth-Token"), expected)
}

// AccessPassword rejects requests without the configured password. Paths in open are exempt.
func AccessPassword(getPassword func() string, open ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Request().URL.Path
			for _, p := range open {
				if path == p {
					return next(c)
				}
			}
			if !AuthOK(c.Request(), getPassword()) {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
			}
			return next(c)
		}
	}
}
