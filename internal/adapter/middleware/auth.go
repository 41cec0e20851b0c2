package middleware

import (
	"net/http"
	"strings"

	"p2p-loan-escrow/internal/auth"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const callerKey = "caller_id"

// Authenticate resolves the calling account from "Authorization: Bearer <token>".
// Requests without the header pass through anonymous; handlers that need a
// caller reject them. A header that is present but invalid is a 401.
func Authenticate(tokens *auth.TokenManager, log *zap.Logger) echo.MiddlewareFunc {
	if log == nil {
		log = zap.NewNop()
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				return next(c)
			}
			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				return reject(c, http.StatusUnauthorized, "UNAUTHENTICATED", "invalid authorization header")
			}
			caller, err := tokens.Parse(strings.TrimSpace(parts[1]))
			if err != nil {
				log.Debug("bearer token rejected", zap.Error(err))
				return reject(c, http.StatusUnauthorized, "UNAUTHENTICATED", "invalid token")
			}
			WithCaller(c, caller)
			return next(c)
		}
	}
}

// CallerFrom returns the authenticated account id, or "" for anonymous requests.
func CallerFrom(c echo.Context) string {
	s, _ := c.Get(callerKey).(string)
	return s
}

// WithCaller marks c as authenticated for accountID.
func WithCaller(c echo.Context, accountID string) { c.Set(callerKey, accountID) }
