package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"vaultshare/internal/logging"
	"vaultshare/internal/server/models"
)

const userContextKey = "auth.user"

// BearerAuth returns middleware implementing the authentication gate: it
// extracts the bearer token, verifies it and loads the user, storing the
// result in the request context. Requests without a valid token never reach
// the handler.
func (h *Handler) BearerAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if !strings.HasPrefix(header, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "No token provided."})
			}

			token := strings.TrimPrefix(header, "Bearer ")

			user, err := h.users.Authenticate(c.Request().Context(), token)
			if err != nil {
				return h.mapServiceError(c, err)
			}

			c.Set(userContextKey, user)
			return next(c)
		}
	}
}

// currentUser returns the authenticated user placed in the context by
// BearerAuth. Only call from handlers behind that middleware.
func currentUser(c echo.Context) *models.User {
	return c.Get(userContextKey).(*models.User)
}

// RequestLogger returns middleware that logs one line per request.
func RequestLogger(l logging.Logger) echo.MiddlewareFunc {
	log := l.With("module", "httpapi")
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			req := c.Request()
			res := c.Response()

			log.Info(req.Context(), "request",
				"method", req.Method,
				"path", req.URL.Path,
				"status", res.Status,
				"latency_ms", time.Since(start).Milliseconds(),
				"ip", c.RealIP(),
			)

			return err
		}
	}
}
