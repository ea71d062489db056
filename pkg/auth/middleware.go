package auth

import (
	"strings"

	"github.com/joblyhq/jobly/pkg/errcodes"
	"github.com/joblyhq/jobly/pkg/models"
	"github.com/labstack/echo/v4"
)

const (
	bearerPrefix = "Bearer "
	userKey      = "user"
)

// Middleware provides authentication middleware.
type Middleware struct {
	authService *Service
}

// NewMiddleware creates a new auth middleware.
func NewMiddleware(authService *Service) *Middleware {
	return &Middleware{
		authService: authService,
	}
}

// token returns the caller's JWT from the Authorization header, falling back
// to the session cookie.
func token(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if strings.HasPrefix(header, bearerPrefix) {
		return strings.TrimSpace(header[len(bearerPrefix):])
	}
	cookie, err := c.Cookie(CookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func (m *Middleware) resolveUser(c echo.Context) (*models.User, error) {
	raw := token(c)
	if raw == "" {
		return nil, errcodes.Unauthorized("Authentication required")
	}

	claims, err := m.authService.ValidateToken(raw)
	if err != nil {
		return nil, errcodes.Unauthorized("Invalid or expired token")
	}

	// The token may outlive the user or their role.
	user, err := m.authService.GetUserByID(c.Request().Context(), claims.UserID)
	if err != nil {
		return nil, errcodes.Unauthorized("User not found or inactive")
	}
	return user, nil
}

// Authenticate validates the caller's token and stores the user in the
// context. Callers without a valid token get a 401.
func (m *Middleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, err := m.resolveUser(c)
		if err != nil {
			return err
		}
		c.Set(userKey, user)
		return next(c)
	}
}

// AuthenticateOptional stores the user in the context when a valid token is
// present, and lets the request through either way.
func (m *Middleware) AuthenticateOptional(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if user, err := m.resolveUser(c); err == nil {
			c.Set(userKey, user)
		}
		return next(c)
	}
}

// RequirePermission returns middleware that checks if the user has the
// required permission. Must be used after Authenticate.
func (m *Middleware) RequirePermission(resource, operation string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := UserFromContext(c)
			if user == nil {
				return errcodes.Unauthorized("Authentication required")
			}

			if !user.HasPermission(resource, operation) {
				return errcodes.Forbidden("Permission " + resource + ":" + operation)
			}

			return next(c)
		}
	}
}

// UserFromContext returns the authenticated user, or nil.
func UserFromContext(c echo.Context) *models.User {
	user, _ := c.Get(userKey).(*models.User)
	return user
}
