package auth

import (
	"net/http"

	"github.com/joblyhq/jobly/pkg/models"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/echo/v4/middleware/logger"
)

const (
	// CookieName is the name of the session cookie.
	CookieName = "jobly_session"
)

type handler struct {
	authService *Service
}

// respondWithToken issues a token for the user, sets it as an HTTP-only
// cookie, and returns it in the body for API clients.
func (h *handler) respondWithToken(c echo.Context, status int, user *models.User) error {
	token, err := h.authService.GenerateToken(user)
	if err != nil {
		return errors.WithStack(err)
	}

	c.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.authService.tokenExpiry.Seconds()),
		HttpOnly: true,
		Secure:   c.Request().TLS != nil || c.Request().Header.Get("X-Forwarded-Proto") == "https",
		SameSite: http.SameSiteLaxMode,
	})

	return errors.WithStack(c.JSON(status, TokenResponse{Token: token}))
}

func (h *handler) token(c echo.Context) error {
	ctx := c.Request().Context()

	params := TokenPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	user, err := h.authService.Authenticate(ctx, params.Username, params.Password)
	if err != nil {
		return err
	}

	return h.respondWithToken(c, http.StatusOK, user)
}

func (h *handler) register(c echo.Context) error {
	ctx := c.Request().Context()

	params := RegisterPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	user, err := h.authService.Register(ctx, params.Username, params.Email, params.Password)
	if err != nil {
		return err
	}

	logger.FromEchoContext(c).Info("user registered", map[string]interface{}{"user_id": user.ID})

	return h.respondWithToken(c, http.StatusCreated, user)
}

// setup creates the first admin user. It is refused once any user exists.
func (h *handler) setup(c echo.Context) error {
	ctx := c.Request().Context()

	params := RegisterPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	user, err := h.authService.CreateFirstAdmin(ctx, params.Username, params.Email, params.Password)
	if err != nil {
		return err
	}

	return h.respondWithToken(c, http.StatusOK, user)
}

func (h *handler) logout(c echo.Context) error {
	c.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return c.NoContent(http.StatusNoContent)
}

func (h *handler) me(c echo.Context) error {
	user := UserFromContext(c)

	permissions := make([]string, 0)
	if user.Role != nil {
		for _, p := range user.Role.Permissions {
			permissions = append(permissions, p.Resource+":"+p.Operation)
		}
	}

	return errors.WithStack(c.JSON(http.StatusOK, MeResponse{
		User:        user,
		Permissions: permissions,
	}))
}
