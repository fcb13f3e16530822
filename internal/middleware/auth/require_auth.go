package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/shop_api/internal/logging"
	"github.com/Skotchmaster/shop_api/internal/models"
	"github.com/Skotchmaster/shop_api/internal/service"
	"github.com/Skotchmaster/shop_api/internal/tokens"
)

const CtxUser = "user"

type UserResolver interface {
	CurrentUser(ctx context.Context, token string) (*models.User, error)
}

type BearerAuth struct {
	Users UserResolver
}

func NewBearerAuth(users UserResolver) *BearerAuth {
	return &BearerAuth{Users: users}
}

func unauthorized(c echo.Context, msg string) error {
	c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
	return echo.NewHTTPError(http.StatusUnauthorized, msg)
}

func (m *BearerAuth) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		l := logging.FromContext(ctx).With("middleware", "require_auth")

		header := c.Request().Header.Get(echo.HeaderAuthorization)
		if header == "" {
			return unauthorized(c, "Not authenticated")
		}

		token, err := tokens.FromHeader(header)
		if err != nil {
			return unauthorized(c, "Invalid token")
		}

		user, err := m.Users.CurrentUser(ctx, token)
		if err != nil {
			if errors.Is(err, service.ErrUnauthenticated) {
				l.Warn("auth_failed", "status", 401, "error", err)
				return unauthorized(c, "Invalid token")
			}
			l.Error("auth_failed", "status", 500, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
		}

		c.Set(CtxUser, user)
		return next(c)
	}
}

// UserFrom returns the user stored by RequireAuth.
func UserFrom(c echo.Context) (*models.User, bool) {
	u, ok := c.Get(CtxUser).(*models.User)
	return u, ok && u != nil
}
