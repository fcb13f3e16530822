package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/shop_api/internal/logging"
	"github.com/Skotchmaster/shop_api/internal/middleware/auth"
	"github.com/Skotchmaster/shop_api/internal/service"
	"github.com/Skotchmaster/shop_api/internal/transport"
)

type AuthHTTP struct {
	Svc *service.AuthService
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_register")

	var req transport.RegisterRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		l.Warn("register_error", "reason", "invalid body")
		return err
	}

	if _, err := h.Svc.Register(ctx, req.Username, req.Email, req.Password); err != nil {
		switch {
		case errors.Is(err, service.ErrConflict):
			return echo.NewHTTPError(http.StatusBadRequest, "Email already exists")
		case errors.Is(err, service.ErrValidation):
			return echo.NewHTTPError(http.StatusUnprocessableEntity, "invalid body")
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
		}
	}

	return c.JSON(http.StatusOK, transport.MessageResponse{Message: "Registered successfully"})
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_login")

	var req transport.LoginRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		l.Warn("login_error", "reason", "invalid body")
		return err
	}

	token, err := h.Svc.Login(ctx, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnauthenticated):
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid credentials")
		case errors.Is(err, service.ErrValidation):
			return echo.NewHTTPError(http.StatusUnprocessableEntity, "invalid body")
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
		}
	}

	return c.JSON(http.StatusOK, transport.LoginResponse{AccessToken: token})
}

func (h *AuthHTTP) Me(c echo.Context) error {
	user, ok := auth.UserFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated")
	}

	return c.JSON(http.StatusOK, transport.MeResponse{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
	})
}
