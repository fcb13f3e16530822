package httpserver

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/shop_api/internal/logging"
	"github.com/Skotchmaster/shop_api/internal/metrics"
	"github.com/Skotchmaster/shop_api/internal/middleware/auth"
	"github.com/Skotchmaster/shop_api/internal/transport"
)

type Deps struct {
	AuthHandler    *AuthHTTP
	CatalogHandler *CatalogHTTP
	CartHandler    *CartHTTP
	Auth           *auth.BearerAuth
	// Ready reports whether the storage is reachable. Nil means always ready.
	Ready     func(ctx context.Context) error
	Metrics   *metrics.HTTP
	ImagesDir string
}

func Register(e *echo.Echo, d *Deps) {
	e.Validator = newRequestValidator()

	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if d.Ready != nil {
			if err := d.Ready(c.Request().Context()); err != nil {
				logging.FromContext(c.Request().Context()).Warn("not_ready", "error", err)
				return c.NoContent(http.StatusServiceUnavailable)
			}
		}
		return c.NoContent(http.StatusOK)
	})
	if d.Metrics != nil {
		e.GET("/metrics", d.Metrics.Handler())
	}
	if d.ImagesDir != "" {
		e.Static("/images", d.ImagesDir)
	}

	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, transport.MessageResponse{Message: "Backend running"})
	})

	e.POST("/register", d.AuthHandler.Register)
	e.POST("/login", d.AuthHandler.Login)
	e.GET("/me", d.AuthHandler.Me, d.Auth.RequireAuth)

	api := e.Group("/api")
	api.GET("/products", d.CatalogHandler.GetProducts)

	cart := api.Group("/cart")
	cart.Use(d.Auth.RequireAuth)

	cart.GET("", d.CartHandler.GetCart)
	cart.POST("/add/:product_id", d.CartHandler.AddToCart)
	cart.POST("/decrease/:product_id", d.CartHandler.DecreaseFromCart)
}
