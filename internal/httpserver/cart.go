package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/shop_api/internal/logging"
	"github.com/Skotchmaster/shop_api/internal/middleware/auth"
	"github.com/Skotchmaster/shop_api/internal/service"
	"github.com/Skotchmaster/shop_api/internal/transport"
)

type CartHTTP struct {
	Svc *service.CartService
}

func parseProductID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("product_id"), 10, 0)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "product_id must be a positive integer")
	}
	return uint(id), nil
}

func (h *CartHTTP) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "get.cart")

	user, ok := auth.UserFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated")
	}

	items, err := h.Svc.GetCart(ctx, user)
	if err != nil {
		l.Error("get_cart_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	return c.JSON(http.StatusOK, items)
}

func (h *CartHTTP) AddToCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "add.cart")

	user, ok := auth.UserFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated")
	}

	productID, err := parseProductID(c)
	if err != nil {
		l.Warn("add_to_cart_error", "status", 400, "param", c.Param("product_id"))
		return err
	}

	if _, err := h.Svc.AddToCart(ctx, user.ID, productID); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Product not found")
		}
		l.Error("add_to_cart_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	l.Info("item added successfully to cart", "product_id", productID)
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: "Added to cart"})
}

func (h *CartHTTP) DecreaseFromCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "decrease.cart")

	user, ok := auth.UserFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated")
	}

	productID, err := parseProductID(c)
	if err != nil {
		l.Warn("decrease_cart_error", "status", 400, "param", c.Param("product_id"))
		return err
	}

	deleted, err := h.Svc.DecreaseFromCart(ctx, user.ID, productID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			l.Warn("decrease_cart_not_found", "status", 404, "product_id", productID)
			return echo.NewHTTPError(http.StatusNotFound, "Item not found")
		}
		l.Error("decrease_cart_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	l.Info("cart updated", "product_id", productID, "deleted", deleted)
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: "Cart updated"})
}
