package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Skotchmaster/shop_api/internal/events"
	"github.com/Skotchmaster/shop_api/internal/logging"
	"github.com/Skotchmaster/shop_api/internal/models"
	"github.com/Skotchmaster/shop_api/internal/repo"
)

type CartStore interface {
	GetCart(ctx context.Context, userID uint) ([]models.CartLine, error)
	AddToCart(ctx context.Context, userID, productID uint) (*models.CartItem, error)
	DecreaseFromCart(ctx context.Context, userID, productID uint) (bool, error)
}

// CartEntry is the response shape of one cart line.
type CartEntry struct {
	ID        uint   `json:"id"`
	ProductID uint   `json:"product_id"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Image     string `json:"image"`
	Quantity  uint   `json:"quantity"`
	Username  string `json:"username"`
}

type CartService struct {
	Repo     CartStore
	Products ProductStore
	Producer events.Publisher
}

func (s *CartService) GetCart(ctx context.Context, user *models.User) ([]CartEntry, error) {
	lines, err := s.Repo.GetCart(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return projectCart(user, lines), nil
}

func projectCart(user *models.User, lines []models.CartLine) []CartEntry {
	out := make([]CartEntry, 0, len(lines))
	for _, ln := range lines {
		out = append(out, CartEntry{
			ID:        ln.ID,
			ProductID: ln.ProductID,
			Name:      ln.Name,
			Price:     ln.Price,
			Image:     ln.Image,
			Quantity:  ln.Quantity,
			Username:  user.Username,
		})
	}
	return out
}

func (s *CartService) AddToCart(ctx context.Context, userID, productID uint) (*models.CartItem, error) {
	l := logging.FromContext(ctx).With("svc", "cart.add", "user_id", userID, "product_id", productID)

	if productID == 0 {
		return nil, fmt.Errorf("product id must be positive: %w", ErrValidation)
	}

	ok, err := s.Products.ProductExists(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !ok {
		l.Warn("add_to_cart_error", "status", 404, "reason", "unknown product")
		return nil, fmt.Errorf("product %d: %w", productID, ErrNotFound)
	}

	item, err := s.Repo.AddToCart(ctx, userID, productID)
	if err != nil {
		return nil, err
	}

	publish(ctx, s.Producer, events.TopicCart, events.Event{
		Type: events.TypeCartItemAdded, UserID: userID, ProductID: productID,
	})
	return item, nil
}

func (s *CartService) DecreaseFromCart(ctx context.Context, userID, productID uint) (bool, error) {
	if productID == 0 {
		return false, fmt.Errorf("product id must be positive: %w", ErrValidation)
	}

	deleted, err := s.Repo.DecreaseFromCart(ctx, userID, productID)
	if errors.Is(err, repo.ErrCartItemNotFound) {
		return false, fmt.Errorf("product %d not in cart: %w", productID, ErrNotFound)
	}
	if err != nil {
		return false, err
	}

	publish(ctx, s.Producer, events.TopicCart, events.Event{
		Type: events.TypeCartItemDecreased, UserID: userID, ProductID: productID, Deleted: deleted,
	})
	return deleted, nil
}
