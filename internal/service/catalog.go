package service

import (
	"context"

	"github.com/Skotchmaster/shop_api/internal/models"
)

type ProductStore interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	ProductExists(ctx context.Context, id uint) (bool, error)
}

type CatalogService struct {
	Repo ProductStore
}

func (s *CatalogService) ListProducts(ctx context.Context) ([]models.Product, error) {
	return s.Repo.ListProducts(ctx)
}
