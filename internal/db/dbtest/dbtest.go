// Package dbtest opens throwaway in-memory databases for tests.
package dbtest

import (
	"context"
	"path/filepath"
	"testing"

	"gorm.io/gorm"

	"github.com/Skotchmaster/shop_api/internal/config"
	"github.com/Skotchmaster/shop_api/internal/db"
	"github.com/Skotchmaster/shop_api/internal/models"
)

func New(t *testing.T) *gorm.DB {
	t.Helper()
	return open(t, ":memory:")
}

// NewFile opens a sqlite database file under the test's temp dir.
func NewFile(t *testing.T) *gorm.DB {
	t.Helper()
	return open(t, filepath.Join(t.TempDir(), "shop.db"))
}

func open(t *testing.T, dsn string) *gorm.DB {
	t.Helper()

	gdb, err := db.Open(context.Background(), config.DriverSQLite, dsn)
	if err != nil {
		t.Fatalf("failed to open sqlite db: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	return gdb
}

func SeedProducts(t *testing.T, gdb *gorm.DB, products ...models.Product) []models.Product {
	t.Helper()

	if len(products) == 0 {
		products = []models.Product{
			{Name: "Keyboard", Price: 4999, Image: "/images/keyboard.png"},
			{Name: "Mouse", Price: 1999, Image: "/images/mouse.png"},
			{Name: "Monitor", Price: 19999, Image: "/images/monitor.png"},
		}
	}
	if err := gdb.Create(&products).Error; err != nil {
		t.Fatalf("failed to seed products: %v", err)
	}
	return products
}
