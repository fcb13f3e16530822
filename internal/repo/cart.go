package repo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/shop_api/internal/models"
)

// GetCart returns the user's cart joined with product data, oldest line first.
func (r *GormRepo) GetCart(ctx context.Context, userID uint) ([]models.CartLine, error) {
	lines := make([]models.CartLine, 0)
	err := r.DB.WithContext(ctx).
		Table("cart_items").
		Select("cart_items.id AS id, cart_items.product_id AS product_id, products.name AS name, "+
			"products.price AS price, products.image AS image, cart_items.quantity AS quantity").
		Joins("JOIN products ON products.id = cart_items.product_id").
		Where("cart_items.user_id = ?", userID).
		Order("cart_items.id ASC").
		Scan(&lines).Error
	if err != nil {
		return nil, err
	}
	return lines, nil
}

func (r *GormRepo) GetCartItem(ctx context.Context, userID, productID uint) (*models.CartItem, error) {
	var item models.CartItem
	if err := r.DB.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// AddToCart creates the line with quantity 1 or bumps an existing one in a
// single upsert statement.
func (r *GormRepo) AddToCart(ctx context.Context, userID, productID uint) (*models.CartItem, error) {
	var item models.CartItem
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		insert := models.CartItem{UserID: userID, ProductID: productID, Quantity: 1}
		if err := tx.Omit(clause.Associations).Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"quantity": gorm.Expr("cart_items.quantity + ?", 1),
			}),
		}).Create(&insert).Error; err != nil {
			return err
		}

		return tx.Where("user_id = ? AND product_id = ?", userID, productID).First(&item).Error
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// DecreaseFromCart takes one unit off the line and removes the row when the
// last unit goes. deleted reports which of the two happened.
func (r *GormRepo) DecreaseFromCart(ctx context.Context, userID, productID uint) (deleted bool, err error) {
	err = r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.CartItem{}).
			Where("user_id = ? AND product_id = ? AND quantity > 1", userID, productID).
			Update("quantity", gorm.Expr("quantity - 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return nil
		}

		res = tx.Where("user_id = ? AND product_id = ? AND quantity <= 1", userID, productID).
			Delete(&models.CartItem{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrCartItemNotFound
		}
		deleted = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}
