package models

type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement"   json:"id"`
	Username     string `gorm:"not null"                   json:"username"`
	Email        string `gorm:"uniqueIndex;not null"       json:"email"`
	PasswordHash string `gorm:"not null"                   json:"-"`
}

type Product struct {
	ID    uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name  string `gorm:"not null"                 json:"name"`
	Price int64  `gorm:"not null"                 json:"price"`
	Image string `gorm:"not null"                 json:"image"`
}

// CartItem is unique per (user, product); a row with quantity 0 never exists.
// Rows go away with their user or product.
type CartItem struct {
	ID        uint    `gorm:"primaryKey;autoIncrement"                      json:"id"`
	UserID    uint    `gorm:"uniqueIndex:idx_cart_user_product;not null"    json:"user_id"`
	ProductID uint    `gorm:"uniqueIndex:idx_cart_user_product;not null"    json:"product_id"`
	Quantity  uint    `gorm:"not null;default:1;check:quantity>0"           json:"quantity"`
	User      User    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Product   Product `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}

func (CartItem) TableName() string {
	return "cart_items"
}

// CartLine is one row of the cart_items x products join.
type CartLine struct {
	ID        uint
	ProductID uint
	Name      string
	Price     int64
	Image     string
	Quantity  uint
}
