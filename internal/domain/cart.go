package domain

import "time"

// CartItem is one (user, product) row of a user's cart. Carts are
// replaced wholesale on save, never patched row by row.
type CartItem struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    int64     `gorm:"index" json:"user_id,string"`
	ProductID int64     `gorm:"index" json:"product_id"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (CartItem) TableName() string {
	return "cart_items"
}
