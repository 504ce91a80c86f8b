package domain

import "time"

type Favorite struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    int64     `gorm:"index:idx_fav_user_product" json:"user_id,string"`
	ProductID int64     `gorm:"index:idx_fav_user_product" json:"product_id"`
	CreatedAt time.Time `json:"created_at"`
}
