package domain

import "time"

// Product is a catalog item. Stock is only ever decremented through the
// conditional update in the checkout repository, which keeps it >= 0.
type Product struct {
	ID            int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name          string    `gorm:"index;size:200" json:"name"`
	Description   string    `gorm:"size:2048" json:"description"`
	Price         float64   `json:"price"`
	OriginalPrice *float64  `json:"original_price,omitempty"` // pre-discount price, null when not discounted
	Stock         int       `gorm:"check:stock >= 0" json:"stock"`
	CategoryID    *int64    `gorm:"index" json:"category_id,omitempty"`
	Image         string    `gorm:"size:1024" json:"image"`
	Visible       bool      `json:"visible"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type Category struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"index;size:200" json:"name"`
	Image     string    `gorm:"size:1024" json:"image"`
	Sort      int       `json:"sort"`
	Visible   bool      `json:"visible"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SpecialCategory is a curated product grouping shown on the storefront
// home page (e.g. seasonal collections).
type SpecialCategory struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"index;size:200" json:"name"`
	Image     string    `gorm:"size:1024" json:"image"`
	Sort      int       `json:"sort"`
	Visible   bool      `json:"visible"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
