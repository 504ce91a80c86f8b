package domain

import "time"

type Banner struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Title     string    `gorm:"size:200" json:"title"`
	Image     string    `gorm:"size:1024" json:"image"`
	Link      string    `gorm:"size:1024" json:"link"`
	Sort      int       `json:"sort"`
	Visible   bool      `json:"visible"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Update is a storefront announcement entry.
type Update struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Title     string    `gorm:"size:200" json:"title"`
	Body      string    `gorm:"size:4096" json:"body"`
	Visible   bool      `json:"visible"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AboutUs is a content singleton; only one row is ever kept.
type AboutUs struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Body      string    `gorm:"size:8192" json:"body"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ContactInfo is a content singleton with the shop's contact details.
type ContactInfo struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Email     string    `gorm:"size:128" json:"email"`
	Phone     string    `gorm:"size:32" json:"phone"`
	Address   string    `gorm:"size:512" json:"address"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ContactMessage struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"size:128" json:"name"`
	Email     string    `gorm:"size:128" json:"email"`
	Message   string    `gorm:"size:4096" json:"message"`
	CreatedAt time.Time `json:"created_at"`
}
