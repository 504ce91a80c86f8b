package domain

import "time"

type Notification struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    int64     `gorm:"index" json:"user_id,string"`
	Title     string    `gorm:"size:200" json:"title"`
	Body      string    `gorm:"size:1024" json:"body"`
	Read      bool      `gorm:"default:false" json:"read"`
	CreatedAt time.Time `json:"created_at"`
}
