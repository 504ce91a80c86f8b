package domain

import "time"

// CheckoutToken deduplicates checkout retries. The (user_id, token) pair
// is unique; the row is inserted in the same transaction as the order it
// belongs to, so a replayed request hits the unique constraint and gets
// the stored receipt back instead of a second order.
type CheckoutToken struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    int64     `gorm:"uniqueIndex:uniq_checkout_user_token" json:"user_id,string"`
	Token     string    `gorm:"uniqueIndex:uniq_checkout_user_token;size:128" json:"token"`
	OrderID   int64     `json:"order_id,string"`
	Receipt   string    `gorm:"size:4096" json:"-"` // JSON snapshot of the original response
	ExpiresAt time.Time `gorm:"index" json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}
