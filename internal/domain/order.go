package domain

import "time"

// Order statuses. Transitions are restricted to the adjacency graph
// enforced by checkout.CanTransition; Delivered and Rejected are terminal.
const (
	OrderStatusPending    = "Pending"
	OrderStatusProcessing = "Processing"
	OrderStatusShipped    = "Shipped"
	OrderStatusDelivered  = "Delivered"
	OrderStatusRejected   = "Rejected"
)

// Payment methods accepted at checkout.
const (
	PaymentCashOnDelivery = "cod"
	PaymentCard           = "card"
	PaymentUPI            = "upi"
)

type Order struct {
	ID            int64       `json:"id,string"`
	UserID        int64       `gorm:"index" json:"user_id,string"`
	Status        string      `gorm:"index;size:16" json:"status"`
	TotalAmount   float64     `json:"total_amount"`
	PaymentMethod string      `gorm:"size:16" json:"payment_method"`
	ShipName      string      `gorm:"size:128" json:"ship_name"`
	ShipAddress   string      `gorm:"size:512" json:"ship_address"`
	ShipCity      string      `gorm:"size:128" json:"ship_city"`
	ShipState     string      `gorm:"size:128" json:"ship_state"`
	ShipZip       string      `gorm:"size:32" json:"ship_zip"`
	Items         []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// OrderItem snapshots the product at order time. UnitPrice is the
// server-side price at the instant of checkout and is never re-derived
// from the live product.
type OrderItem struct {
	ID           int64   `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID      int64   `gorm:"index" json:"order_id,string"`
	ProductID    int64   `gorm:"index" json:"product_id"`
	ProductName  string  `gorm:"size:200" json:"product_name"`
	ProductImage string  `gorm:"size:1024" json:"product_image"`
	UnitPrice    float64 `json:"unit_price"`
	Quantity     int     `json:"quantity"`
	Subtotal     float64 `json:"subtotal"`
}
