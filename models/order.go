package models

import "time"

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"   // Order placed, awaiting payment
	OrderStatusConfirmed OrderStatus = "confirmed" // Payment reported successful by the gateway
	OrderStatusShipped   OrderStatus = "shipped"   // Out for delivery
	OrderStatusDelivered OrderStatus = "delivered" // Customer received the items
	OrderStatusCancelled OrderStatus = "cancelled" // Cancelled before shipping
)

type Order struct {
	ID              uint        `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderRef        string      `gorm:"uniqueIndex" json:"order_ref"`
	UserID          uint        `gorm:"not null" json:"user_id"`
	User            User        `gorm:"foreignKey:UserID" json:"user"`
	Items           []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	TotalAmount     float64     `json:"total_amount"`
	Status          OrderStatus `gorm:"type:VARCHAR(20);default:'pending'" json:"status"`
	ShippingAddress string      `gorm:"not null" json:"shipping_address"`
	PaymentIntentID string      `json:"payment_intent_id"`
	CreatedAt       time.Time   `json:"created_at"`
}

// OrderItem snapshots the product's display fields and selling price at the
// moment of checkout. Later product edits must not change persisted orders.
type OrderItem struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	OrderID      uint    `gorm:"index" json:"order_id"`
	ProductID    uint    `json:"product_id"`
	ProductName  string  `json:"product_name"`
	ProductImage string  `json:"product_image"`
	UnitPrice    float64 `json:"unit_price"`
	Quantity     int     `json:"quantity"`
	LineTotal    float64 `json:"line_total"`
}
