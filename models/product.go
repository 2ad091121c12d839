package models

import "time"

type Product struct {
	ID            uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name          string    `gorm:"not null" json:"name"`
	Description   string    `json:"description"`
	CostPrice     float64   `gorm:"not null" json:"cost_price"`
	SellingPrice  float64   `gorm:"not null" json:"selling_price"`
	StockQuantity int       `gorm:"not null" json:"stock_quantity"` // never negative
	ImageURL      string    `json:"image_url"`
	Category      string    `gorm:"not null" json:"category"`
	Expiry        string    `json:"expiry"`
	Origin        string    `json:"origin"`
	SendFrom      string    `json:"send_from"`
	Weight        string    `json:"weight"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
