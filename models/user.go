package models

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	Email       string    `gorm:"unique;not null" json:"email"`
	Password    string    `gorm:"not null" json:"-"` // bcrypt hash, never serialized
	Role        string    `gorm:"type:VARCHAR(10);default:'user'" json:"role"`
	PhoneNumber string    `json:"phone_number"`
	Address     string    `json:"address"`
	Avatar      string    `gorm:"default:'/uploads/default-avatar.png'" json:"avatar"`
	CreatedAt   time.Time `json:"created_at"`
}
