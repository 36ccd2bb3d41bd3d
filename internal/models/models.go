package models

import "time"

type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Email        string `gorm:"unique;not null"          json:"email"`
	PasswordHash string `gorm:"not null"                 json:"-"`
	Role         string `gorm:"not null;default:user"    json:"role"`
}

type RefreshToken struct {
	ID        uint   `gorm:"primaryKey"      json:"id"`
	Token     string `gorm:"unique;not null" json:"token"`
	UserID    uint   `gorm:"index;not null"  json:"user_id"`
	JTI       string `gorm:"index;not null"  json:"jti"`
	ExpiresAt int64  `gorm:"not null"        json:"expires_at"`
	Revoked   bool   `gorm:"default:false"   json:"revoked"`
}

type Product struct {
	ID          uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string  `gorm:"not null"                 json:"name"`
	Description string  `json:"description"`
	Price       float64 `gorm:"not null"                 json:"price"`
	Stock       uint    `json:"stock"`
}

// Cart is created lazily on the first add-to-cart, one per user.
type Cart struct {
	ID     uint `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID uint `gorm:"uniqueIndex;not null"     json:"user_id"`
}

type CartItem struct {
	ID        uint `gorm:"primaryKey;autoIncrement"                    json:"id"`
	CartID    uint `gorm:"not null;uniqueIndex:idx_cart_product"       json:"cart_id"`
	ProductID uint `gorm:"not null;uniqueIndex:idx_cart_product"       json:"product_id"`
	Quantity  uint `gorm:"not null;default:1;check:quantity>0"         json:"quantity"`
}

// Order is header-only: no line items are snapshotted at placement.
type Order struct {
	ID              uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID          uint      `gorm:"index;not null"           json:"user_id"`
	ShippingAddress string    `gorm:"not null"                 json:"shipping_address"`
	CreatedAt       time.Time `json:"created_at"`
}
