package transport

import "time"

type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SignupResponse struct {
	UserID uint `json:"user_id"`
}

type SigninRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type TokenPairResponse struct {
	UserID  uint   `json:"user_id"`
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

type RefreshRequest struct {
	Refresh string `json:"refresh"`
}

type LogoutRequest struct {
	Refresh string `json:"refresh"`
}

type CreateProductRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Stock       uint    `json:"stock"`
}

type CreateProductResponse struct {
	ProductID uint `json:"product_id"`
}

// Pointer fields distinguish "absent" from zero values on partial update.
type PatchProductRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Stock       *uint    `json:"stock"`
}

type AddToCartRequest struct {
	ProductID uint `json:"product_id"`
	Quantity  uint `json:"quantity"`
}

type UpdateCartRequest struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

type RemoveFromCartRequest struct {
	ProductID uint `json:"product_id"`
}

type CartItemView struct {
	ID        uint    `json:"id"`
	ProductID uint    `json:"product_id"`
	Quantity  uint    `json:"quantity"`
	Price     float64 `json:"price"`
}

type CartView struct {
	Items       []CartItemView `json:"items"`
	TotalAmount float64        `json:"total_amount"`
}

type PlaceOrderRequest struct {
	ShippingAddress string `json:"shipping_address"`
}

type PlaceOrderResponse struct {
	OrderID uint `json:"order_id"`
}

type OrderView struct {
	OrderID         uint      `json:"order_id"`
	UserID          uint      `json:"user_id"`
	ShippingAddress string    `json:"shipping_address"`
	CreatedAt       time.Time `json:"created_at"`
}

type PageMeta struct {
	Page       int   `json:"page"`
	Size       int   `json:"size"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
	HasPrev    bool  `json:"has_prev"`
	HasNext    bool  `json:"has_next"`
}

type OrderPage struct {
	Data []OrderView `json:"data"`
	Meta PageMeta    `json:"meta"`
}
