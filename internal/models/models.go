package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Customer struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Address   *string   `json:"address"`
	Phone     *string   `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Brand       string          `json:"brand"`
	Stock       int             `json:"stock"`
	Featured    bool            `json:"featured"`
	Trending    bool            `json:"trending"`
	Images      []string        `json:"images"`
	Rating      decimal.Decimal `json:"rating"`
	Reviews     []Review        `json:"reviews"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ProductSummary is the current catalog view of a product embedded in cart
// lines, wishlist entries and order items.
type ProductSummary struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Category string          `json:"category"`
	Brand    string          `json:"brand"`
}

type Review struct {
	ID        int64           `json:"id"`
	UserID    int64           `json:"user_id"`
	UserName  string          `json:"user_name"`
	ProductID int64           `json:"product_id"`
	Rating    decimal.Decimal `json:"rating"`
	Comment   *string         `json:"comment"`
	CreatedAt time.Time       `json:"created_at"`
}

type CartLine struct {
	ID        int64           `json:"id"`
	UserID    int64           `json:"user_id"`
	ProductID int64           `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Product   *ProductSummary `json:"product,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type WishlistEntry struct {
	ID        int64           `json:"id"`
	UserID    int64           `json:"user_id"`
	ProductID int64           `json:"product_id"`
	Product   *ProductSummary `json:"product,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

type Order struct {
	ID            int64           `json:"id"`
	UserID        int64           `json:"user_id"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	Status        string          `json:"status"`
	Address       string          `json:"address"`
	PaymentMethod string          `json:"payment_method"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	Items         []OrderItem     `json:"items"`
}

type OrderItem struct {
	ID              int64           `json:"id"`
	OrderID         int64           `json:"order_id"`
	ProductID       int64           `json:"product_id"`
	Quantity        int             `json:"quantity"`
	PriceAtPurchase decimal.Decimal `json:"price_at_purchase"`
	Product         *ProductSummary `json:"product,omitempty"`
}

const (
	OrderStatusPending   = "pending"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
)

func ValidOrderStatus(status string) bool {
	switch status {
	case OrderStatusPending, OrderStatusShipped, OrderStatusDelivered:
		return true
	}
	return false
}
