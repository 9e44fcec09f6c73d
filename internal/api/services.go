package api

import (
	"context"

	"github.com/safar/ekart/internal/models"
	"github.com/safar/ekart/internal/store"
)

type CustomerService interface {
	Register(ctx context.Context, req store.RegisterRequest) (*models.Customer, error)
	Authenticate(ctx context.Context, email, password string) (*models.Customer, error)
	Get(ctx context.Context, id int64) (*models.Customer, error)
	List(ctx context.Context) ([]models.Customer, error)
	Update(ctx context.Context, id int64, patch store.CustomerPatch) (*models.Customer, error)
	Delete(ctx context.Context, id int64) error
}

type ProductService interface {
	List(ctx context.Context) ([]models.Product, error)
	Get(ctx context.Context, id int64) (*models.Product, error)
	Create(ctx context.Context, in store.ProductInput) (*models.Product, error)
	Update(ctx context.Context, id int64, patch store.ProductPatch) (*models.Product, error)
	Delete(ctx context.Context, id int64) error
}

type ReviewService interface {
	Add(ctx context.Context, productID int64, req store.AddReviewRequest) (*models.Review, error)
	ListByProduct(ctx context.Context, productID int64) ([]models.Review, error)
	Delete(ctx context.Context, id int64) error
}

type CartService interface {
	Add(ctx context.Context, userID, productID int64, quantity int) (*models.CartLine, bool, error)
	List(ctx context.Context, userID int64) ([]models.CartLine, error)
	SetQuantity(ctx context.Context, userID, productID int64, quantity int) (*models.CartLine, error)
	Remove(ctx context.Context, userID, productID int64) error
	Clear(ctx context.Context, userID int64) (int64, error)
}

type WishlistService interface {
	Add(ctx context.Context, userID, productID int64) (*models.WishlistEntry, bool, error)
	List(ctx context.Context, userID int64) ([]models.WishlistEntry, error)
	Remove(ctx context.Context, userID, productID int64) error
}

type OrderService interface {
	Create(ctx context.Context, req store.CreateOrderRequest) (*models.Order, error)
	Get(ctx context.Context, id int64) (*models.Order, error)
	List(ctx context.Context) ([]models.Order, error)
	ListByUser(ctx context.Context, userID int64) ([]models.Order, error)
	Update(ctx context.Context, id int64, patch store.OrderPatch) (*models.Order, error)
	Delete(ctx context.Context, id int64) error
	ListItems(ctx context.Context, orderID int64) ([]models.OrderItem, error)
	UpdateItem(ctx context.Context, orderID, itemID int64, patch store.OrderItemPatch) (*models.OrderItem, error)
	DeleteItem(ctx context.Context, orderID, itemID int64) error
}

// Pinger reports whether the backing database is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

var (
	_ CustomerService = (*store.CustomerStore)(nil)
	_ ProductService  = (*store.ProductStore)(nil)
	_ ReviewService   = (*store.ReviewStore)(nil)
	_ CartService     = (*store.CartStore)(nil)
	_ WishlistService = (*store.WishlistStore)(nil)
	_ OrderService    = (*store.OrderStore)(nil)
)
