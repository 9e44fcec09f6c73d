package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/safar/ekart/internal/config"
	"github.com/safar/ekart/internal/database"
	"github.com/shopspring/decimal"
)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type scanner interface {
	Scan(dest ...any) error
}

// Stores bundles one repository per aggregate over a shared handle.
type Stores struct {
	Customers *CustomerStore
	Products  *ProductStore
	Reviews   *ReviewStore
	Carts     *CartStore
	Wishlists *WishlistStore
	Orders    *OrderStore
}

func New(db *sql.DB, cfg *config.Config) *Stores {
	return &Stores{
		Customers: NewCustomerStore(db, cfg.Auth.BcryptCost),
		Products:  NewProductStore(db),
		Reviews:   NewReviewStore(db),
		Carts:     NewCartStore(db),
		Wishlists: NewWishlistStore(db),
		Orders:    NewOrderStore(db, cfg.Orders.Pricing),
	}
}

func rowExists(ctx context.Context, q querier, query string, id int64) (bool, error) {
	var exists bool
	if err := q.QueryRowContext(ctx, query, id).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func ensureUser(ctx context.Context, q querier, id int64) error {
	exists, err := rowExists(ctx, q, "SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)", id)
	if err != nil {
		return fmt.Errorf("check user exists: %w", err)
	}
	if !exists {
		return database.ErrUserNotFound
	}
	return nil
}

func ensureProduct(ctx context.Context, q querier, id int64) error {
	exists, err := rowExists(ctx, q, "SELECT EXISTS(SELECT 1 FROM products WHERE id = $1)", id)
	if err != nil {
		return fmt.Errorf("check product exists: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: %d", database.ErrProductNotFound, id)
	}
	return nil
}

func ensureOrder(ctx context.Context, q querier, id int64) error {
	exists, err := rowExists(ctx, q, "SELECT EXISTS(SELECT 1 FROM orders WHERE id = $1)", id)
	if err != nil {
		return fmt.Errorf("check order exists: %w", err)
	}
	if !exists {
		return database.ErrOrderNotFound
	}
	return nil
}

func rowsAffected(result sql.Result) (int64, error) {
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("get rows affected: %w", err)
	}
	return n, nil
}

// validateAmount rejects money values that the NUMERIC(10, 2) columns would
// otherwise round on write.
func validateAmount(field string, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return database.NewValidationError(field, "must not be negative")
	}
	if !amount.Equal(amount.Truncate(2)) {
		return database.NewValidationError(field, "must have at most 2 decimal places")
	}
	return nil
}
