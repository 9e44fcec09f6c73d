package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/safar/ekart/internal/database"
	"github.com/safar/ekart/internal/models"
)

type CartStore struct {
	db *sql.DB
}

func NewCartStore(db *sql.DB) *CartStore {
	return &CartStore{db: db}
}

const cartLineSelect = `
	SELECT c.id, c.user_id, c.product_id, c.quantity, c.created_at, c.updated_at,
	       p.id, p.name, p.price, p.category, p.brand
	FROM cart_lines c
	JOIN products p ON p.id = c.product_id
	`

func scanCartLine(row scanner) (*models.CartLine, error) {
	line := &models.CartLine{Product: &models.ProductSummary{}}
	err := row.Scan(
		&line.ID,
		&line.UserID,
		&line.ProductID,
		&line.Quantity,
		&line.CreatedAt,
		&line.UpdatedAt,
		&line.Product.ID,
		&line.Product.Name,
		&line.Product.Price,
		&line.Product.Category,
		&line.Product.Brand,
	)
	if err != nil {
		return nil, err
	}
	return line, nil
}

func getCartLine(ctx context.Context, q querier, userID, productID int64) (*models.CartLine, error) {
	line, err := scanCartLine(q.QueryRowContext(ctx,
		cartLineSelect+`WHERE c.user_id = $1 AND c.product_id = $2`, userID, productID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, database.ErrCartLineNotFound
		}
		return nil, fmt.Errorf("get cart item: %w", err)
	}
	return line, nil
}

func validateQuantity(quantity int) error {
	if quantity < 1 {
		return database.NewValidationError("quantity", "must be at least 1")
	}
	return nil
}

// Add puts quantity units of a product into the user's cart. An existing line
// for the same product is incremented rather than duplicated. The returned
// flag reports whether a new line was created.
func (s *CartStore) Add(ctx context.Context, userID, productID int64, quantity int) (*models.CartLine, bool, error) {
	if err := validateQuantity(quantity); err != nil {
		return nil, false, err
	}

	var line *models.CartLine
	var created bool
	err := database.WithTransaction(ctx, s.db, database.DefaultTxOptions(), func(tx *sql.Tx) error {
		if err := ensureUser(ctx, tx, userID); err != nil {
			return err
		}
		if err := ensureProduct(ctx, tx, productID); err != nil {
			return err
		}

		err := tx.QueryRowContext(ctx,
			`INSERT INTO cart_lines (user_id, product_id, quantity, created_at, updated_at)
			 VALUES ($1, $2, $3, NOW(), NOW())
			 ON CONFLICT ON CONSTRAINT cart_lines_user_product_key
			 DO UPDATE SET quantity = cart_lines.quantity + EXCLUDED.quantity,
			               updated_at = NOW()
			 RETURNING (xmax = 0)`,
			userID, productID, quantity).Scan(&created)
		if err != nil {
			if database.IsForeignKeyViolation(err, "") {
				return fmt.Errorf("%w: %d", database.ErrProductNotFound, productID)
			}
			return fmt.Errorf("add cart item: %w", err)
		}

		line, err = getCartLine(ctx, tx, userID, productID)
		return err
	})
	if err != nil {
		return nil, false, err
	}

	return line, created, nil
}

func (s *CartStore) List(ctx context.Context, userID int64) ([]models.CartLine, error) {
	if err := ensureUser(ctx, s.db, userID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, cartLineSelect+`WHERE c.user_id = $1 ORDER BY c.id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list cart: %w", err)
	}
	defer rows.Close()

	lines := []models.CartLine{}
	for rows.Next() {
		line, err := scanCartLine(rows)
		if err != nil {
			return nil, fmt.Errorf("scan cart item: %w", err)
		}
		lines = append(lines, *line)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return lines, nil
}

// SetQuantity overwrites the quantity of an existing cart line.
func (s *CartStore) SetQuantity(ctx context.Context, userID, productID int64, quantity int) (*models.CartLine, error) {
	if err := validateQuantity(quantity); err != nil {
		return nil, err
	}

	query, args := newUpdate("cart_lines").
		set("quantity", quantity).
		touchUpdatedAt().
		where("user_id", userID).
		where("product_id", productID).
		build("")

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("update cart item: %w", err)
	}

	n, err := rowsAffected(result)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, database.ErrCartLineNotFound
	}

	return getCartLine(ctx, s.db, userID, productID)
}

func (s *CartStore) Remove(ctx context.Context, userID, productID int64) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM cart_lines WHERE user_id = $1 AND product_id = $2`,
		userID, productID)
	if err != nil {
		return fmt.Errorf("delete cart item: %w", err)
	}

	n, err := rowsAffected(result)
	if err != nil {
		return err
	}
	if n == 0 {
		return database.ErrCartLineNotFound
	}

	return nil
}

// Clear empties the user's cart and returns how many lines were removed.
// Clearing an empty cart is not an error.
func (s *CartStore) Clear(ctx context.Context, userID int64) (int64, error) {
	if err := ensureUser(ctx, s.db, userID); err != nil {
		return 0, err
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM cart_lines WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("clear cart: %w", err)
	}

	return rowsAffected(result)
}
