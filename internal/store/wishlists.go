package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/safar/ekart/internal/database"
	"github.com/safar/ekart/internal/models"
)

type WishlistStore struct {
	db *sql.DB
}

func NewWishlistStore(db *sql.DB) *WishlistStore {
	return &WishlistStore{db: db}
}

const wishlistSelect = `
	SELECT w.id, w.user_id, w.product_id, w.created_at,
	       p.id, p.name, p.price, p.category, p.brand
	FROM wishlist_entries w
	JOIN products p ON p.id = w.product_id
	`

func scanWishlistEntry(row scanner) (*models.WishlistEntry, error) {
	entry := &models.WishlistEntry{Product: &models.ProductSummary{}}
	err := row.Scan(
		&entry.ID,
		&entry.UserID,
		&entry.ProductID,
		&entry.CreatedAt,
		&entry.Product.ID,
		&entry.Product.Name,
		&entry.Product.Price,
		&entry.Product.Category,
		&entry.Product.Brand,
	)
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// Add places a product on the user's wishlist. Adding a product that is
// already present returns the existing entry with created set to false.
func (s *WishlistStore) Add(ctx context.Context, userID, productID int64) (*models.WishlistEntry, bool, error) {
	var entry *models.WishlistEntry
	created := true

	err := database.WithTransaction(ctx, s.db, database.DefaultTxOptions(), func(tx *sql.Tx) error {
		if err := ensureUser(ctx, tx, userID); err != nil {
			return err
		}
		if err := ensureProduct(ctx, tx, productID); err != nil {
			return err
		}

		var id int64
		err := tx.QueryRowContext(ctx,
			`INSERT INTO wishlist_entries (user_id, product_id, created_at)
			 VALUES ($1, $2, NOW())
			 ON CONFLICT ON CONSTRAINT wishlist_entries_user_product_key DO NOTHING
			 RETURNING id`,
			userID, productID).Scan(&id)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			created = false
		case err != nil:
			return fmt.Errorf("add wishlist item: %w", err)
		}

		entry, err = scanWishlistEntry(tx.QueryRowContext(ctx,
			wishlistSelect+`WHERE w.user_id = $1 AND w.product_id = $2`, userID, productID))
		if err != nil {
			return fmt.Errorf("get wishlist item: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	return entry, created, nil
}

func (s *WishlistStore) List(ctx context.Context, userID int64) ([]models.WishlistEntry, error) {
	if err := ensureUser(ctx, s.db, userID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, wishlistSelect+`WHERE w.user_id = $1 ORDER BY w.id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list wishlist: %w", err)
	}
	defer rows.Close()

	entries := []models.WishlistEntry{}
	for rows.Next() {
		entry, err := scanWishlistEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan wishlist item: %w", err)
		}
		entries = append(entries, *entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return entries, nil
}

func (s *WishlistStore) Remove(ctx context.Context, userID, productID int64) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM wishlist_entries WHERE user_id = $1 AND product_id = $2`,
		userID, productID)
	if err != nil {
		return fmt.Errorf("delete wishlist item: %w", err)
	}

	n, err := rowsAffected(result)
	if err != nil {
		return err
	}
	if n == 0 {
		return database.ErrWishlistEntryNotFound
	}

	return nil
}
