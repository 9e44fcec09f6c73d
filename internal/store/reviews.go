package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/safar/ekart/internal/database"
	"github.com/safar/ekart/internal/models"
	"github.com/shopspring/decimal"
)

type AddReviewRequest struct {
	UserID  int64
	Rating  decimal.Decimal
	Comment *string
}

type ReviewStore struct {
	db *sql.DB
}

func NewReviewStore(db *sql.DB) *ReviewStore {
	return &ReviewStore{db: db}
}

const reviewSelect = `
	SELECT r.id, r.user_id, u.name, r.product_id, r.rating, r.comment, r.created_at
	FROM reviews r
	JOIN users u ON u.id = r.user_id
	`

func scanReview(row scanner) (models.Review, error) {
	var r models.Review
	err := row.Scan(
		&r.ID,
		&r.UserID,
		&r.UserName,
		&r.ProductID,
		&r.Rating,
		&r.Comment,
		&r.CreatedAt,
	)
	return r, err
}

func listReviews(ctx context.Context, q querier, where string, args ...any) ([]models.Review, error) {
	rows, err := q.QueryContext(ctx, reviewSelect+where+` ORDER BY r.created_at DESC, r.id DESC`, args...)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	reviews := []models.Review{}
	for rows.Next() {
		r, err := scanReview(rows)
		if err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		reviews = append(reviews, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return reviews, nil
}

// Add records a review. The rating is rounded half-to-even to one decimal
// place and is not range-checked.
func (s *ReviewStore) Add(ctx context.Context, productID int64, req AddReviewRequest) (*models.Review, error) {
	if err := ensureProduct(ctx, s.db, productID); err != nil {
		return nil, err
	}
	if err := ensureUser(ctx, s.db, req.UserID); err != nil {
		return nil, err
	}

	return insertReview(ctx, s.db, productID, req)
}

func insertReview(ctx context.Context, q querier, productID int64, req AddReviewRequest) (*models.Review, error) {
	query := `
		WITH inserted AS (
			INSERT INTO reviews (user_id, product_id, rating, comment, created_at)
			VALUES ($1, $2, $3, $4, NOW())
			RETURNING id, user_id, product_id, rating, comment, created_at
		)
		SELECT i.id, i.user_id, u.name, i.product_id, i.rating, i.comment, i.created_at
		FROM inserted i
		JOIN users u ON u.id = i.user_id`

	review, err := scanReview(q.QueryRowContext(ctx, query,
		req.UserID, productID, req.Rating.RoundBank(1), req.Comment))
	if err != nil {
		switch {
		case database.IsForeignKeyViolation(err, "reviews_user_id_fkey"):
			return nil, database.ErrUserNotFound
		case database.IsForeignKeyViolation(err, "reviews_product_id_fkey"):
			return nil, fmt.Errorf("%w: %d", database.ErrProductNotFound, productID)
		}
		return nil, fmt.Errorf("create review: %w", err)
	}

	return &review, nil
}

func (s *ReviewStore) ListByProduct(ctx context.Context, productID int64) ([]models.Review, error) {
	if err := ensureProduct(ctx, s.db, productID); err != nil {
		return nil, err
	}
	return listReviews(ctx, s.db, `WHERE r.product_id = $1`, productID)
}

func (s *ReviewStore) Delete(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete review: %w", err)
	}

	n, err := rowsAffected(result)
	if err != nil {
		return err
	}
	if n == 0 {
		return database.ErrReviewNotFound
	}

	return nil
}
