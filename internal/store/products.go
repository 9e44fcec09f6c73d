package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"github.com/safar/ekart/internal/database"
	"github.com/safar/ekart/internal/models"
	"github.com/shopspring/decimal"
)

const productColumns = `id, name, price, description, category, brand, stock, featured, trending, created_at, updated_at`

type ProductInput struct {
	Name        string
	Price       decimal.Decimal
	Description string
	Category    string
	Brand       string
	Stock       int
	Featured    bool
	Trending    bool
	Images      []string
	Reviews     []AddReviewRequest
}

func (in ProductInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return database.NewValidationError("name", "is required")
	}
	if strings.TrimSpace(in.Category) == "" {
		return database.NewValidationError("category", "is required")
	}
	if err := validateAmount("price", in.Price); err != nil {
		return err
	}
	if in.Stock < 0 {
		return database.NewValidationError("stock", "must not be negative")
	}
	for i, r := range in.Reviews {
		if r.UserID <= 0 {
			return database.NewValidationError(fmt.Sprintf("reviews[%d].user_id", i), "is required")
		}
	}
	return validateImages(in.Images)
}

// ProductPatch carries the fields of a partial product update. When Images is
// non-nil the product's image set is replaced.
type ProductPatch struct {
	Name        *string
	Price       *decimal.Decimal
	Description *string
	Category    *string
	Brand       *string
	Stock       *int
	Featured    *bool
	Trending    *bool
	Images      []string
}

func validateImages(images []string) error {
	for _, url := range images {
		if strings.TrimSpace(url) == "" {
			return database.NewValidationError("images", "must not contain empty urls")
		}
	}
	return nil
}

type ProductStore struct {
	db *sql.DB
}

func NewProductStore(db *sql.DB) *ProductStore {
	return &ProductStore{db: db}
}

func scanProduct(row scanner) (*models.Product, error) {
	p := &models.Product{}
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Price,
		&p.Description,
		&p.Category,
		&p.Brand,
		&p.Stock,
		&p.Featured,
		&p.Trending,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Images = []string{}
	p.Reviews = []models.Review{}
	p.Rating = decimal.Zero
	return p, nil
}

func (s *ProductStore) List(ctx context.Context) ([]models.Product, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+productColumns+` FROM products ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, *p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	if err := attachProductDetails(ctx, s.db, products); err != nil {
		return nil, err
	}

	return products, nil
}

func (s *ProductStore) Get(ctx context.Context, id int64) (*models.Product, error) {
	return getProduct(ctx, s.db, id)
}

func getProduct(ctx context.Context, q querier, id int64) (*models.Product, error) {
	p, err := scanProduct(q.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, database.ErrProductNotFound
		}
		return nil, fmt.Errorf("get product: %w", err)
	}

	products := []models.Product{*p}
	if err := attachProductDetails(ctx, q, products); err != nil {
		return nil, err
	}

	return &products[0], nil
}

// attachProductDetails loads images and reviews for every product in one
// query each and derives the rating.
func attachProductDetails(ctx context.Context, q querier, products []models.Product) error {
	if len(products) == 0 {
		return nil
	}

	ids := make([]int64, len(products))
	index := make(map[int64]int, len(products))
	for i, p := range products {
		ids[i] = p.ID
		index[p.ID] = i
	}

	imageRows, err := q.QueryContext(ctx,
		`SELECT product_id, image_url
		 FROM product_images
		 WHERE product_id = ANY($1)
		 ORDER BY product_id, position, id`,
		pq.Array(ids))
	if err != nil {
		return fmt.Errorf("list product images: %w", err)
	}
	defer imageRows.Close()

	for imageRows.Next() {
		var productID int64
		var url string
		if err := imageRows.Scan(&productID, &url); err != nil {
			return fmt.Errorf("scan product image: %w", err)
		}
		i := index[productID]
		products[i].Images = append(products[i].Images, url)
	}
	if err := imageRows.Err(); err != nil {
		return fmt.Errorf("rows error: %w", err)
	}

	reviews, err := listReviews(ctx, q, `WHERE r.product_id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return err
	}
	for _, r := range reviews {
		i := index[r.ProductID]
		products[i].Reviews = append(products[i].Reviews, r)
	}

	for i := range products {
		products[i].Rating = models.ProductRating(products[i].Reviews)
	}

	return nil
}

func insertImages(ctx context.Context, tx *sql.Tx, productID int64, images []string) error {
	for position, url := range images {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO product_images (product_id, image_url, position) VALUES ($1, $2, $3)`,
			productID, strings.TrimSpace(url), position)
		if err != nil {
			return fmt.Errorf("create product image: %w", err)
		}
	}
	return nil
}

func (s *ProductStore) Create(ctx context.Context, in ProductInput) (*models.Product, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	var product *models.Product
	err := database.WithTransaction(ctx, s.db, database.DefaultTxOptions(), func(tx *sql.Tx) error {
		var id int64
		err := tx.QueryRowContext(ctx,
			`INSERT INTO products (name, price, description, category, brand, stock, featured, trending, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
			 RETURNING id`,
			strings.TrimSpace(in.Name), in.Price, in.Description, strings.TrimSpace(in.Category),
			in.Brand, in.Stock, in.Featured, in.Trending).Scan(&id)
		if err != nil {
			return fmt.Errorf("create product: %w", err)
		}

		if err := insertImages(ctx, tx, id, in.Images); err != nil {
			return err
		}
		for _, r := range in.Reviews {
			if _, err := insertReview(ctx, tx, id, r); err != nil {
				return err
			}
		}

		product, err = getProduct(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	return product, nil
}

func (s *ProductStore) Update(ctx context.Context, id int64, patch ProductPatch) (*models.Product, error) {
	b := newUpdate("products").touchUpdatedAt()

	if patch.Name != nil {
		if strings.TrimSpace(*patch.Name) == "" {
			return nil, database.NewValidationError("name", "must not be empty")
		}
		b.set("name", strings.TrimSpace(*patch.Name))
	}
	if patch.Price != nil {
		if err := validateAmount("price", *patch.Price); err != nil {
			return nil, err
		}
		b.set("price", *patch.Price)
	}
	if patch.Description != nil {
		b.set("description", *patch.Description)
	}
	if patch.Category != nil {
		if strings.TrimSpace(*patch.Category) == "" {
			return nil, database.NewValidationError("category", "must not be empty")
		}
		b.set("category", strings.TrimSpace(*patch.Category))
	}
	if patch.Brand != nil {
		b.set("brand", *patch.Brand)
	}
	if patch.Stock != nil {
		if *patch.Stock < 0 {
			return nil, database.NewValidationError("stock", "must not be negative")
		}
		b.set("stock", *patch.Stock)
	}
	if patch.Featured != nil {
		b.set("featured", *patch.Featured)
	}
	if patch.Trending != nil {
		b.set("trending", *patch.Trending)
	}
	if err := validateImages(patch.Images); err != nil {
		return nil, err
	}

	var product *models.Product
	err := database.WithTransaction(ctx, s.db, database.DefaultTxOptions(), func(tx *sql.Tx) error {
		if err := ensureProduct(ctx, tx, id); err != nil {
			return err
		}

		if !b.empty() {
			query, args := b.where("id", id).build("")
			if _, err := tx.ExecContext(ctx, query, args...); err != nil {
				return fmt.Errorf("update product: %w", err)
			}
		}

		if patch.Images != nil {
			if _, err := tx.ExecContext(ctx, `DELETE FROM product_images WHERE product_id = $1`, id); err != nil {
				return fmt.Errorf("clear product images: %w", err)
			}
			if err := insertImages(ctx, tx, id, patch.Images); err != nil {
				return err
			}
		}

		var err error
		product, err = getProduct(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	return product, nil
}

// Delete removes the product with its images, reviews, cart lines, wishlist
// entries and the order items that reference it.
func (s *ProductStore) Delete(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	n, err := rowsAffected(result)
	if err != nil {
		return err
	}
	if n == 0 {
		return database.ErrProductNotFound
	}

	return nil
}
