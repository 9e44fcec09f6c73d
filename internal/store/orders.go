package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"github.com/safar/ekart/internal/config"
	"github.com/safar/ekart/internal/database"
	"github.com/safar/ekart/internal/models"
	"github.com/shopspring/decimal"
)

type CreateOrderRequest struct {
	UserID        int64
	Address       string
	PaymentMethod string
	TotalAmount   *decimal.Decimal
	Items         []OrderItemRequest
}

type OrderItemRequest struct {
	ProductID int64
	Quantity  int
	Price     *decimal.Decimal
}

// Validate checks the request shape before any row is touched. Caller-supplied
// prices and totals are only required, and only honoured, in caller pricing
// mode.
func (r CreateOrderRequest) Validate(pricing config.PricingMode) error {
	if r.UserID <= 0 {
		return database.NewValidationError("user_id", "is required")
	}
	if strings.TrimSpace(r.Address) == "" {
		return database.NewValidationError("address", "is required")
	}
	if strings.TrimSpace(r.PaymentMethod) == "" {
		return database.NewValidationError("payment_method", "is required")
	}
	if len(r.Items) == 0 {
		return database.NewValidationError("items", "must contain at least one item")
	}

	for i, item := range r.Items {
		field := fmt.Sprintf("items[%d]", i)
		if item.ProductID <= 0 {
			return database.NewValidationError(field+".product_id", "is required")
		}
		if item.Quantity < 1 {
			return database.NewValidationError(field+".quantity", "must be at least 1")
		}
		if pricing == config.PricingCaller {
			if item.Price == nil {
				return database.NewValidationError(field+".price", "is required")
			}
			if err := validateAmount(field+".price", *item.Price); err != nil {
				return err
			}
		}
	}

	if pricing == config.PricingCaller {
		if r.TotalAmount == nil {
			return database.NewValidationError("total_amount", "is required")
		}
		if err := validateAmount("total_amount", *r.TotalAmount); err != nil {
			return err
		}
	}

	return nil
}

// OrderPatch carries the mutable order fields. Any status value in the valid
// set may replace any other.
type OrderPatch struct {
	Status        *string
	Address       *string
	PaymentMethod *string
}

type OrderItemPatch struct {
	Quantity        *int
	PriceAtPurchase *decimal.Decimal
}

type OrderStore struct {
	db      *sql.DB
	pricing config.PricingMode
}

func NewOrderStore(db *sql.DB, pricing config.PricingMode) *OrderStore {
	if pricing == "" {
		pricing = config.PricingServer
	}
	return &OrderStore{db: db, pricing: pricing}
}

// Create places an order in a single transaction: the user and every
// referenced product are resolved before the order row is written, so a
// missing product leaves nothing behind. Each requested line becomes its own
// order item, duplicates included. Stock is not touched.
func (s *OrderStore) Create(ctx context.Context, req CreateOrderRequest) (*models.Order, error) {
	if err := req.Validate(s.pricing); err != nil {
		return nil, err
	}

	var order *models.Order

	err := database.WithTransaction(ctx, s.db, database.DefaultTxOptions(), func(tx *sql.Tx) error {
		if err := ensureUser(ctx, tx, req.UserID); err != nil {
			return err
		}

		catalogPrices, err := resolveProductPrices(ctx, tx, req.Items)
		if err != nil {
			return err
		}

		unitPrices := make([]decimal.Decimal, len(req.Items))
		totalAmount := decimal.Zero
		for i, item := range req.Items {
			unitPrices[i] = catalogPrices[item.ProductID]
			if s.pricing == config.PricingCaller {
				unitPrices[i] = *item.Price
			}
			totalAmount = totalAmount.Add(unitPrices[i].Mul(decimal.NewFromInt(int64(item.Quantity))))
		}
		if s.pricing == config.PricingCaller {
			totalAmount = *req.TotalAmount
		}

		var orderID int64
		err = tx.QueryRowContext(ctx,
			`INSERT INTO orders (user_id, total_amount, status, address, payment_method, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
			 RETURNING id`,
			req.UserID, totalAmount, models.OrderStatusPending,
			strings.TrimSpace(req.Address), strings.TrimSpace(req.PaymentMethod)).Scan(&orderID)
		if err != nil {
			return fmt.Errorf("create order: %w", err)
		}

		for i, item := range req.Items {
			_, err = tx.ExecContext(ctx,
				`INSERT INTO order_items (order_id, product_id, quantity, price_at_purchase)
				 VALUES ($1, $2, $3, $4)`,
				orderID, item.ProductID, item.Quantity, unitPrices[i])
			if err != nil {
				if database.IsForeignKeyViolation(err, "order_items_product_id_fkey") {
					return fmt.Errorf("%w: %d", database.ErrProductNotFound, item.ProductID)
				}
				return fmt.Errorf("create order item: %w", err)
			}
		}

		order, err = getOrder(ctx, tx, orderID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return order, nil
}

// resolveProductPrices returns the current catalog price of every product in
// items, failing on the first id that does not exist.
func resolveProductPrices(ctx context.Context, q querier, items []OrderItemRequest) (map[int64]decimal.Decimal, error) {
	ids := make([]int64, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}

	rows, err := q.QueryContext(ctx,
		`SELECT id, price FROM products WHERE id = ANY($1)`,
		pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("resolve products: %w", err)
	}
	defer rows.Close()

	prices := make(map[int64]decimal.Decimal, len(ids))
	for rows.Next() {
		var id int64
		var price decimal.Decimal
		if err := rows.Scan(&id, &price); err != nil {
			return nil, fmt.Errorf("scan product price: %w", err)
		}
		prices[id] = price
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	for _, id := range ids {
		if _, ok := prices[id]; !ok {
			return nil, fmt.Errorf("%w: %d", database.ErrProductNotFound, id)
		}
	}

	return prices, nil
}

const orderColumns = `id, user_id, total_amount, status, address, payment_method, created_at, updated_at`

func scanOrder(row scanner) (*models.Order, error) {
	o := &models.Order{}
	err := row.Scan(
		&o.ID,
		&o.UserID,
		&o.TotalAmount,
		&o.Status,
		&o.Address,
		&o.PaymentMethod,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	o.Items = []models.OrderItem{}
	return o, nil
}

const orderItemSelect = `
	SELECT oi.id, oi.order_id, oi.product_id, oi.quantity, oi.price_at_purchase,
	       p.id, p.name, p.price, p.category, p.brand
	FROM order_items oi
	JOIN products p ON p.id = oi.product_id
	`

func scanOrderItem(row scanner) (*models.OrderItem, error) {
	item := &models.OrderItem{Product: &models.ProductSummary{}}
	err := row.Scan(
		&item.ID,
		&item.OrderID,
		&item.ProductID,
		&item.Quantity,
		&item.PriceAtPurchase,
		&item.Product.ID,
		&item.Product.Name,
		&item.Product.Price,
		&item.Product.Category,
		&item.Product.Brand,
	)
	if err != nil {
		return nil, err
	}
	return item, nil
}

func listOrderItems(ctx context.Context, q querier, orderIDs []int64) ([]models.OrderItem, error) {
	rows, err := q.QueryContext(ctx,
		orderItemSelect+`WHERE oi.order_id = ANY($1) ORDER BY oi.order_id, oi.id`,
		pq.Array(orderIDs))
	if err != nil {
		return nil, fmt.Errorf("get order items: %w", err)
	}
	defer rows.Close()

	items := []models.OrderItem{}
	for rows.Next() {
		item, err := scanOrderItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items = append(items, *item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return items, nil
}

func getOrder(ctx context.Context, q querier, id int64) (*models.Order, error) {
	order, err := scanOrder(q.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, database.ErrOrderNotFound
		}
		return nil, fmt.Errorf("get order: %w", err)
	}

	items, err := listOrderItems(ctx, q, []int64{id})
	if err != nil {
		return nil, err
	}
	order.Items = items

	return order, nil
}

// listOrders returns the matching orders newest first, each with its items.
func listOrders(ctx context.Context, q querier, where string, args ...any) ([]models.Order, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT `+orderColumns+` FROM orders `+where+` ORDER BY created_at DESC, id DESC`,
		args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, *order)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	if len(orders) == 0 {
		return orders, nil
	}

	ids := make([]int64, len(orders))
	index := make(map[int64]int, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
		index[o.ID] = i
	}

	items, err := listOrderItems(ctx, q, ids)
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		i := index[item.OrderID]
		orders[i].Items = append(orders[i].Items, item)
	}

	return orders, nil
}

func (s *OrderStore) Get(ctx context.Context, id int64) (*models.Order, error) {
	return getOrder(ctx, s.db, id)
}

func (s *OrderStore) List(ctx context.Context) ([]models.Order, error) {
	return listOrders(ctx, s.db, "")
}

func (s *OrderStore) ListByUser(ctx context.Context, userID int64) ([]models.Order, error) {
	if err := ensureUser(ctx, s.db, userID); err != nil {
		return nil, err
	}
	return listOrders(ctx, s.db, `WHERE user_id = $1`, userID)
}

func (s *OrderStore) Update(ctx context.Context, id int64, patch OrderPatch) (*models.Order, error) {
	b := newUpdate("orders").touchUpdatedAt()

	if patch.Status != nil {
		if !models.ValidOrderStatus(*patch.Status) {
			return nil, database.NewValidationError("status", "must be one of pending, shipped, delivered")
		}
		b.set("status", *patch.Status)
	}
	if patch.Address != nil {
		if strings.TrimSpace(*patch.Address) == "" {
			return nil, database.NewValidationError("address", "must not be empty")
		}
		b.set("address", strings.TrimSpace(*patch.Address))
	}
	if patch.PaymentMethod != nil {
		if strings.TrimSpace(*patch.PaymentMethod) == "" {
			return nil, database.NewValidationError("payment_method", "must not be empty")
		}
		b.set("payment_method", strings.TrimSpace(*patch.PaymentMethod))
	}

	if b.empty() {
		return s.Get(ctx, id)
	}

	query, args := b.where("id", id).build("")
	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("update order: %w", err)
	}

	n, err := rowsAffected(result)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, database.ErrOrderNotFound
	}

	return s.Get(ctx, id)
}

// Delete removes the order and all of its items.
func (s *OrderStore) Delete(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}

	n, err := rowsAffected(result)
	if err != nil {
		return err
	}
	if n == 0 {
		return database.ErrOrderNotFound
	}

	return nil
}

func (s *OrderStore) ListItems(ctx context.Context, orderID int64) ([]models.OrderItem, error) {
	if err := ensureOrder(ctx, s.db, orderID); err != nil {
		return nil, err
	}
	return listOrderItems(ctx, s.db, []int64{orderID})
}

// UpdateItem patches a single order item. The parent order's total is left
// as it was.
func (s *OrderStore) UpdateItem(ctx context.Context, orderID, itemID int64, patch OrderItemPatch) (*models.OrderItem, error) {
	b := newUpdate("order_items")

	if patch.Quantity != nil {
		if err := validateQuantity(*patch.Quantity); err != nil {
			return nil, err
		}
		b.set("quantity", *patch.Quantity)
	}
	if patch.PriceAtPurchase != nil {
		if err := validateAmount("price_at_purchase", *patch.PriceAtPurchase); err != nil {
			return nil, err
		}
		b.set("price_at_purchase", *patch.PriceAtPurchase)
	}

	if !b.empty() {
		query, args := b.where("id", itemID).where("order_id", orderID).build("")
		result, err := s.db.ExecContext(ctx, query, args...)
		if err != nil {
			return nil, fmt.Errorf("update order item: %w", err)
		}

		n, err := rowsAffected(result)
		if err != nil {
			return nil, err
		}
		if n == 0 {
			return nil, database.ErrOrderItemNotFound
		}
	}

	item, err := scanOrderItem(s.db.QueryRowContext(ctx,
		orderItemSelect+`WHERE oi.id = $1 AND oi.order_id = $2`, itemID, orderID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, database.ErrOrderItemNotFound
		}
		return nil, fmt.Errorf("get order item: %w", err)
	}

	return item, nil
}

// DeleteItem removes a single order item without recomputing the order total.
func (s *OrderStore) DeleteItem(ctx context.Context, orderID, itemID int64) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM order_items WHERE id = $1 AND order_id = $2`,
		itemID, orderID)
	if err != nil {
		return fmt.Errorf("delete order item: %w", err)
	}

	n, err := rowsAffected(result)
	if err != nil {
		return err
	}
	if n == 0 {
		return database.ErrOrderItemNotFound
	}

	return nil
}
