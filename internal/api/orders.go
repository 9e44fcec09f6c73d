package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/safar/ekart/internal/store"
	"github.com/shopspring/decimal"
)

// createOrderBody is the single order creation shape. Item prices and the
// total are read only when the server runs in caller pricing mode.
type createOrderBody struct {
	UserID        int64            `json:"user_id" binding:"required"`
	Address       string           `json:"address" binding:"required"`
	PaymentMethod string           `json:"payment_method" binding:"required"`
	TotalAmount   *decimal.Decimal `json:"total_amount"`
	Items         []orderItemBody  `json:"items" binding:"required,min=1,dive"`
}

type orderItemBody struct {
	ProductID int64            `json:"product_id" binding:"required"`
	Quantity  int              `json:"quantity" binding:"required"`
	Price     *decimal.Decimal `json:"price"`
}

// createUserOrderBody is the user-scoped creation shape, where each line
// nests the product it refers to.
type createUserOrderBody struct {
	Address       string           `json:"address" binding:"required"`
	PaymentMethod string           `json:"payment_method" binding:"required"`
	TotalAmount   *decimal.Decimal `json:"total_amount"`
	Products      []orderLineBody  `json:"products" binding:"required,min=1,dive"`
}

type orderLineBody struct {
	Product  orderedProductBody `json:"product"`
	Quantity int                `json:"quantity" binding:"required"`
}

type orderedProductBody struct {
	ID    int64            `json:"id" binding:"required"`
	Price *decimal.Decimal `json:"price"`
}

type updateOrderBody struct {
	Status        *string `json:"status"`
	Address       *string `json:"address"`
	PaymentMethod *string `json:"payment_method"`
}

type updateOrderItemBody struct {
	Quantity        *int             `json:"quantity"`
	PriceAtPurchase *decimal.Decimal `json:"price_at_purchase"`
}

type OrderHandler struct {
	orders OrderService
}

func NewOrderHandler(orders OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// POST /orders
func (h *OrderHandler) Create(c *gin.Context) {
	var body createOrderBody
	if !bindJSON(c, &body) {
		return
	}

	items := make([]store.OrderItemRequest, len(body.Items))
	for i, item := range body.Items {
		items[i] = store.OrderItemRequest{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		}
	}

	h.create(c, store.CreateOrderRequest{
		UserID:        body.UserID,
		Address:       body.Address,
		PaymentMethod: body.PaymentMethod,
		TotalAmount:   body.TotalAmount,
		Items:         items,
	})
}

// POST /users/:id/orders
func (h *OrderHandler) CreateForUser(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var body createUserOrderBody
	if !bindJSON(c, &body) {
		return
	}

	items := make([]store.OrderItemRequest, len(body.Products))
	for i, line := range body.Products {
		items[i] = store.OrderItemRequest{
			ProductID: line.Product.ID,
			Quantity:  line.Quantity,
			Price:     line.Product.Price,
		}
	}

	h.create(c, store.CreateOrderRequest{
		UserID:        userID,
		Address:       body.Address,
		PaymentMethod: body.PaymentMethod,
		TotalAmount:   body.TotalAmount,
		Items:         items,
	})
}

func (h *OrderHandler) create(c *gin.Context, req store.CreateOrderRequest) {
	order, err := h.orders.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	requestLogger(c).WithField("order_id", order.ID).Info("order created")
	c.JSON(http.StatusCreated, order)
}

// GET /orders
func (h *OrderHandler) List(c *gin.Context) {
	orders, err := h.orders.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// GET /orders/:id
func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	order, err := h.orders.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// PATCH /orders/:id
func (h *OrderHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var body updateOrderBody
	if !bindJSON(c, &body) {
		return
	}

	order, err := h.orders.Update(c.Request.Context(), id, store.OrderPatch{
		Status:        body.Status,
		Address:       body.Address,
		PaymentMethod: body.PaymentMethod,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// DELETE /orders/:id
func (h *OrderHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.orders.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	message(c, "order deleted")
}

// GET /orders/:id/items
func (h *OrderHandler) ListItems(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	items, err := h.orders.ListItems(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// PATCH /orders/:id/items/:itemId
func (h *OrderHandler) UpdateItem(c *gin.Context) {
	orderID, ok := pathID(c, "id")
	if !ok {
		return
	}
	itemID, ok := pathID(c, "itemId")
	if !ok {
		return
	}

	var body updateOrderItemBody
	if !bindJSON(c, &body) {
		return
	}

	item, err := h.orders.UpdateItem(c.Request.Context(), orderID, itemID, store.OrderItemPatch{
		Quantity:        body.Quantity,
		PriceAtPurchase: body.PriceAtPurchase,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// DELETE /orders/:id/items/:itemId
func (h *OrderHandler) DeleteItem(c *gin.Context) {
	orderID, ok := pathID(c, "id")
	if !ok {
		return
	}
	itemID, ok := pathID(c, "itemId")
	if !ok {
		return
	}

	if err := h.orders.DeleteItem(c.Request.Context(), orderID, itemID); err != nil {
		respondError(c, err)
		return
	}
	message(c, "order item deleted")
}
