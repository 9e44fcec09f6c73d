package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/safar/ekart/internal/store"
)

type registerBody struct {
	Name     string  `json:"name" binding:"required"`
	Email    string  `json:"email" binding:"required,email"`
	Password string  `json:"password" binding:"required"`
	Address  *string `json:"address"`
	Phone    *string `json:"phone"`
}

type loginBody struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type updateUserBody struct {
	Name     *string `json:"name"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Password *string `json:"password"`
	Address  *string `json:"address"`
	Phone    *string `json:"phone"`
}

type UserHandler struct {
	customers CustomerService
	orders    OrderService
}

func NewUserHandler(customers CustomerService, orders OrderService) *UserHandler {
	return &UserHandler{customers: customers, orders: orders}
}

// POST /users
func (h *UserHandler) Register(c *gin.Context) {
	var body registerBody
	if !bindJSON(c, &body) {
		return
	}

	customer, err := h.customers.Register(c.Request.Context(), store.RegisterRequest{
		Name:     body.Name,
		Email:    body.Email,
		Password: body.Password,
		Address:  body.Address,
		Phone:    body.Phone,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, customer)
}

// POST /sessions
func (h *UserHandler) Login(c *gin.Context) {
	var body loginBody
	if !bindJSON(c, &body) {
		return
	}

	customer, err := h.customers.Authenticate(c.Request.Context(), body.Email, body.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, customer)
}

// GET /users
func (h *UserHandler) List(c *gin.Context) {
	customers, err := h.customers.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, customers)
}

// GET /users/:id
func (h *UserHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	customer, err := h.customers.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

// PATCH /users/:id
func (h *UserHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var body updateUserBody
	if !bindJSON(c, &body) {
		return
	}

	customer, err := h.customers.Update(c.Request.Context(), id, store.CustomerPatch{
		Name:     body.Name,
		Email:    body.Email,
		Password: body.Password,
		Address:  body.Address,
		Phone:    body.Phone,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

// DELETE /users/:id
func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.customers.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	message(c, "user deleted")
}

// GET /users/:id/orders
func (h *UserHandler) ListOrders(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	orders, err := h.orders.ListByUser(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}
