package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type addCartItemBody struct {
	ProductID int64 `json:"product_id" binding:"required"`
	Quantity  *int  `json:"quantity"`
}

type setQuantityBody struct {
	Quantity *int `json:"quantity" binding:"required"`
}

type addWishlistItemBody struct {
	ProductID int64 `json:"product_id" binding:"required"`
}

type CartHandler struct {
	carts     CartService
	wishlists WishlistService
}

func NewCartHandler(carts CartService, wishlists WishlistService) *CartHandler {
	return &CartHandler{carts: carts, wishlists: wishlists}
}

// GET /cart/:userId
func (h *CartHandler) List(c *gin.Context) {
	userID, ok := pathID(c, "userId")
	if !ok {
		return
	}

	lines, err := h.carts.List(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, lines)
}

// POST /cart/:userId/items
func (h *CartHandler) Add(c *gin.Context) {
	userID, ok := pathID(c, "userId")
	if !ok {
		return
	}

	var body addCartItemBody
	if !bindJSON(c, &body) {
		return
	}
	quantity := 1
	if body.Quantity != nil {
		quantity = *body.Quantity
	}

	line, created, err := h.carts.Add(c.Request.Context(), userID, body.ProductID, quantity)
	if err != nil {
		respondError(c, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, line)
}

// PATCH /cart/:userId/items/:productId
func (h *CartHandler) SetQuantity(c *gin.Context) {
	userID, ok := pathID(c, "userId")
	if !ok {
		return
	}
	productID, ok := pathID(c, "productId")
	if !ok {
		return
	}

	var body setQuantityBody
	if !bindJSON(c, &body) {
		return
	}

	line, err := h.carts.SetQuantity(c.Request.Context(), userID, productID, *body.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, line)
}

// DELETE /cart/:userId/items/:productId
func (h *CartHandler) Remove(c *gin.Context) {
	userID, ok := pathID(c, "userId")
	if !ok {
		return
	}
	productID, ok := pathID(c, "productId")
	if !ok {
		return
	}

	if err := h.carts.Remove(c.Request.Context(), userID, productID); err != nil {
		respondError(c, err)
		return
	}
	message(c, "item removed from cart")
}

// DELETE /cart/:userId
func (h *CartHandler) Clear(c *gin.Context) {
	userID, ok := pathID(c, "userId")
	if !ok {
		return
	}

	removed, err := h.carts.Clear(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "cart cleared", "removed": removed})
}

// GET /wishlist/:userId
func (h *CartHandler) ListWishlist(c *gin.Context) {
	userID, ok := pathID(c, "userId")
	if !ok {
		return
	}

	entries, err := h.wishlists.List(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

// POST /wishlist/:userId/items
func (h *CartHandler) AddToWishlist(c *gin.Context) {
	userID, ok := pathID(c, "userId")
	if !ok {
		return
	}

	var body addWishlistItemBody
	if !bindJSON(c, &body) {
		return
	}

	entry, created, err := h.wishlists.Add(c.Request.Context(), userID, body.ProductID)
	if err != nil {
		respondError(c, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, entry)
}

// DELETE /wishlist/:userId/items/:productId
func (h *CartHandler) RemoveFromWishlist(c *gin.Context) {
	userID, ok := pathID(c, "userId")
	if !ok {
		return
	}
	productID, ok := pathID(c, "productId")
	if !ok {
		return
	}

	if err := h.wishlists.Remove(c.Request.Context(), userID, productID); err != nil {
		respondError(c, err)
		return
	}
	message(c, "item removed from wishlist")
}
