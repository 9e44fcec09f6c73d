package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/safar/ekart/internal/store"
	"github.com/shopspring/decimal"
)

type createProductBody struct {
	Name        string           `json:"name" binding:"required"`
	Price       *decimal.Decimal `json:"price" binding:"required"`
	Description string           `json:"description"`
	Category    string           `json:"category" binding:"required"`
	Brand       string           `json:"brand"`
	Stock       int              `json:"stock"`
	Featured    bool             `json:"featured"`
	Trending    bool             `json:"trending"`
	Images      []string         `json:"images"`
	Reviews     []addReviewBody  `json:"reviews" binding:"dive"`
}

type updateProductBody struct {
	Name        *string          `json:"name"`
	Price       *decimal.Decimal `json:"price"`
	Description *string          `json:"description"`
	Category    *string          `json:"category"`
	Brand       *string          `json:"brand"`
	Stock       *int             `json:"stock"`
	Featured    *bool            `json:"featured"`
	Trending    *bool            `json:"trending"`
	Images      []string         `json:"images"`
}

type addReviewBody struct {
	UserID  int64            `json:"user_id" binding:"required"`
	Rating  *decimal.Decimal `json:"rating" binding:"required"`
	Comment *string          `json:"comment"`
}

func reviewRequests(bodies []addReviewBody) []store.AddReviewRequest {
	reqs := make([]store.AddReviewRequest, len(bodies))
	for i, b := range bodies {
		reqs[i] = store.AddReviewRequest{UserID: b.UserID, Rating: *b.Rating, Comment: b.Comment}
	}
	return reqs
}

type ProductHandler struct {
	products ProductService
	reviews  ReviewService
}

func NewProductHandler(products ProductService, reviews ReviewService) *ProductHandler {
	return &ProductHandler{products: products, reviews: reviews}
}

// GET /products
func (h *ProductHandler) List(c *gin.Context) {
	products, err := h.products.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

// GET /products/:id
func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	product, err := h.products.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// POST /products
func (h *ProductHandler) Create(c *gin.Context) {
	var body createProductBody
	if !bindJSON(c, &body) {
		return
	}

	product, err := h.products.Create(c.Request.Context(), store.ProductInput{
		Name:        body.Name,
		Price:       *body.Price,
		Description: body.Description,
		Category:    body.Category,
		Brand:       body.Brand,
		Stock:       body.Stock,
		Featured:    body.Featured,
		Trending:    body.Trending,
		Images:      body.Images,
		Reviews:     reviewRequests(body.Reviews),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

// PATCH /products/:id
func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var body updateProductBody
	if !bindJSON(c, &body) {
		return
	}

	product, err := h.products.Update(c.Request.Context(), id, store.ProductPatch{
		Name:        body.Name,
		Price:       body.Price,
		Description: body.Description,
		Category:    body.Category,
		Brand:       body.Brand,
		Stock:       body.Stock,
		Featured:    body.Featured,
		Trending:    body.Trending,
		Images:      body.Images,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// DELETE /products/:id
func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.products.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	message(c, "product deleted")
}

// GET /products/:id/reviews
func (h *ProductHandler) ListReviews(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	reviews, err := h.reviews.ListByProduct(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reviews)
}

// POST /products/:id/reviews
func (h *ProductHandler) AddReview(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var body addReviewBody
	if !bindJSON(c, &body) {
		return
	}

	review, err := h.reviews.Add(c.Request.Context(), id, store.AddReviewRequest{
		UserID:  body.UserID,
		Rating:  *body.Rating,
		Comment: body.Comment,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, review)
}

// DELETE /reviews/:id
func (h *ProductHandler) DeleteReview(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.reviews.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	message(c, "review deleted")
}
