package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/safar/ekart/internal/store"
	"github.com/sirupsen/logrus"
)

// Services groups the dependencies the router dispatches to.
type Services struct {
	Customers CustomerService
	Products  ProductService
	Reviews   ReviewService
	Carts     CartService
	Wishlists WishlistService
	Orders    OrderService
	DB        Pinger
}

func ServicesFromStores(s *store.Stores, db Pinger) Services {
	return Services{
		Customers: s.Customers,
		Products:  s.Products,
		Reviews:   s.Reviews,
		Carts:     s.Carts,
		Wishlists: s.Wishlists,
		Orders:    s.Orders,
		DB:        db,
	}
}

func init() {
	binding.EnableDecoderDisallowUnknownFields = true
}

func NewRouter(svc Services, logger *logrus.Logger) *gin.Engine {
	router := gin.New()
	router.Use(RequestLogger(logger))
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		requestLogger(c).WithField("panic", recovered).Error("panic recovered")
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}))

	users := NewUserHandler(svc.Customers, svc.Orders)
	products := NewProductHandler(svc.Products, svc.Reviews)
	carts := NewCartHandler(svc.Carts, svc.Wishlists)
	orders := NewOrderHandler(svc.Orders)

	router.GET("/healthz", health(svc.DB))

	router.POST("/sessions", users.Login)

	userRoutes := router.Group("/users")
	{
		userRoutes.POST("", users.Register)
		userRoutes.GET("", users.List)
		userRoutes.GET("/:id", users.Get)
		userRoutes.PATCH("/:id", users.Update)
		userRoutes.DELETE("/:id", users.Delete)
		userRoutes.GET("/:id/orders", users.ListOrders)
		userRoutes.POST("/:id/orders", orders.CreateForUser)
	}

	productRoutes := router.Group("/products")
	{
		productRoutes.GET("", products.List)
		productRoutes.POST("", products.Create)
		productRoutes.GET("/:id", products.Get)
		productRoutes.PATCH("/:id", products.Update)
		productRoutes.DELETE("/:id", products.Delete)
		productRoutes.GET("/:id/reviews", products.ListReviews)
		productRoutes.POST("/:id/reviews", products.AddReview)
	}
	router.DELETE("/reviews/:id", products.DeleteReview)

	cartRoutes := router.Group("/cart/:userId")
	{
		cartRoutes.GET("", carts.List)
		cartRoutes.DELETE("", carts.Clear)
		cartRoutes.POST("/items", carts.Add)
		cartRoutes.PATCH("/items/:productId", carts.SetQuantity)
		cartRoutes.DELETE("/items/:productId", carts.Remove)
	}

	wishlistRoutes := router.Group("/wishlist/:userId")
	{
		wishlistRoutes.GET("", carts.ListWishlist)
		wishlistRoutes.POST("/items", carts.AddToWishlist)
		wishlistRoutes.DELETE("/items/:productId", carts.RemoveFromWishlist)
	}

	orderRoutes := router.Group("/orders")
	{
		orderRoutes.POST("", orders.Create)
		orderRoutes.GET("", orders.List)
		orderRoutes.GET("/:id", orders.Get)
		orderRoutes.PATCH("/:id", orders.Update)
		orderRoutes.DELETE("/:id", orders.Delete)
		orderRoutes.GET("/:id/items", orders.ListItems)
		orderRoutes.PATCH("/:id/items/:itemId", orders.UpdateItem)
		orderRoutes.DELETE("/:id/items/:itemId", orders.DeleteItem)
	}

	return router
}

// GET /healthz
func health(db Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if db != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()

			if err := db.PingContext(ctx); err != nil {
				requestLogger(c).WithError(err).Warn("health check failed")
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
