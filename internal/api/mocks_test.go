package api

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/safar/ekart/internal/models"
	"github.com/safar/ekart/internal/store"
	"github.com/sirupsen/logrus"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(svc Services) *gin.Engine {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewRouter(svc, logger)
}

func performRequest(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

type MockCustomerService struct {
	Customer *models.Customer
	Err      error

	lastRegister store.RegisterRequest
	lastPatch    store.CustomerPatch
	lastID       int64
}

func (m *MockCustomerService) Register(_ context.Context, req store.RegisterRequest) (*models.Customer, error) {
	m.lastRegister = req
	return m.Customer, m.Err
}

func (m *MockCustomerService) Authenticate(_ context.Context, email, _ string) (*models.Customer, error) {
	m.lastRegister.Email = email
	return m.Customer, m.Err
}

func (m *MockCustomerService) Get(_ context.Context, id int64) (*models.Customer, error) {
	m.lastID = id
	return m.Customer, m.Err
}

func (m *MockCustomerService) List(context.Context) ([]models.Customer, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return []models.Customer{*m.Customer}, nil
}

func (m *MockCustomerService) Update(_ context.Context, id int64, patch store.CustomerPatch) (*models.Customer, error) {
	m.lastID = id
	m.lastPatch = patch
	return m.Customer, m.Err
}

func (m *MockCustomerService) Delete(_ context.Context, id int64) error {
	m.lastID = id
	return m.Err
}

type MockProductService struct {
	Product *models.Product
	Err     error

	lastInput store.ProductInput
	lastPatch store.ProductPatch
	lastID    int64
}

func (m *MockProductService) List(context.Context) ([]models.Product, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return []models.Product{*m.Product}, nil
}

func (m *MockProductService) Get(_ context.Context, id int64) (*models.Product, error) {
	m.lastID = id
	return m.Product, m.Err
}

func (m *MockProductService) Create(_ context.Context, in store.ProductInput) (*models.Product, error) {
	m.lastInput = in
	return m.Product, m.Err
}

func (m *MockProductService) Update(_ context.Context, id int64, patch store.ProductPatch) (*models.Product, error) {
	m.lastID = id
	m.lastPatch = patch
	return m.Product, m.Err
}

func (m *MockProductService) Delete(_ context.Context, id int64) error {
	m.lastID = id
	return m.Err
}

type MockReviewService struct {
	Review *models.Review
	Err    error

	lastProductID int64
	lastRequest   store.AddReviewRequest
}

func (m *MockReviewService) Add(_ context.Context, productID int64, req store.AddReviewRequest) (*models.Review, error) {
	m.lastProductID = productID
	m.lastRequest = req
	return m.Review, m.Err
}

func (m *MockReviewService) ListByProduct(_ context.Context, productID int64) ([]models.Review, error) {
	m.lastProductID = productID
	if m.Err != nil {
		return nil, m.Err
	}
	return []models.Review{}, nil
}

func (m *MockReviewService) Delete(context.Context, int64) error {
	return m.Err
}

type MockCartService struct {
	Line    *models.CartLine
	Created bool
	Removed int64
	Err     error

	lastUserID    int64
	lastProductID int64
	lastQuantity  int
}

func (m *MockCartService) Add(_ context.Context, userID, productID int64, quantity int) (*models.CartLine, bool, error) {
	m.lastUserID, m.lastProductID, m.lastQuantity = userID, productID, quantity
	return m.Line, m.Created, m.Err
}

func (m *MockCartService) List(_ context.Context, userID int64) ([]models.CartLine, error) {
	m.lastUserID = userID
	if m.Err != nil {
		return nil, m.Err
	}
	return []models.CartLine{}, nil
}

func (m *MockCartService) SetQuantity(_ context.Context, userID, productID int64, quantity int) (*models.CartLine, error) {
	m.lastUserID, m.lastProductID, m.lastQuantity = userID, productID, quantity
	return m.Line, m.Err
}

func (m *MockCartService) Remove(_ context.Context, userID, productID int64) error {
	m.lastUserID, m.lastProductID = userID, productID
	return m.Err
}

func (m *MockCartService) Clear(_ context.Context, userID int64) (int64, error) {
	m.lastUserID = userID
	return m.Removed, m.Err
}

type MockWishlistService struct {
	Entry   *models.WishlistEntry
	Created bool
	Err     error
}

func (m *MockWishlistService) Add(context.Context, int64, int64) (*models.WishlistEntry, bool, error) {
	return m.Entry, m.Created, m.Err
}

func (m *MockWishlistService) List(context.Context, int64) ([]models.WishlistEntry, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return []models.WishlistEntry{*m.Entry}, nil
}

func (m *MockWishlistService) Remove(context.Context, int64, int64) error {
	return m.Err
}

type MockOrderService struct {
	Order  *models.Order
	Orders []models.Order
	Item   *models.OrderItem
	Err    error

	lastCreate  store.CreateOrderRequest
	lastPatch   store.OrderPatch
	lastItem    store.OrderItemPatch
	lastOrderID int64
	lastItemID  int64
	lastUserID  int64
}

func (m *MockOrderService) Create(_ context.Context, req store.CreateOrderRequest) (*models.Order, error) {
	m.lastCreate = req
	return m.Order, m.Err
}

func (m *MockOrderService) Get(_ context.Context, id int64) (*models.Order, error) {
	m.lastOrderID = id
	return m.Order, m.Err
}

func (m *MockOrderService) List(context.Context) ([]models.Order, error) {
	return m.Orders, m.Err
}

func (m *MockOrderService) ListByUser(_ context.Context, userID int64) ([]models.Order, error) {
	m.lastUserID = userID
	return m.Orders, m.Err
}

func (m *MockOrderService) Update(_ context.Context, id int64, patch store.OrderPatch) (*models.Order, error) {
	m.lastOrderID = id
	m.lastPatch = patch
	return m.Order, m.Err
}

func (m *MockOrderService) Delete(_ context.Context, id int64) error {
	m.lastOrderID = id
	return m.Err
}

func (m *MockOrderService) ListItems(_ context.Context, orderID int64) ([]models.OrderItem, error) {
	m.lastOrderID = orderID
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Order.Items, nil
}

func (m *MockOrderService) UpdateItem(_ context.Context, orderID, itemID int64, patch store.OrderItemPatch) (*models.OrderItem, error) {
	m.lastOrderID, m.lastItemID = orderID, itemID
	m.lastItem = patch
	return m.Item, m.Err
}

func (m *MockOrderService) DeleteItem(_ context.Context, orderID, itemID int64) error {
	m.lastOrderID, m.lastItemID = orderID, itemID
	return m.Err
}

type MockPinger struct {
	Err error
}

func (m *MockPinger) PingContext(context.Context) error {
	return m.Err
}
