//go:build integration

package store_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/safar/ekart/internal/config"
	"github.com/safar/ekart/internal/database"
	"github.com/safar/ekart/internal/models"
	"github.com/safar/ekart/internal/store"
	"github.com/shopspring/decimal"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupTestDB(t *testing.T) (*sql.DB, func()) {
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Fatalf("Failed to start postgres container: %v", err)
	}

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("Failed to get connection string: %v", err)
	}

	db, err := database.NewConnection(&config.DatabaseConfig{
		URL:             dsn,
		MaxOpenConns:    10,
		MaxIdleConns:    2,
		ConnMaxLifetime: time.Minute,
	})
	if err != nil {
		t.Fatalf("Failed to connect to database: %v", err)
	}

	if _, err := database.Migrate(ctx, db, database.Up, nil); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	cleanup := func() {
		if err := db.Close(); err != nil {
			t.Logf("Failed to close database: %v", err)
		}
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	}

	return db, cleanup
}

func setupStores(t *testing.T, pricing config.PricingMode) (*sql.DB, *store.Stores, func()) {
	db, cleanup := setupTestDB(t)
	stores := store.New(db, &config.Config{
		Orders: config.OrdersConfig{Pricing: pricing},
		Auth:   config.AuthConfig{BcryptCost: 4},
	})
	return db, stores, cleanup
}

func createCustomer(t *testing.T, s *store.Stores, email string) *models.Customer {
	t.Helper()
	c, err := s.Customers.Register(context.Background(), store.RegisterRequest{
		Name:     "Test User",
		Email:    email,
		Password: "secret",
	})
	if err != nil {
		t.Fatalf("Register %s: %v", email, err)
	}
	return c
}

func createProduct(t *testing.T, s *store.Stores, name, price string) *models.Product {
	t.Helper()
	p, err := s.Products.Create(context.Background(), store.ProductInput{
		Name:     name,
		Price:    decimal.RequireFromString(price),
		Category: "Tools",
		Stock:    5,
	})
	if err != nil {
		t.Fatalf("Create product %s: %v", name, err)
	}
	return p
}

func countRows(t *testing.T, db *sql.DB, query string, args ...any) int {
	t.Helper()
	var n int
	if err := db.QueryRow(query, args...).Scan(&n); err != nil {
		t.Fatalf("Count rows: %v", err)
	}
	return n
}
