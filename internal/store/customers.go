package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/safar/ekart/internal/database"
	"github.com/safar/ekart/internal/models"
	"golang.org/x/crypto/bcrypt"
)

const customerColumns = `id, name, email, address, phone, created_at, updated_at`

type RegisterRequest struct {
	Name     string
	Email    string
	Password string
	Address  *string
	Phone    *string
}

func (r RegisterRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return database.NewValidationError("name", "is required")
	}
	if strings.TrimSpace(r.Email) == "" {
		return database.NewValidationError("email", "is required")
	}
	if r.Password == "" {
		return database.NewValidationError("password", "is required")
	}
	return nil
}

// CustomerPatch carries the fields of a partial profile update. Nil fields are
// left unchanged.
type CustomerPatch struct {
	Name     *string
	Email    *string
	Password *string
	Address  *string
	Phone    *string
}

type CustomerStore struct {
	db         *sql.DB
	bcryptCost int
}

func NewCustomerStore(db *sql.DB, bcryptCost int) *CustomerStore {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &CustomerStore{db: db, bcryptCost: bcryptCost}
}

func scanCustomer(row scanner) (*models.Customer, error) {
	c := &models.Customer{}
	err := row.Scan(
		&c.ID,
		&c.Name,
		&c.Email,
		&c.Address,
		&c.Phone,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CustomerStore) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func (s *CustomerStore) Register(ctx context.Context, req RegisterRequest) (*models.Customer, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	email := strings.TrimSpace(req.Email)

	var taken bool
	err := s.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)",
		email).Scan(&taken)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if taken {
		return nil, database.ErrEmailTaken
	}

	hash, err := s.hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	query := `
		INSERT INTO users (name, email, password_hash, address, phone, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING ` + customerColumns

	customer, err := scanCustomer(s.db.QueryRowContext(ctx, query,
		strings.TrimSpace(req.Name), email, hash, req.Address, req.Phone))
	if err != nil {
		if database.IsUniqueViolation(err, "users_email_key") {
			return nil, database.ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return customer, nil
}

// Authenticate returns the customer whose stored hash matches password. An
// unknown email and a wrong password both yield ErrInvalidCredentials.
func (s *CustomerStore) Authenticate(ctx context.Context, email, password string) (*models.Customer, error) {
	if strings.TrimSpace(email) == "" {
		return nil, database.NewValidationError("email", "is required")
	}
	if password == "" {
		return nil, database.NewValidationError("password", "is required")
	}

	c := &models.Customer{}
	var hash string
	err := s.db.QueryRowContext(ctx,
		`SELECT `+customerColumns+`, password_hash FROM users WHERE email = $1`,
		strings.TrimSpace(email)).Scan(
		&c.ID,
		&c.Name,
		&c.Email,
		&c.Address,
		&c.Phone,
		&c.CreatedAt,
		&c.UpdatedAt,
		&hash,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, database.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return nil, database.ErrInvalidCredentials
	}

	return c, nil
}

func (s *CustomerStore) Get(ctx context.Context, id int64) (*models.Customer, error) {
	customer, err := scanCustomer(s.db.QueryRowContext(ctx,
		`SELECT `+customerColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, database.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return customer, nil
}

func (s *CustomerStore) List(ctx context.Context) ([]models.Customer, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+customerColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	customers := []models.Customer{}
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		customers = append(customers, *c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return customers, nil
}

func (s *CustomerStore) Update(ctx context.Context, id int64, patch CustomerPatch) (*models.Customer, error) {
	b := newUpdate("users").touchUpdatedAt()

	if patch.Name != nil {
		if strings.TrimSpace(*patch.Name) == "" {
			return nil, database.NewValidationError("name", "must not be empty")
		}
		b.set("name", strings.TrimSpace(*patch.Name))
	}
	if patch.Email != nil {
		if strings.TrimSpace(*patch.Email) == "" {
			return nil, database.NewValidationError("email", "must not be empty")
		}
		b.set("email", strings.TrimSpace(*patch.Email))
	}
	if patch.Password != nil {
		if *patch.Password == "" {
			return nil, database.NewValidationError("password", "must not be empty")
		}
		hash, err := s.hashPassword(*patch.Password)
		if err != nil {
			return nil, err
		}
		b.set("password_hash", hash)
	}
	if patch.Address != nil {
		b.set("address", *patch.Address)
	}
	if patch.Phone != nil {
		b.set("phone", *patch.Phone)
	}

	if b.empty() {
		return s.Get(ctx, id)
	}

	query, args := b.where("id", id).build(customerColumns)
	customer, err := scanCustomer(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, database.ErrUserNotFound
		}
		if database.IsUniqueViolation(err, "users_email_key") {
			return nil, database.ErrEmailTaken
		}
		return nil, fmt.Errorf("update user: %w", err)
	}

	return customer, nil
}

// Delete removes the customer together with their cart, wishlist, reviews and
// orders.
func (s *CustomerStore) Delete(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	n, err := rowsAffected(result)
	if err != nil {
		return err
	}
	if n == 0 {
		return database.ErrUserNotFound
	}

	return nil
}
