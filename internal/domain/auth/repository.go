package auth

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
)

// Repository handles user data access
type Repository struct {
	db *gorm.DB
}

// NewRepository creates user repository
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetByEmail retrieves a user, returning (nil, nil) when it does not exist
func (r *Repository) GetByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	err := r.db.WithContext(ctx).
		First(&u, "email = ?", normalizeEmail(email)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByID retrieves a user by id
func (r *Repository) GetByID(ctx context.Context, id int64) (*User, error) {
	var u User
	err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a new user
func (r *Repository) Create(ctx context.Context, u *User) error {
	u.Email = normalizeEmail(u.Email)
	return r.db.WithContext(ctx).Create(u).Error
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
