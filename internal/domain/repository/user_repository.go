package repository

import (
	"context"
	"errors"

	"github.com/oksasatya/user-records-api/internal/domain/entity"
)

var (
	// ErrNotFound is returned by point lookups when no row matches, and by
	// Update when the target row disappeared before the statement ran.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateEmail is returned when the storage layer rejects a write
	// that would violate the email uniqueness constraint.
	ErrDuplicateEmail = errors.New("duplicate email")
)

// ListFilters narrows List and Count. Zero-value fields impose no
// restriction. Limit/Offset are only applied when non-nil.
type ListFilters struct {
	City   string
	Gender string
	Search string
	Limit  *int
	Offset *int
}

// UserRepository defines the interface for user-related database operations.
// Listing is always ordered by creation time descending.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	List(ctx context.Context, f ListFilters) ([]entity.User, error)
	Search(ctx context.Context, term string) ([]entity.User, error)
	Update(ctx context.Context, u *entity.User) error
	Delete(ctx context.Context, id string) (bool, error)
	Count(ctx context.Context, f ListFilters) (int64, error)
	Stats(ctx context.Context) (*entity.UserStats, error)
}
