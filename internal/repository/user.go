package repository

import (
	"context"

	"flocknet/internal/domain"
)

// UserUpdate carries the mutable profile fields for an update. Nil pointers
// leave the corresponding column untouched.
type UserUpdate struct {
	FullName     *string
	Username     *string
	Email        *string
	Bio          *string
	Link         *string
	ProfileImg   *string
	CoverImg     *string
	PasswordHash *string
}

// UserRepository defines persistence operations for User entities.
type UserRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, user *domain.User) error
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	Update(ctx context.Context, id string, upd UserUpdate) error
	// SampleOthers returns up to limit users drawn at random, excluding the
	// given user id.
	SampleOthers(ctx context.Context, excludeID string, limit int) ([]*domain.User, error)
}
