// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"

	"github.com/amirphl/Kusanagi/models"
)

// RepositoryContext key for transaction in context
type contextKey string

const TxContextKey contextKey = "tx"

type Repository[T any, F any] interface {
	ByID(ctx context.Context, id uint) (*T, error)
	ByFilter(ctx context.Context, filter F, orderBy string, limit, offset int) ([]*T, error)
	Save(ctx context.Context, entity *T) error
	Count(ctx context.Context, filter F) (int64, error)
	Exists(ctx context.Context, filter F) (bool, error)
}

// UserRepository defines operations for users
//
// ByEmail never loads the password hash; credential verification must go
// through ByEmailWithHash so the hash is only fetched where it is needed.
type UserRepository interface {
	Repository[models.User, models.UserFilter]
	ByEmail(ctx context.Context, email string) (*models.User, error)
	ByEmailWithHash(ctx context.Context, email string) (*models.User, error)
	ByUUID(ctx context.Context, uuid string) (*models.User, error)
}

// ShortLinkRepository defines operations for short links
//
// The ByCode/ByCodeAndOwner/ListActiveByOwner lookups only ever see active
// (non soft-deleted) rows; a deleted link is indistinguishable from a missing
// one at this layer. IncrementClicks is a single UPDATE at the store so that
// concurrent resolutions never lose a count.
type ShortLinkRepository interface {
	Repository[models.ShortLink, models.ShortLinkFilter]
	ByCode(ctx context.Context, code string) (*models.ShortLink, error)
	ByCodeAndOwner(ctx context.Context, code string, ownerID uint) (*models.ShortLink, error)
	ListActiveByOwner(ctx context.Context, ownerID uint) ([]*models.ShortLink, error)
	UpdateOriginalURL(ctx context.Context, code string, ownerID uint, newURL string) (*models.ShortLink, error)
	SoftDeleteByCodeAndOwner(ctx context.Context, code string, ownerID uint) (bool, error)
	IncrementClicks(ctx context.Context, code string) (int64, error)
}
