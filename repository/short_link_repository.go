package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/amirphl/Kusanagi/models"
	"github.com/amirphl/Kusanagi/utils"
	"gorm.io/gorm"
)

// ShortLinkRepositoryImpl implements ShortLinkRepository
type ShortLinkRepositoryImpl struct {
	*BaseRepository[models.ShortLink, models.ShortLinkFilter]
}

func NewShortLinkRepository(db *gorm.DB) ShortLinkRepository {
	return &ShortLinkRepositoryImpl{BaseRepository: NewBaseRepository[models.ShortLink, models.ShortLinkFilter](db)}
}

func (r *ShortLinkRepositoryImpl) applyFilter(db *gorm.DB, f models.ShortLinkFilter) *gorm.DB {
	if f.ID != nil {
		db = db.Where("id = ?", *f.ID)
	}
	if f.ShortCode != nil {
		db = db.Where("short_code = ?", *f.ShortCode)
	}
	if f.OwnerUserID != nil {
		db = db.Where("owner_user_id = ?", *f.OwnerUserID)
	}
	if f.ActiveOnly {
		db = db.Where("deleted_at IS NULL")
	}
	if f.CreatedAfter != nil {
		db = db.Where("created_at >= ?", *f.CreatedAfter)
	}
	if f.CreatedBefore != nil {
		db = db.Where("created_at < ?", *f.CreatedBefore)
	}
	return db
}

func (r *ShortLinkRepositoryImpl) ByFilter(ctx context.Context, filter models.ShortLinkFilter, orderBy string, limit, offset int) ([]*models.ShortLink, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.ShortLink{}), filter)
	if orderBy != "" {
		query = query.Order(orderBy)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	var rows []*models.ShortLink
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *ShortLinkRepositoryImpl) Count(ctx context.Context, filter models.ShortLinkFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.ShortLink{}), filter)
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *ShortLinkRepositoryImpl) Exists(ctx context.Context, filter models.ShortLinkFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}

// ByCode retrieves the active link with the given code
func (r *ShortLinkRepositoryImpl) ByCode(ctx context.Context, code string) (*models.ShortLink, error) {
	filter := models.ShortLinkFilter{ShortCode: &code, ActiveOnly: true}
	rows, err := r.ByFilter(ctx, filter, "id DESC", 1, 0)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

// ByCodeAndOwner retrieves the active link with the given code owned by ownerID
func (r *ShortLinkRepositoryImpl) ByCodeAndOwner(ctx context.Context, code string, ownerID uint) (*models.ShortLink, error) {
	filter := models.ShortLinkFilter{ShortCode: &code, OwnerUserID: &ownerID, ActiveOnly: true}
	rows, err := r.ByFilter(ctx, filter, "id DESC", 1, 0)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

// ListActiveByOwner retrieves all active links owned by ownerID in insertion order
func (r *ShortLinkRepositoryImpl) ListActiveByOwner(ctx context.Context, ownerID uint) ([]*models.ShortLink, error) {
	filter := models.ShortLinkFilter{OwnerUserID: &ownerID, ActiveOnly: true}
	return r.ByFilter(ctx, filter, "id ASC", 0, 0)
}

// UpdateOriginalURL replaces the original URL of the active link with the
// given code owned by ownerID and returns the updated row. Returns nil when
// no such row exists; ownership mismatch is not distinguishable from absence.
func (r *ShortLinkRepositoryImpl) UpdateOriginalURL(ctx context.Context, code string, ownerID uint, newURL string) (*models.ShortLink, error) {
	db := r.getDB(ctx)

	res := db.Model(&models.ShortLink{}).
		Where("short_code = ? AND owner_user_id = ? AND deleted_at IS NULL", code, ownerID).
		Updates(map[string]any{
			"original_url": newURL,
			"updated_at":   utils.UTCNow(),
		})
	if res.Error != nil {
		return nil, fmt.Errorf("failed to update original url: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}

	return r.ByCodeAndOwner(ctx, code, ownerID)
}

// SoftDeleteByCodeAndOwner stamps deleted_at on the active link with the given
// code owned by ownerID. Returns false when no active owned row matched.
// The row is never removed and its code is never freed for reuse.
func (r *ShortLinkRepositoryImpl) SoftDeleteByCodeAndOwner(ctx context.Context, code string, ownerID uint) (bool, error) {
	db := r.getDB(ctx)

	now := utils.UTCNow()
	res := db.Model(&models.ShortLink{}).
		Where("short_code = ? AND owner_user_id = ? AND deleted_at IS NULL", code, ownerID).
		Updates(map[string]any{
			"deleted_at": now,
			"updated_at": now,
		})
	if res.Error != nil {
		return false, fmt.Errorf("failed to soft delete short link: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// IncrementClicks bumps the click counter of the active link with the given
// code in a single UPDATE so concurrent resolutions never lose a count.
// Returns the number of rows affected; zero means no active row matched.
func (r *ShortLinkRepositoryImpl) IncrementClicks(ctx context.Context, code string) (int64, error) {
	db := r.getDB(ctx)

	res := db.Model(&models.ShortLink{}).
		Where("short_code = ? AND deleted_at IS NULL", code).
		Updates(map[string]any{
			"click_count": gorm.Expr("click_count + 1"),
			"updated_at":  utils.UTCNow(),
		})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to increment clicks: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// ByID overrides the base lookup to keep soft-deleted rows invisible
func (r *ShortLinkRepositoryImpl) ByID(ctx context.Context, id uint) (*models.ShortLink, error) {
	db := r.getDB(ctx)
	var row models.ShortLink
	if err := db.Where("deleted_at IS NULL").Last(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}
