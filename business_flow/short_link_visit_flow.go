package businessflow

import (
	"context"

	"github.com/amirphl/Kusanagi/config"
	"github.com/amirphl/Kusanagi/repository"
	"github.com/amirphl/Kusanagi/utils"
	"github.com/redis/go-redis/v9"
)

// ShortLinkVisitFlow resolves a short link and tracks a click.
// Ownerless links resolve for everyone. An owned link resolves only for its
// owner; anyone else gets ErrShortLinkUnauthorized. Every successful
// resolution increments the click counter exactly once.
type ShortLinkVisitFlow interface {
	Visit(ctx context.Context, shortCode string, caller *Caller, metadata *ClientMetadata) (string, error)
}

type ShortLinkVisitFlowImpl struct {
	shortLinkRepo repository.ShortLinkRepository
	rc            *redis.Client
	cacheConfig   *config.CacheConfig
}

// NewShortLinkVisitFlow creates a new visit flow instance. The redis client
// is optional; passing nil disables the resolution cache.
func NewShortLinkVisitFlow(
	shortLinkRepo repository.ShortLinkRepository,
	rc *redis.Client,
	cacheConfig *config.CacheConfig,
) ShortLinkVisitFlow {
	return &ShortLinkVisitFlowImpl{
		shortLinkRepo: shortLinkRepo,
		rc:            rc,
		cacheConfig:   cacheConfig,
	}
}

func (f *ShortLinkVisitFlowImpl) Visit(ctx context.Context, shortCode string, caller *Caller, metadata *ClientMetadata) (string, error) {
	// Only ownerless links are cached, so a cache hit needs no ownership
	// check. The click is still counted through the store; a zero row count
	// means the link was deleted after it was cached.
	if f.rc != nil {
		if url, err := f.rc.Get(ctx, f.cacheKey(shortCode)).Result(); err == nil && url != "" {
			affected, err := f.shortLinkRepo.IncrementClicks(ctx, shortCode)
			if err != nil {
				return "", NewBusinessError("SHORT_LINK_TRACK_FAILED", "Failed to track short link click", err)
			}
			if affected == 0 {
				_ = f.rc.Del(ctx, f.cacheKey(shortCode)).Err()
				return "", ErrShortLinkNotFound
			}
			return url, nil
		}
	}

	row, err := f.shortLinkRepo.ByCode(ctx, shortCode)
	if err != nil {
		return "", NewBusinessError("SHORT_LINK_LOOKUP_FAILED", "Failed to lookup short link", err)
	}
	if row == nil {
		return "", ErrShortLinkNotFound
	}

	if row.IsOwned() {
		if caller == nil || caller.UserID != *row.OwnerUserID {
			return "", ErrShortLinkUnauthorized
		}
	}

	affected, err := f.shortLinkRepo.IncrementClicks(ctx, shortCode)
	if err != nil {
		return "", NewBusinessError("SHORT_LINK_TRACK_FAILED", "Failed to track short link click", err)
	}
	if affected == 0 {
		// Soft-deleted between the lookup and the update
		return "", ErrShortLinkNotFound
	}

	if f.rc != nil && !row.IsOwned() {
		_ = f.rc.Set(ctx, f.cacheKey(shortCode), row.OriginalURL, utils.ResolveCacheTTL).Err()
	}

	return row.OriginalURL, nil
}

func (f *ShortLinkVisitFlowImpl) cacheKey(shortCode string) string {
	prefix := ""
	if f.cacheConfig != nil {
		prefix = f.cacheConfig.RedisPrefix
	}
	return prefix + utils.ShortLinkCacheKeyPrefix + shortCode
}
