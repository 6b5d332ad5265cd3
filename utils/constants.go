package utils

import (
	"time"
)

// Token and session time constants
const (
	// AccessTokenTTL is the time-to-live for access tokens (1 hour)
	AccessTokenTTL = 1 * time.Hour

	// RefreshTokenTTL is the time-to-live for refresh tokens (7 days)
	RefreshTokenTTL = 7 * 24 * time.Hour
)

// Short link constants
const (
	// ShortCodeLength is the length of generated short codes
	ShortCodeLength = 6

	// ShortCodeMaxAttempts bounds the retry loop when a generated code
	// collides with an existing row
	ShortCodeMaxAttempts = 5

	// ResolveCacheTTL is how long an ownerless link resolution stays cached
	ResolveCacheTTL = 1 * time.Hour

	// ShortLinkCacheKeyPrefix namespaces cached code-to-URL entries in redis
	ShortLinkCacheKeyPrefix = "short_link:"
)
