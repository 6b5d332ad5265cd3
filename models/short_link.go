package models

import "time"

// ShortLink represents a shortened URL record
// ShortCode is the short unique token that maps to the original URL
// OwnerUserID is optional (nullable); a link without an owner is anonymous
// and may be resolved by anyone
// DeletedAt marks the row as soft-deleted; deleted rows keep their code so
// codes are never reused
type ShortLink struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	ShortCode   string     `gorm:"size:64;not null;uniqueIndex:uk_short_links_short_code" json:"short_code"`
	OriginalURL string     `gorm:"type:text;not null" json:"original_url"`
	ClickCount  uint64     `gorm:"not null;default:0" json:"click_count"`
	OwnerUserID *uint      `gorm:"index:idx_short_links_owner_user_id" json:"owner_user_id,omitempty"`
	DeletedAt   *time.Time `gorm:"index:idx_short_links_deleted_at" json:"deleted_at,omitempty"`

	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_short_links_created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

// TableName returns the table name for ShortLink
func (ShortLink) TableName() string { return "short_links" }

// IsDeleted reports whether the link has been soft-deleted
func (s *ShortLink) IsDeleted() bool { return s.DeletedAt != nil }

// IsOwned reports whether the link is attributed to a user
func (s *ShortLink) IsOwned() bool { return s.OwnerUserID != nil }

// ShortLinkFilter provides filter fields for repository queries
type ShortLinkFilter struct {
	ID            *uint
	ShortCode     *string
	OwnerUserID   *uint
	ActiveOnly    bool
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}
