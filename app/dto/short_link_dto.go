package dto

// ShortenRequest defines input for creating a short link
// The original URL is stored as-is; the service does not validate it as a
// well-formed URL
type ShortenRequest struct {
	OriginalURL string `json:"original_url" validate:"required,max=2048" example:"https://example.com/some/very/long/path"`
}

// UpdateShortLinkRequest defines input for replacing the original URL of an
// owned short link
type UpdateShortLinkRequest struct {
	NewOriginalURL string `json:"new_original_url" validate:"required,max=2048" example:"https://example.com/new/path"`
}

// ShortLinkDTO represents a short link in API responses
type ShortLinkDTO struct {
	ID          uint   `json:"id" example:"42"`
	ShortCode   string `json:"short_code" example:"x7k2mq"`
	OriginalURL string `json:"original_url" example:"https://example.com/some/very/long/path"`
	ClickCount  uint64 `json:"click_count" example:"17"`
	OwnerUserID *uint  `json:"owner_user_id,omitempty" example:"123"`
	CreatedAt   string `json:"created_at" example:"2024-01-15T10:30:00Z"`
	UpdatedAt   string `json:"updated_at" example:"2024-01-15T10:30:00Z"`
}

// ShortenResponse wraps a newly created short link
type ShortenResponse struct {
	Message string       `json:"message" example:"Short link created"`
	Item    ShortLinkDTO `json:"item"`
}

// ListShortLinksResponse wraps the caller's active short links
type ListShortLinksResponse struct {
	Items []ShortLinkDTO `json:"items"`
	Total int            `json:"total" example:"3"`
}
