package businessflow

import (
	"context"

	"github.com/amirphl/Kusanagi/app/dto"
	"github.com/amirphl/Kusanagi/models"
	"github.com/amirphl/Kusanagi/repository"
	"github.com/amirphl/Kusanagi/utils"
	"gorm.io/gorm"
)

// ShortLinkFlow handles creation and management of short links.
// Shorten accepts an optional caller: anonymous callers create ownerless
// links. List, Update and Delete operate only on the caller's own links.
type ShortLinkFlow interface {
	Shorten(ctx context.Context, request *dto.ShortenRequest, caller *Caller, metadata *ClientMetadata) (*dto.ShortenResponse, error)
	List(ctx context.Context, caller *Caller, metadata *ClientMetadata) (*dto.ListShortLinksResponse, error)
	Update(ctx context.Context, shortCode string, request *dto.UpdateShortLinkRequest, caller *Caller, metadata *ClientMetadata) (*dto.ShortLinkDTO, error)
	Delete(ctx context.Context, shortCode string, caller *Caller, metadata *ClientMetadata) error
}

// ShortLinkFlowImpl implements the short link business flow
type ShortLinkFlowImpl struct {
	shortLinkRepo repository.ShortLinkRepository
	db            *gorm.DB
}

// NewShortLinkFlow creates a new short link flow instance
func NewShortLinkFlow(
	shortLinkRepo repository.ShortLinkRepository,
	db *gorm.DB,
) ShortLinkFlow {
	return &ShortLinkFlowImpl{
		shortLinkRepo: shortLinkRepo,
		db:            db,
	}
}

// Shorten creates a new short link for the given URL. Code generation is
// optimistic: insert and retry on a unique violation instead of checking
// the namespace first, so concurrent creators never race past each other.
func (sf *ShortLinkFlowImpl) Shorten(ctx context.Context, request *dto.ShortenRequest, caller *Caller, metadata *ClientMetadata) (*dto.ShortenResponse, error) {
	var ownerID *uint
	if caller != nil {
		ownerID = utils.ToPtr(caller.UserID)
	}

	var link *models.ShortLink

	for attempt := 0; attempt < utils.ShortCodeMaxAttempts; attempt++ {
		code, err := GenerateShortCode()
		if err != nil {
			return nil, NewBusinessError("SHORTEN_FAILED", "Failed to generate short code", err)
		}

		candidate := &models.ShortLink{
			ShortCode:   code,
			OriginalURL: request.OriginalURL,
			OwnerUserID: ownerID,
		}

		err = sf.shortLinkRepo.Save(ctx, candidate)
		if err == nil {
			link = candidate
			break
		}
		if !repository.IsUniqueViolation(err) {
			return nil, NewBusinessError("SHORTEN_FAILED", "Failed to create short link", err)
		}
	}

	if link == nil {
		return nil, NewBusinessError("SHORTEN_FAILED", "Failed to create short link", ErrShortCodeExhausted)
	}

	return &dto.ShortenResponse{
		Message: "Short link created",
		Item:    ToShortLinkDTO(*link),
	}, nil
}

// List returns all active short links owned by the caller, oldest first.
func (sf *ShortLinkFlowImpl) List(ctx context.Context, caller *Caller, metadata *ClientMetadata) (*dto.ListShortLinksResponse, error) {
	rows, err := sf.shortLinkRepo.ListActiveByOwner(ctx, caller.UserID)
	if err != nil {
		return nil, NewBusinessError("LIST_SHORT_LINKS_FAILED", "Failed to list short links", err)
	}

	items := make([]dto.ShortLinkDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, ToShortLinkDTO(*row))
	}

	return &dto.ListShortLinksResponse{
		Items: items,
		Total: len(items),
	}, nil
}

// Update rewrites the destination URL of one of the caller's links.
// A code that does not exist, is deleted, or belongs to someone else all
// come back as ErrShortLinkNotFound; ownership is never disclosed.
func (sf *ShortLinkFlowImpl) Update(ctx context.Context, shortCode string, request *dto.UpdateShortLinkRequest, caller *Caller, metadata *ClientMetadata) (*dto.ShortLinkDTO, error) {
	row, err := sf.shortLinkRepo.UpdateOriginalURL(ctx, shortCode, caller.UserID, request.NewOriginalURL)
	if err != nil {
		return nil, NewBusinessError("UPDATE_SHORT_LINK_FAILED", "Failed to update short link", err)
	}
	if row == nil {
		return nil, ErrShortLinkNotFound
	}

	out := ToShortLinkDTO(*row)
	return &out, nil
}

// Delete soft-deletes one of the caller's links. Deletion is terminal: the
// code stops resolving and is never reissued. Missing and foreign codes are
// both reported as ErrShortLinkNotFound.
func (sf *ShortLinkFlowImpl) Delete(ctx context.Context, shortCode string, caller *Caller, metadata *ClientMetadata) error {
	deleted, err := sf.shortLinkRepo.SoftDeleteByCodeAndOwner(ctx, shortCode, caller.UserID)
	if err != nil {
		return NewBusinessError("DELETE_SHORT_LINK_FAILED", "Failed to delete short link", err)
	}
	if !deleted {
		return ErrShortLinkNotFound
	}

	return nil
}
