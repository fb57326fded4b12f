package storage

import (
	"context"
	"errors"

	"clubperks/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Repository defines the interface for data storage operations.
// Offers are returned in insertion order, which the catalog treats as the
// popularity ranking.
type Repository interface {
	// ReplaceOffers swaps the whole catalog for offers, keeping their order.
	ReplaceOffers(ctx context.Context, offers []domain.Offer) error

	// AddOffer appends an offer to the end of the catalog.
	AddOffer(ctx context.Context, offer domain.Offer) error

	// ListOffers returns every offer in insertion order.
	ListOffers(ctx context.Context) ([]domain.Offer, error)

	// GetOffer looks an offer up by OfferID.
	GetOffer(ctx context.Context, offerID string) (domain.Offer, error)

	// SaveBrand stores or updates a brand keyed by its slug.
	SaveBrand(ctx context.Context, brand domain.Brand) error

	// GetBrand retrieves a brand by slug.
	GetBrand(ctx context.Context, slug string) (domain.Brand, error)

	// ListBrands returns all brands ordered by slug.
	ListBrands(ctx context.Context) ([]domain.Brand, error)

	// SaveBookmark stores a bookmark. Saving the same offer twice refreshes its timestamp.
	SaveBookmark(ctx context.Context, bookmark domain.Bookmark) error

	// GetBookmarksByUser returns a user's bookmarks, newest first.
	GetBookmarksByUser(ctx context.Context, userID int64) ([]domain.Bookmark, error)

	// DeleteBookmark removes a bookmark. Deleting a missing bookmark is not an error.
	DeleteBookmark(ctx context.Context, userID int64, offerID string) error

	// Close gracefully shuts down the repository connection.
	Close() error
}
