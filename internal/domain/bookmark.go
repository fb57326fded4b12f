package domain

import "time"

// Bookmark records that a user saved an offer.
type Bookmark struct {
	// UserID is the Telegram User ID of the member who saved the offer.
	UserID int64 `json:"user_id"`

	// OfferID identifies the saved offer. Offers without an ID cannot be bookmarked.
	OfferID string `json:"offer_id"`

	// Timestamp indicates when the offer was saved.
	Timestamp time.Time `json:"timestamp"`
}
