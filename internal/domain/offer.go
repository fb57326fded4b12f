package domain

import "errors"

// Category is one of the fixed offer categories.
type Category string

const (
	CategoryGolf          Category = "Golf"
	CategoryHotels        Category = "Hotels"
	CategoryDining        Category = "Dining"
	CategoryLifestyle     Category = "Lifestyle"
	CategoryEntertainment Category = "Entertainment"
	CategoryShopping      Category = "Shopping"
	CategoryTravel        Category = "Travel"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryGolf,
	CategoryHotels,
	CategoryDining,
	CategoryLifestyle,
	CategoryEntertainment,
	CategoryShopping,
	CategoryTravel,
}

// ParseCategory reports whether s names a known category. Matching is exact.
func ParseCategory(s string) (Category, bool) {
	for _, c := range Categories {
		if string(c) == s {
			return c, true
		}
	}
	return "", false
}

// Offer is a single catalog entry: a redeemable benefit at a brand or venue.
type Offer struct {
	// OfferID is the stable identifier. Offers without one cannot be bookmarked or deep-linked.
	OfferID string `json:"offerId,omitempty" yaml:"offerId,omitempty"`

	Brand       string   `json:"brand" yaml:"brand"`
	Title       string   `json:"title" yaml:"title"`
	Images      []string `json:"images,omitempty" yaml:"images,omitempty"`
	Tags        []string `json:"tags,omitempty" yaml:"tags,omitempty"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`

	// Category holds the raw stored value. Use KnownCategory for filtering.
	Category string `json:"category,omitempty" yaml:"category,omitempty"`

	City      string `json:"city,omitempty" yaml:"city,omitempty"`
	MajorCity string `json:"majorCity,omitempty" yaml:"majorCity,omitempty"`
}

// KnownCategory returns the offer's category if it is a member of the fixed set.
func (o Offer) KnownCategory() (Category, bool) {
	return ParseCategory(o.Category)
}

// Bookmarkable reports whether the offer can be saved or linked to.
func (o Offer) Bookmarkable() bool {
	return o.OfferID != ""
}

// Validate checks the fields the catalog importer requires.
func (o Offer) Validate() error {
	if o.Brand == "" {
		return errors.New("offer brand cannot be empty")
	}
	if o.Title == "" {
		return errors.New("offer title cannot be empty")
	}
	return nil
}
