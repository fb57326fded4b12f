package domain

import (
	"errors"
	"strings"
	"time"
	"unicode"
)

// Brand is a club tenant owning a set of offers and a visual theme.
type Brand struct {
	Slug string `json:"slug" yaml:"slug"`
	Name string `json:"name" yaml:"name"`

	// Primary is the brand color as an HSL token, e.g. "212 80% 42%".
	Primary string `json:"primary,omitempty" yaml:"primary,omitempty"`

	LogoURL   string    `json:"logo_url,omitempty" yaml:"logoUrl,omitempty"`
	UpdatedAt time.Time `json:"updated_at" yaml:"-"`
}

// Validate checks the brand's required fields.
func (b Brand) Validate() error {
	if b.Slug == "" {
		return errors.New("brand slug cannot be empty")
	}
	if b.Name == "" {
		return errors.New("brand name cannot be empty")
	}
	return nil
}

// SlugFor derives a URL-safe slug from a brand name.
// "Ocala Country Club" becomes "ocala-country-club".
func SlugFor(name string) string {
	var sb strings.Builder
	dash := false
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
			dash = false
			continue
		}
		if sb.Len() > 0 && !dash {
			sb.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(sb.String(), "-")
}
