package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCategory(t *testing.T) {
	c, ok := ParseCategory("Golf")
	assert.True(t, ok)
	assert.Equal(t, CategoryGolf, c)

	_, ok = ParseCategory("golf")
	assert.False(t, ok, "category matching is exact")

	_, ok = ParseCategory("Spa")
	assert.False(t, ok)

	_, ok = ParseCategory("")
	assert.False(t, ok)
}

func TestOffer_KnownCategory(t *testing.T) {
	_, ok := Offer{Category: "Bowling"}.KnownCategory()
	assert.False(t, ok, "unrecognized categories are treated as no category")

	c, ok := Offer{Category: "Travel"}.KnownCategory()
	assert.True(t, ok)
	assert.Equal(t, CategoryTravel, c)
}

func TestOffer_Validate(t *testing.T) {
	assert.NoError(t, Offer{Brand: "Pinehurst", Title: "20% off green fees"}.Validate())
	assert.Error(t, Offer{Title: "20% off"}.Validate())
	assert.Error(t, Offer{Brand: "Pinehurst"}.Validate())
}

func TestOffer_Bookmarkable(t *testing.T) {
	assert.True(t, Offer{OfferID: "off-1"}.Bookmarkable())
	assert.False(t, Offer{}.Bookmarkable())
}

func TestSlugFor(t *testing.T) {
	assert.Equal(t, "ocala-country-club", SlugFor("Ocala Country Club"))
	assert.Equal(t, "double-eagle", SlugFor("  Double -- Eagle! "))
	assert.Equal(t, "", SlugFor("***"))
}

func TestBrand_Validate(t *testing.T) {
	assert.NoError(t, Brand{Slug: "oc", Name: "Ocala"}.Validate())
	assert.Error(t, Brand{Name: "Ocala"}.Validate())
	assert.Error(t, Brand{Slug: "oc"}.Validate())
}
