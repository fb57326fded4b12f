package bot

import (
	"context"
	"image/color"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clubperks/internal/domain"
	"clubperks/internal/theme"
)

func TestColorBrandFromBytes_KeepsExistingName(t *testing.T) {
	f := setupHandler(t)
	ctx := context.Background()
	require.NoError(t, f.repo.SaveBrand(ctx, domain.Brand{Slug: "pebble-links", Name: "Pebble Links"}))

	brand, tokens, err := colorBrandFromBytes(ctx, f.repo, "pebble-links", solidPNG(t, color.RGBA{30, 64, 175, 255}))
	require.NoError(t, err)
	assert.Equal(t, "Pebble Links", brand.Name)
	assert.Equal(t, theme.Tokens{Primary: "226 71% 40%", PrimaryForeground: theme.White}, tokens)
}

func TestColorBrandFromBytes_Errors(t *testing.T) {
	f := setupHandler(t)
	ctx := context.Background()

	_, _, err := colorBrandFromBytes(ctx, f.repo, "x", []byte("not an image"))
	assert.Error(t, err)

	_, _, err = colorBrandFromBytes(ctx, f.repo, "", solidPNG(t, color.White))
	assert.Error(t, err)
}

func TestDownload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok":
			_, _ = w.Write([]byte("data"))
		case "/big":
			_, _ = w.Write([]byte(strings.Repeat("x", maxImageBytes+1)))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()
	ctx := context.Background()

	raw, err := download(ctx, srv.Client(), srv.URL+"/ok")
	require.NoError(t, err)
	assert.Equal(t, []byte("data"), raw)

	_, err = download(ctx, srv.Client(), srv.URL+"/big")
	assert.ErrorContains(t, err, "exceeds")

	_, err = download(ctx, srv.Client(), srv.URL+"/missing")
	assert.ErrorContains(t, err, "unexpected status")
}
