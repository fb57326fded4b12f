package bot

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"net/http"
	"time"

	"clubperks/internal/domain"
	"clubperks/internal/storage"
	"clubperks/internal/theme"
)

// maxImageBytes caps photo downloads used for color sampling.
const maxImageBytes = 10 << 20

// colorBrand samples the center of img and stores it as the brand's primary
// color, creating the brand if needed.
func colorBrand(ctx context.Context, repo storage.Repository, slug string, img image.Image) (domain.Brand, theme.Tokens, error) {
	if slug == "" {
		return domain.Brand{}, theme.Tokens{}, errors.New("brand slug cannot be empty")
	}
	brand, err := repo.GetBrand(ctx, slug)
	if errors.Is(err, storage.ErrNotFound) {
		brand = domain.Brand{Slug: slug, Name: slug}
	} else if err != nil {
		return domain.Brand{}, theme.Tokens{}, err
	}

	c := theme.SampleCenter(img)
	brand.Primary = theme.RGBToHSL(c.R, c.G, c.B).String()
	brand.UpdatedAt = time.Now()
	if err := repo.SaveBrand(ctx, brand); err != nil {
		return domain.Brand{}, theme.Tokens{}, err
	}
	return brand, theme.DeriveTokens(brand.Primary), nil
}

// colorBrandFromBytes decodes raw image data and colors the brand from it.
func colorBrandFromBytes(ctx context.Context, repo storage.Repository, slug string, raw []byte) (domain.Brand, theme.Tokens, error) {
	img, _, err := theme.DecodeImage(bytes.NewReader(raw))
	if err != nil {
		return domain.Brand{}, theme.Tokens{}, err
	}
	return colorBrand(ctx, repo, slug, img)
}

// download fetches url with a size cap.
func download(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building download request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("downloading file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("downloading file: unexpected status %s", resp.Status)
	}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}
	if len(raw) > maxImageBytes {
		return nil, fmt.Errorf("file exceeds %d bytes", maxImageBytes)
	}
	return raw, nil
}
