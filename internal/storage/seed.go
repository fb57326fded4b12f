package storage

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"clubperks/internal/domain"
)

// CatalogFile is the on-disk seed format for offers and brands.
type CatalogFile struct {
	Brands []domain.Brand `yaml:"brands"`
	Offers []domain.Offer `yaml:"offers"`
}

// LoadCatalogFile reads and validates a YAML catalog.
func LoadCatalogFile(path string) (CatalogFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return CatalogFile{}, fmt.Errorf("reading catalog file: %w", err)
	}
	var cf CatalogFile
	if err := yaml.Unmarshal(raw, &cf); err != nil {
		return CatalogFile{}, fmt.Errorf("parsing catalog file %s: %w", path, err)
	}
	for i := range cf.Brands {
		if cf.Brands[i].Slug == "" {
			cf.Brands[i].Slug = domain.SlugFor(cf.Brands[i].Name)
		}
		if err := cf.Brands[i].Validate(); err != nil {
			return CatalogFile{}, fmt.Errorf("brand %d: %w", i, err)
		}
	}
	for i, o := range cf.Offers {
		if err := o.Validate(); err != nil {
			return CatalogFile{}, fmt.Errorf("offer %d: %w", i, err)
		}
	}
	return cf, nil
}

// ImportCatalog loads path and replaces the stored catalog with it.
// Brands are upserted; existing brand colors are kept when the file has none.
func ImportCatalog(ctx context.Context, repo Repository, path string) (CatalogFile, error) {
	cf, err := LoadCatalogFile(path)
	if err != nil {
		return CatalogFile{}, err
	}
	for _, b := range cf.Brands {
		if b.Primary == "" {
			if existing, err := repo.GetBrand(ctx, b.Slug); err == nil {
				b.Primary = existing.Primary
			}
		}
		if err := repo.SaveBrand(ctx, b); err != nil {
			return CatalogFile{}, err
		}
	}
	if err := repo.ReplaceOffers(ctx, cf.Offers); err != nil {
		return CatalogFile{}, err
	}
	return cf, nil
}
