package commerce

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/quotedeskapp/quotedesk/internal/catalog"
)

// StaticCatalog reads the catalog from a local YAML file. Used in development
// and tests where no storefront is reachable.
type StaticCatalog struct {
	path string
}

func NewStaticCatalog(path string) *StaticCatalog {
	return &StaticCatalog{path: path}
}

type staticCatalogFile struct {
	Products []staticProduct `yaml:"products"`
}

type staticProduct struct {
	ID          string          `yaml:"id"`
	Title       string          `yaml:"title"`
	Description string          `yaml:"description"`
	Handle      string          `yaml:"handle"`
	Variants    []staticVariant `yaml:"variants"`
}

type staticVariant struct {
	ID        string         `yaml:"id"`
	Title     string         `yaml:"title"`
	Price     string         `yaml:"price"`
	Currency  string         `yaml:"currency"`
	Available bool           `yaml:"available"`
	Options   []staticOption `yaml:"options"`
}

type staticOption struct {
	Name  string `yaml:"name"`
	Value string `yaml:"value"`
}

func (s *StaticCatalog) FetchCatalog(ctx context.Context) ([]catalog.Product, error) {
	_ = ctx
	content, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read static catalog: %w", err)
	}
	return ParseStaticCatalog(content)
}

// ParseStaticCatalog parses YAML catalog content into products.
func ParseStaticCatalog(content []byte) ([]catalog.Product, error) {
	var file staticCatalogFile
	if err := yaml.Unmarshal(content, &file); err != nil {
		return nil, fmt.Errorf("failed to parse static catalog: %w", err)
	}

	products := make([]catalog.Product, 0, len(file.Products))
	for _, p := range file.Products {
		product := catalog.Product{
			ID:          p.ID,
			Title:       p.Title,
			Description: p.Description,
			Handle:      p.Handle,
		}
		for i, v := range p.Variants {
			priceCents, err := catalog.ParsePriceCents(v.Price)
			if err != nil {
				return nil, fmt.Errorf("product %s variant %d: %w", p.ID, i, err)
			}
			options := make([]catalog.VariantOption, 0, len(v.Options))
			for _, opt := range v.Options {
				options = append(options, catalog.VariantOption{Name: opt.Name, Value: opt.Value})
			}
			product.Variants = append(product.Variants, catalog.Variant{
				ID:         v.ID,
				Title:      v.Title,
				PriceCents: priceCents,
				Currency:   v.Currency,
				Available:  v.Available,
				Options:    options,
			})
		}
		products = append(products, product)
	}

	return products, nil
}
