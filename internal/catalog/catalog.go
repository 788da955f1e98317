// Package catalog загружает и хранит неизменяемый каталог товаров.
package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/mmeshcher/beautify-storefront/internal/model"
)

//go:embed products.yaml
var defaultProducts []byte

// ErrProductNotFound возвращается, если товара с указанным идентификатором нет в каталоге.
var ErrProductNotFound = errors.New("product not found")

// Catalog - упорядоченная коллекция товаров, доступная только для чтения.
type Catalog struct {
	products []model.Product
	byID     map[int64]int
}

type catalogFile struct {
	Products []model.Product `yaml:"products"`
}

// Default загружает встроенный каталог.
func Default() (*Catalog, error) {
	return Load(bytes.NewReader(defaultProducts))
}

// LoadFile загружает каталог из YAML-файла.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()

	return Load(f)
}

// Load разбирает YAML-каталог и проверяет его целостность.
func Load(r io.Reader) (*Catalog, error) {
	var file catalogFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return New(file.Products)
}

// New строит каталог из готового списка товаров.
func New(products []model.Product) (*Catalog, error) {
	c := &Catalog{
		products: make([]model.Product, 0, len(products)),
		byID:     make(map[int64]int, len(products)),
	}

	for _, p := range products {
		if err := validate(p); err != nil {
			return nil, err
		}
		if _, ok := c.byID[p.ID]; ok {
			return nil, fmt.Errorf("product %d: duplicate id", p.ID)
		}
		c.byID[p.ID] = len(c.products)
		c.products = append(c.products, p)
	}

	return c, nil
}

func validate(p model.Product) error {
	if p.ID <= 0 {
		return fmt.Errorf("product %q: id must be positive", p.Name)
	}
	if p.Price <= 0 {
		return fmt.Errorf("product %d: price must be positive", p.ID)
	}
	if p.OriginalPrice != nil && *p.OriginalPrice <= p.Price {
		return fmt.Errorf("product %d: original price must exceed price", p.ID)
	}
	if p.StockStatus == "" {
		return fmt.Errorf("product %d: stock status is required", p.ID)
	}
	if !p.StockStatus.Valid() {
		return fmt.Errorf("product %d: unknown stock status %q", p.ID, p.StockStatus)
	}
	return nil
}

// All возвращает копию всех товаров в порядке загрузки.
func (c *Catalog) All() []model.Product {
	res := make([]model.Product, len(c.products))
	copy(res, c.products)
	return res
}

// Len возвращает количество товаров.
func (c *Catalog) Len() int {
	return len(c.products)
}

// ByID ищет товар по идентификатору.
func (c *Catalog) ByID(id int64) (model.Product, error) {
	idx, ok := c.byID[id]
	if !ok {
		return model.Product{}, fmt.Errorf("%w: %d", ErrProductNotFound, id)
	}
	return c.products[idx], nil
}

// Brands возвращает отсортированный список уникальных брендов.
func (c *Catalog) Brands() []string {
	seen := make(map[string]struct{})
	var res []string
	for _, p := range c.products {
		if _, ok := seen[p.Brand]; ok {
			continue
		}
		seen[p.Brand] = struct{}{}
		res = append(res, p.Brand)
	}
	sort.Strings(res)
	return res
}

// Bundles возвращает наборы в порядке каталога.
func (c *Catalog) Bundles() []model.Product {
	var res []model.Product
	for _, p := range c.products {
		if p.IsBundle {
			res = append(res, p)
		}
	}
	return res
}

// BundleItems возвращает товары, входящие в набор. Отсутствующие в каталоге идентификаторы пропускаются.
func (c *Catalog) BundleItems(bundle model.Product) []model.Product {
	res := make([]model.Product, 0, len(bundle.BundleItems))
	for _, id := range bundle.BundleItems {
		if idx, ok := c.byID[id]; ok {
			res = append(res, c.products[idx])
		}
	}
	return res
}
