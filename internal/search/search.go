// Package search фильтрует, сортирует и разбивает на страницы каталог товаров.
package search

import (
	"cmp"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/mmeshcher/beautify-storefront/internal/model"
)

const (
	// PageSize - количество товаров на странице выдачи.
	PageSize = 12
	// DefaultPriceCeiling - верхняя граница цены по умолчанию.
	DefaultPriceCeiling int64 = 10000
)

// SortOption задаёт порядок выдачи.
type SortOption string

const (
	SortPopular      SortOption = "popular"
	SortPriceLow     SortOption = "price-low"
	SortPriceHigh    SortOption = "price-high"
	SortNewest       SortOption = "newest"
	SortAlphabetical SortOption = "alphabetical"
)

// Valid сообщает, известен ли порядок сортировки.
func (s SortOption) Valid() bool {
	switch s {
	case SortPopular, SortPriceLow, SortPriceHigh, SortNewest, SortAlphabetical:
		return true
	}
	return false
}

var categoryAliases = map[string][]string{
	"Skincare": {"Serums", "Moisturizers", "Cleansers", "Sunscreen", "Treatments", "Eye Care", "Essence", "Masks"},
	"Body":     {"Body Care"},
	"Sets":     {"Sets & Bundles"},
}

// ExpandCategory раскрывает обобщённую категорию в список конкретных.
// Обычная категория возвращается как есть.
func ExpandCategory(name string) []string {
	if expanded, ok := categoryAliases[name]; ok {
		return slices.Clone(expanded)
	}
	return []string{name}
}

// Filters - выбранные значения фасетов.
type Filters struct {
	Query        string     `json:"query"`
	Categories   []string   `json:"categories"`
	Brands       []string   `json:"brands"`
	SkinTypes    []string   `json:"skinTypes"`
	Concerns     []string   `json:"concerns"`
	PriceCeiling int64      `json:"priceCeiling"`
	Sort         SortOption `json:"sort"`
}

// DefaultFilters возвращает пустой набор фильтров.
func DefaultFilters() Filters {
	return Filters{
		PriceCeiling: DefaultPriceCeiling,
		Sort:         SortPopular,
	}
}

func (f Filters) clone() Filters {
	f.Categories = slices.Clone(f.Categories)
	f.Brands = slices.Clone(f.Brands)
	f.SkinTypes = slices.Clone(f.SkinTypes)
	f.Concerns = slices.Clone(f.Concerns)
	return f
}

func intersects(tags, selected []string) bool {
	for _, t := range tags {
		if slices.Contains(selected, t) {
			return true
		}
	}
	return false
}

func matchesQuery(p model.Product, lowerQuery string) bool {
	return strings.Contains(strings.ToLower(p.Name), lowerQuery) ||
		strings.Contains(strings.ToLower(p.Brand), lowerQuery) ||
		strings.Contains(strings.ToLower(p.Category), lowerQuery)
}

// Match проверяет товар по всем фасетам: внутри фасета ИЛИ, между фасетами И.
func (f Filters) Match(p model.Product) bool {
	if q := strings.ToLower(strings.TrimSpace(f.Query)); q != "" && !matchesQuery(p, q) {
		return false
	}
	if len(f.Categories) > 0 && !slices.Contains(f.Categories, p.Category) {
		return false
	}
	if len(f.Brands) > 0 && !slices.Contains(f.Brands, p.Brand) {
		return false
	}
	if len(f.SkinTypes) > 0 &&
		!intersects(p.SkinType, f.SkinTypes) && !slices.Contains(p.SkinType, model.AllSkinTypes) {
		return false
	}
	if len(f.Concerns) > 0 && !intersects(p.Concern, f.Concerns) {
		return false
	}
	return p.Price <= f.PriceCeiling
}

// Apply возвращает отфильтрованную и отсортированную копию списка.
// Исходный порядок сохраняется для равных элементов.
func Apply(products []model.Product, f Filters) []model.Product {
	res := make([]model.Product, 0, len(products))
	for _, p := range products {
		if f.Match(p) {
			res = append(res, p)
		}
	}

	switch f.Sort {
	case SortPriceLow:
		slices.SortStableFunc(res, func(a, b model.Product) int {
			return cmp.Compare(a.Price, b.Price)
		})
	case SortPriceHigh:
		slices.SortStableFunc(res, func(a, b model.Product) int {
			return cmp.Compare(b.Price, a.Price)
		})
	case SortNewest:
		slices.SortStableFunc(res, func(a, b model.Product) int {
			return cmp.Compare(b.ID, a.ID)
		})
	case SortAlphabetical:
		// Collator хранит буферы и не годится для параллельного использования.
		c := collate.New(language.English)
		slices.SortStableFunc(res, func(a, b model.Product) int {
			return c.CompareString(a.Name, b.Name)
		})
	}

	return res
}
