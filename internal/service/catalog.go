package service

import (
	"net/url"

	"github.com/mmeshcher/beautify-storefront/internal/model"
	"github.com/mmeshcher/beautify-storefront/internal/search"
)

// Bundle - набор вместе с входящими в него товарами.
type Bundle struct {
	model.Product
	Items []model.Product `json:"items"`
}

// Facets - словари фильтров витрины.
type Facets struct {
	Categories   []string            `json:"categories"`
	Brands       []string            `json:"brands"`
	SkinTypes    []string            `json:"skinTypes"`
	Concerns     []string            `json:"concerns"`
	Sorts        []search.SortOption `json:"sorts"`
	PriceCeiling int64               `json:"priceCeiling"`
	PageSize     int                 `json:"pageSize"`
}

// Browse возвращает страницу выдачи по фильтрам из параметров запроса.
func (s *Service) Browse(values url.Values, page int) search.Result {
	b := search.NewBrowser(s.catalog.All(), search.FromValues(values))
	b.SetPage(page)
	return b.Page()
}

// Product возвращает товар по идентификатору.
func (s *Service) Product(id int64) (model.Product, error) {
	return s.catalog.ByID(id)
}

// Bundles возвращает наборы каталога.
func (s *Service) Bundles() []Bundle {
	bundles := s.catalog.Bundles()
	res := make([]Bundle, 0, len(bundles))
	for _, b := range bundles {
		res = append(res, Bundle{Product: b, Items: s.catalog.BundleItems(b)})
	}
	return res
}

// Facets возвращает значения, доступные для фильтрации.
func (s *Service) Facets() Facets {
	return Facets{
		Categories: model.Categories,
		Brands:     s.catalog.Brands(),
		SkinTypes:  model.SkinTypes,
		Concerns:   model.Concerns,
		Sorts: []search.SortOption{
			search.SortPopular,
			search.SortPriceLow,
			search.SortPriceHigh,
			search.SortNewest,
			search.SortAlphabetical,
		},
		PriceCeiling: search.DefaultPriceCeiling,
		PageSize:     search.PageSize,
	}
}
