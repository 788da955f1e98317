package search

import (
	"slices"

	"github.com/mmeshcher/beautify-storefront/internal/model"
)

// Result - одна страница выдачи.
type Result struct {
	Items      []model.Product `json:"items"`
	Page       int             `json:"page"`
	TotalPages int             `json:"totalPages"`
	TotalItems int             `json:"totalItems"`
	PageSize   int             `json:"pageSize"`
}

// Browser хранит состояние фильтров и текущую страницу для одного посетителя.
// Любое изменение фильтров или сортировки возвращает на первую страницу.
type Browser struct {
	products []model.Product
	filters  Filters
	page     int
}

// NewBrowser создаёт выдачу по каталогу с начальными фильтрами.
func NewBrowser(products []model.Product, initial Filters) *Browser {
	return &Browser{
		products: products,
		filters:  initial.clone(),
		page:     1,
	}
}

func toggle(values []string, v string) []string {
	if i := slices.Index(values, v); i >= 0 {
		return slices.Delete(slices.Clone(values), i, i+1)
	}
	return append(slices.Clone(values), v)
}

// Filters возвращает копию текущих фильтров.
func (b *Browser) Filters() Filters {
	return b.filters.clone()
}

// ToggleCategory включает или выключает категорию.
func (b *Browser) ToggleCategory(category string) {
	b.filters.Categories = toggle(b.filters.Categories, category)
	b.page = 1
}

// ToggleCategoryGroup переключает категорию или группу категорий (Skincare, Body, Sets).
// Группа включается целиком, если выбрана не полностью, и выключается целиком иначе.
func (b *Browser) ToggleCategoryGroup(name string) {
	group := ExpandCategory(name)

	all := true
	for _, c := range group {
		if !slices.Contains(b.filters.Categories, c) {
			all = false
			break
		}
	}

	selected := slices.Clone(b.filters.Categories)
	for _, c := range group {
		if all == slices.Contains(selected, c) {
			b.ToggleCategory(c)
		}
	}
}

// ToggleBrand включает или выключает бренд.
func (b *Browser) ToggleBrand(brand string) {
	b.filters.Brands = toggle(b.filters.Brands, brand)
	b.page = 1
}

// ToggleSkinType включает или выключает тип кожи.
func (b *Browser) ToggleSkinType(skinType string) {
	b.filters.SkinTypes = toggle(b.filters.SkinTypes, skinType)
	b.page = 1
}

// ToggleConcern включает или выключает проблему кожи.
func (b *Browser) ToggleConcern(concern string) {
	b.filters.Concerns = toggle(b.filters.Concerns, concern)
	b.page = 1
}

// SetQuery задаёт строку поиска и сбрасывает страницу.
func (b *Browser) SetQuery(q string) {
	b.filters.Query = q
	b.page = 1
}

// SetPriceCeiling задаёт верхнюю границу цены и сбрасывает страницу.
func (b *Browser) SetPriceCeiling(ceiling int64) {
	b.filters.PriceCeiling = ceiling
	b.page = 1
}

// SetSort меняет сортировку и сбрасывает страницу.
func (b *Browser) SetSort(s SortOption) {
	b.filters.Sort = s
	b.page = 1
}

// ClearAll сбрасывает все фасеты, запрос и цену. Сортировка сохраняется.
func (b *Browser) ClearAll() {
	sort := b.filters.Sort
	b.filters = DefaultFilters()
	b.filters.Sort = sort
	b.page = 1
}

// SetPage переходит на страницу n, ограничивая её допустимым диапазоном.
func (b *Browser) SetPage(n int) {
	b.page = clampPage(n, totalPages(len(Apply(b.products, b.filters))))
}

// Page пересчитывает выдачу и возвращает текущую страницу.
func (b *Browser) Page() Result {
	matched := Apply(b.products, b.filters)
	pages := totalPages(len(matched))
	page := clampPage(b.page, pages)

	start := min((page-1)*PageSize, len(matched))
	end := min(start+PageSize, len(matched))

	return Result{
		Items:      matched[start:end],
		Page:       page,
		TotalPages: pages,
		TotalItems: len(matched),
		PageSize:   PageSize,
	}
}

func totalPages(n int) int {
	return (n + PageSize - 1) / PageSize
}

func clampPage(n, pages int) int {
	if n > pages {
		n = pages
	}
	if n < 1 {
		n = 1
	}
	return n
}
