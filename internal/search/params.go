package search

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/mmeshcher/beautify-storefront/internal/model"
)

// FromValues строит фильтры из параметров ссылки.
// Неизвестные и некорректные значения игнорируются.
func FromValues(v url.Values) Filters {
	f := DefaultFilters()

	if c := v.Get("category"); c != "" {
		f.Categories = ExpandCategory(c)
	}
	if b := v.Get("brand"); b != "" {
		f.Brands = []string{b}
	}
	if q := v.Get("q"); q != "" {
		f.Query = q
	}
	if p := v.Get("price"); p != "" {
		if ceiling, err := strconv.ParseInt(p, 10, 64); err == nil && ceiling >= 0 {
			f.PriceCeiling = ceiling
		}
	}
	if s := v.Get("skinType"); s != "" {
		f.SkinTypes = []string{s}
	}
	if c := v.Get("concern"); c != "" {
		if matched, ok := matchConcern(c); ok {
			f.Concerns = []string{matched}
		}
	}
	if s := SortOption(v.Get("sort")); s.Valid() {
		f.Sort = s
	}

	return f
}

// matchConcern находит первую проблему кожи из словаря, содержащую подстроку.
func matchConcern(fragment string) (string, bool) {
	for _, c := range model.Concerns {
		if strings.Contains(c, fragment) {
			return c, true
		}
	}
	return "", false
}
