package service

import (
	"fmt"
	"net/url"

	"github.com/mmeshcher/beautify-storefront/internal/search"
)

// BrowseState - фильтры посетителя и текущая страница выдачи.
type BrowseState struct {
	Filters search.Filters
	Result  search.Result
}

// BrowseUpdate описывает изменение выдачи. Пустые поля не меняются.
// ClearAll применяется первым, Page последней.
type BrowseUpdate struct {
	ClearAll     bool
	Category     string
	Brand        string
	SkinType     string
	Concern      string
	Query        *string
	PriceCeiling *int64
	Sort         *string
	Page         *int
}

func browseState(b *search.Browser) BrowseState {
	return BrowseState{Filters: b.Filters(), Result: b.Page()}
}

// BrowseState возвращает сохранённую выдачу сессии.
func (s *Service) BrowseState(sessionID string) BrowseState {
	st, _ := withSession(s, sessionID, func(sess *session) (BrowseState, error) {
		return browseState(sess.browser), nil
	})
	return st
}

// ImportBrowse заменяет выдачу сессии фильтрами из ссылки.
func (s *Service) ImportBrowse(sessionID string, values url.Values) BrowseState {
	st, _ := withSession(s, sessionID, func(sess *session) (BrowseState, error) {
		sess.browser = search.NewBrowser(s.catalog.All(), search.FromValues(values))
		return browseState(sess.browser), nil
	})
	return st
}

// UpdateBrowse применяет изменение к выдаче сессии. Любое изменение фильтров
// возвращает на первую страницу, если номер страницы не задан явно.
func (s *Service) UpdateBrowse(sessionID string, upd BrowseUpdate) (BrowseState, error) {
	if upd.PriceCeiling != nil && *upd.PriceCeiling < 0 {
		return BrowseState{}, fmt.Errorf("%w: price %d", ErrInvalidFilter, *upd.PriceCeiling)
	}
	var sort search.SortOption
	if upd.Sort != nil {
		sort = search.SortOption(*upd.Sort)
		if !sort.Valid() {
			return BrowseState{}, fmt.Errorf("%w: sort %q", ErrInvalidFilter, *upd.Sort)
		}
	}

	return withSession(s, sessionID, func(sess *session) (BrowseState, error) {
		b := sess.browser
		if upd.ClearAll {
			b.ClearAll()
		}
		if upd.Category != "" {
			b.ToggleCategoryGroup(upd.Category)
		}
		if upd.Brand != "" {
			b.ToggleBrand(upd.Brand)
		}
		if upd.SkinType != "" {
			b.ToggleSkinType(upd.SkinType)
		}
		if upd.Concern != "" {
			b.ToggleConcern(upd.Concern)
		}
		if upd.Query != nil {
			b.SetQuery(*upd.Query)
		}
		if upd.PriceCeiling != nil {
			b.SetPriceCeiling(*upd.PriceCeiling)
		}
		if upd.Sort != nil {
			b.SetSort(sort)
		}
		if upd.Page != nil {
			b.SetPage(*upd.Page)
		}
		return browseState(b), nil
	})
}
