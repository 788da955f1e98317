package handler

import (
	"net/http"
	"strconv"

	"github.com/mmeshcher/beautify-storefront/internal/model"
	"github.com/mmeshcher/beautify-storefront/internal/search"
	"github.com/mmeshcher/beautify-storefront/internal/service"
)

type productResponse struct {
	model.Product
	SalePercent int `json:"salePercent,omitempty"`
}

func newProductResponse(p model.Product) productResponse {
	return productResponse{Product: p, SalePercent: p.SalePercent()}
}

func newProductList(products []model.Product) []productResponse {
	res := make([]productResponse, 0, len(products))
	for _, p := range products {
		res = append(res, newProductResponse(p))
	}
	return res
}

type pageResponse struct {
	Items      []productResponse `json:"items"`
	Page       int               `json:"page"`
	TotalPages int               `json:"totalPages"`
	TotalItems int               `json:"totalItems"`
	PageSize   int               `json:"pageSize"`
}

func newPageResponse(res search.Result) pageResponse {
	return pageResponse{
		Items:      newProductList(res.Items),
		Page:       res.Page,
		TotalPages: res.TotalPages,
		TotalItems: res.TotalItems,
		PageSize:   res.PageSize,
	}
}

// ListProducts возвращает страницу каталога по фильтрам из строки запроса.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	page := 1
	if raw := q.Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}
		page = n
	}

	writeJSON(w, http.StatusOK, newPageResponse(h.service.Browse(q, page)))
}

// GetProduct возвращает карточку товара.
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := productIDParam(r)
	if !ok {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	p, err := h.service.Product(id)
	if err != nil {
		h.writeError(w, r, "get product", err)
		return
	}
	writeJSON(w, http.StatusOK, newProductResponse(p))
}

type bundleResponse struct {
	productResponse
	Items []productResponse `json:"items"`
}

// GetBundles возвращает наборы вместе с их составом.
func (h *Handler) GetBundles(w http.ResponseWriter, r *http.Request) {
	bundles := h.service.Bundles()

	resp := make([]bundleResponse, 0, len(bundles))
	for _, b := range bundles {
		resp = append(resp, bundleResponse{
			productResponse: newProductResponse(b.Product),
			Items:           newProductList(b.Items),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetFacets возвращает словари фильтров.
func (h *Handler) GetFacets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.Facets())
}

type browseResponse struct {
	Filters search.Filters `json:"filters"`
	pageResponse
}

func (h *Handler) writeBrowse(w http.ResponseWriter, st service.BrowseState) {
	writeJSON(w, http.StatusOK, browseResponse{Filters: st.Filters, pageResponse: newPageResponse(st.Result)})
}

// GetBrowse возвращает сохранённые фильтры посетителя и текущую страницу.
func (h *Handler) GetBrowse(w http.ResponseWriter, r *http.Request) {
	sid, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	h.writeBrowse(w, h.service.BrowseState(sid))
}

// ImportBrowse заменяет фильтры посетителя параметрами ссылки.
func (h *Handler) ImportBrowse(w http.ResponseWriter, r *http.Request) {
	sid, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	h.writeBrowse(w, h.service.ImportBrowse(sid, r.URL.Query()))
}

type browseRequest struct {
	ClearAll     bool    `json:"clearAll"`
	Category     string  `json:"category"`
	Brand        string  `json:"brand"`
	SkinType     string  `json:"skinType"`
	Concern      string  `json:"concern"`
	Query        *string `json:"query"`
	PriceCeiling *int64  `json:"priceCeiling"`
	Sort         *string `json:"sort"`
	Page         *int    `json:"page"`
}

// UpdateBrowse переключает фасеты и меняет запрос, цену, сортировку или страницу.
func (h *Handler) UpdateBrowse(w http.ResponseWriter, r *http.Request) {
	sid, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	var req browseRequest
	if !decodeJSON(r, &req) {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	st, err := h.service.UpdateBrowse(sid, service.BrowseUpdate(req))
	if err != nil {
		h.writeError(w, r, "update browse", err)
		return
	}
	h.writeBrowse(w, st)
}

// ClearBrowse сбрасывает фильтры посетителя, сохраняя сортировку.
func (h *Handler) ClearBrowse(w http.ResponseWriter, r *http.Request) {
	sid, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	st, err := h.service.UpdateBrowse(sid, service.BrowseUpdate{ClearAll: true})
	if err != nil {
		h.writeError(w, r, "clear browse", err)
		return
	}
	h.writeBrowse(w, st)
}
