package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mmeshcher/beautify-storefront/internal/checkout"
	"github.com/mmeshcher/beautify-storefront/internal/model"
)

type checkoutRequest struct {
	Contact    checkout.Contact       `json:"contact"`
	Payment    checkout.PaymentOption `json:"payment"`
	MpesaPhone string                 `json:"mpesaPhone"`
}

type orderResponse struct {
	Number          string               `json:"number"`
	Items           []lineResponse       `json:"items"`
	ItemCount       int                  `json:"itemCount"`
	Payment         string               `json:"payment"`
	ShippingMethod  model.ShippingMethod `json:"shippingMethod"`
	Subtotal        float64              `json:"subtotal"`
	Discount        float64              `json:"discount"`
	Shipping        float64              `json:"shipping"`
	GiftCardApplied float64              `json:"giftCardApplied"`
	Total           float64              `json:"total"`
	PlacedAt        string               `json:"placedAt"`
}

// Checkout оформляет заказ из корзины текущей сессии.
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	sid, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	var req checkoutRequest
	if !decodeJSON(r, &req) {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	o, err := h.service.Checkout(r.Context(), sid, req.Contact, req.Payment, req.MpesaPhone).Wait(r.Context())
	if err != nil {
		h.writeError(w, r, "checkout", err)
		return
	}

	writeJSON(w, http.StatusCreated, orderResponse{
		Number:          o.Number,
		Items:           newLines(o.Items),
		ItemCount:       o.ItemCount(),
		Payment:         string(o.Payment),
		ShippingMethod:  o.ShippingMethod,
		Subtotal:        amount(o.Subtotal),
		Discount:        amount(o.Discount),
		Shipping:        amount(o.Shipping),
		GiftCardApplied: amount(o.GiftCardApplied),
		Total:           amount(o.Total),
		PlacedAt:        o.PlacedAt.Format(time.RFC3339),
	})
}

type trackingResponse struct {
	ID     string  `json:"id"`
	Status string  `json:"status"`
	Date   string  `json:"date"`
	Items  int     `json:"items"`
	Total  float64 `json:"total"`
}

// TrackOrder возвращает состояние доставки заказа.
func (h *Handler) TrackOrder(w http.ResponseWriter, r *http.Request) {
	tr, err := h.service.TrackOrder(r.Context(), chi.URLParam(r, "id")).Wait(r.Context())
	if err != nil {
		h.writeError(w, r, "track order", err)
		return
	}

	writeJSON(w, http.StatusOK, trackingResponse{
		ID:     tr.ID,
		Status: string(tr.Status),
		Date:   tr.Date,
		Items:  tr.Items,
		Total:  amount(tr.Total),
	})
}
