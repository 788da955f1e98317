package handler

import (
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mmeshcher/beautify-storefront/internal/cart"
	"github.com/mmeshcher/beautify-storefront/internal/model"
	"github.com/mmeshcher/beautify-storefront/internal/money"
)

type lineResponse struct {
	productResponse
	Quantity  int     `json:"quantity"`
	LineTotal float64 `json:"lineTotal"`
}

type discountsResponse struct {
	Coupon   float64 `json:"coupon"`
	B2G1     float64 `json:"b2g1"`
	Referral float64 `json:"referral"`
}

type cartResponse struct {
	Items           []lineResponse       `json:"items"`
	SavedItems      []lineResponse       `json:"savedItems"`
	ItemCount       int                  `json:"itemCount"`
	Coupon          *model.Coupon        `json:"coupon,omitempty"`
	GiftCard        *model.GiftCard      `json:"giftCard,omitempty"`
	ReferralCode    string               `json:"referralCode,omitempty"`
	ShippingMethod  model.ShippingMethod `json:"shippingMethod"`
	Subtotal        float64              `json:"subtotal"`
	Discounts       discountsResponse    `json:"discounts"`
	Discount        float64              `json:"discount"`
	Shipping        float64              `json:"shipping"`
	GiftCardApplied float64              `json:"giftCardApplied"`
	Total           float64              `json:"total"`
	FormattedTotal  string               `json:"formattedTotal"`
}

func amount(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}

func newLines(lines []model.CartItem) []lineResponse {
	res := make([]lineResponse, 0, len(lines))
	for _, l := range lines {
		res = append(res, lineResponse{
			productResponse: newProductResponse(l.Product),
			Quantity:        l.Quantity,
			LineTotal:       float64(l.LineTotal()),
		})
	}
	return res
}

func newCartResponse(s cart.Summary) cartResponse {
	count := 0
	for _, l := range s.Items {
		count += l.Quantity
	}

	return cartResponse{
		Items:          newLines(s.Items),
		SavedItems:     newLines(s.SavedItems),
		ItemCount:      count,
		Coupon:         s.Coupon,
		GiftCard:       s.GiftCard,
		ReferralCode:   s.ReferralCode,
		ShippingMethod: s.ShippingMethod,
		Subtotal:       amount(s.Subtotal),
		Discounts: discountsResponse{
			Coupon:   amount(s.CouponDiscount),
			B2G1:     amount(s.B2G1Discount),
			Referral: amount(s.ReferralDiscount),
		},
		Discount:        amount(s.Discount),
		Shipping:        amount(s.Shipping),
		GiftCardApplied: amount(s.GiftCardApplied),
		Total:           amount(s.Total),
		FormattedTotal:  money.Format(s.Total),
	}
}

// cartAction выполняет операцию над корзиной сессии и возвращает обновлённую корзину.
func (h *Handler) cartAction(w http.ResponseWriter, r *http.Request, op string, fn func(sid string) (cart.Summary, error)) {
	sid, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	sum, err := fn(sid)
	if err != nil {
		h.writeError(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, newCartResponse(sum))
}

// cartItemAction выполняет операцию над строкой корзины, указанной в пути.
func (h *Handler) cartItemAction(w http.ResponseWriter, r *http.Request, fn func(sid string, productID int64) cart.Summary) {
	id, ok := productIDParam(r)
	if !ok {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	h.cartAction(w, r, "cart item", func(sid string) (cart.Summary, error) {
		return fn(sid, id), nil
	})
}

// GetCart возвращает корзину текущей сессии.
func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	h.cartAction(w, r, "get cart", func(sid string) (cart.Summary, error) {
		return h.service.Cart(sid), nil
	})
}

// ClearCart очищает корзину.
func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	h.cartAction(w, r, "clear cart", func(sid string) (cart.Summary, error) {
		return h.service.ClearCart(sid), nil
	})
}

type addItemRequest struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

// AddCartItem добавляет товар в корзину.
func (h *Handler) AddCartItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if !decodeJSON(r, &req) || req.ProductID <= 0 {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	h.cartAction(w, r, "add to cart", func(sid string) (cart.Summary, error) {
		return h.service.AddToCart(sid, req.ProductID, req.Quantity)
	})
}

type quantityRequest struct {
	Quantity *int `json:"quantity"`
}

// UpdateCartItem заменяет количество товара. Количество меньше 1 удаляет строку.
func (h *Handler) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	var req quantityRequest
	if !decodeJSON(r, &req) || req.Quantity == nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	h.cartItemAction(w, r, func(sid string, productID int64) cart.Summary {
		return h.service.UpdateQuantity(sid, productID, *req.Quantity)
	})
}

// RemoveCartItem удаляет строку корзины.
func (h *Handler) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	h.cartItemAction(w, r, h.service.RemoveFromCart)
}

// SaveForLater откладывает строку корзины.
func (h *Handler) SaveForLater(w http.ResponseWriter, r *http.Request) {
	h.cartItemAction(w, r, h.service.SaveForLater)
}

// MoveToCart возвращает отложенный товар в корзину.
func (h *Handler) MoveToCart(w http.ResponseWriter, r *http.Request) {
	h.cartItemAction(w, r, h.service.MoveToCart)
}

// RemoveSavedItem удаляет товар из отложенных.
func (h *Handler) RemoveSavedItem(w http.ResponseWriter, r *http.Request) {
	h.cartItemAction(w, r, h.service.RemoveSavedItem)
}

type codeRequest struct {
	Code string `json:"code"`
}

// codeAction применяет промокод из тела запроса.
func (h *Handler) codeAction(w http.ResponseWriter, r *http.Request, op string, apply func(sid, code string) (cart.Summary, error)) {
	var req codeRequest
	if !decodeJSON(r, &req) || strings.TrimSpace(req.Code) == "" {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	h.cartAction(w, r, op, func(sid string) (cart.Summary, error) {
		return apply(sid, strings.TrimSpace(req.Code))
	})
}

// ApplyCoupon применяет купон.
func (h *Handler) ApplyCoupon(w http.ResponseWriter, r *http.Request) {
	h.codeAction(w, r, "apply coupon", h.service.ApplyCoupon)
}

// RemoveCoupon снимает купон.
func (h *Handler) RemoveCoupon(w http.ResponseWriter, r *http.Request) {
	h.cartAction(w, r, "remove coupon", func(sid string) (cart.Summary, error) {
		return h.service.RemoveCoupon(sid), nil
	})
}

// ApplyReferralCode активирует реферальный код.
func (h *Handler) ApplyReferralCode(w http.ResponseWriter, r *http.Request) {
	h.codeAction(w, r, "apply referral code", h.service.ApplyReferralCode)
}

// ApplyGiftCard активирует подарочную карту.
func (h *Handler) ApplyGiftCard(w http.ResponseWriter, r *http.Request) {
	h.codeAction(w, r, "apply gift card", h.service.ApplyGiftCard)
}

type shippingRequest struct {
	Method string `json:"method"`
}

// SetShippingMethod выбирает способ доставки.
func (h *Handler) SetShippingMethod(w http.ResponseWriter, r *http.Request) {
	var req shippingRequest
	if !decodeJSON(r, &req) || req.Method == "" {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	h.cartAction(w, r, "set shipping method", func(sid string) (cart.Summary, error) {
		return h.service.SetShippingMethod(sid, req.Method)
	})
}

// GetWishlist возвращает избранное.
func (h *Handler) GetWishlist(w http.ResponseWriter, r *http.Request) {
	sid, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, newProductList(h.service.Wishlist(sid)))
}

type wishlistToggleResponse struct {
	ProductID  int64 `json:"productId"`
	InWishlist bool  `json:"inWishlist"`
}

// ToggleWishlist добавляет товар в избранное или убирает его.
func (h *Handler) ToggleWishlist(w http.ResponseWriter, r *http.Request) {
	id, ok := productIDParam(r)
	if !ok {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	sid, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	in, err := h.service.ToggleWishlist(sid, id)
	if err != nil {
		h.writeError(w, r, "toggle wishlist", err)
		return
	}
	writeJSON(w, http.StatusOK, wishlistToggleResponse{ProductID: id, InWishlist: in})
}
