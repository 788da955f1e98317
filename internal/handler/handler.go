// Package handler содержит HTTP-обработчики API витрины.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/mmeshcher/beautify-storefront/internal/account"
	"github.com/mmeshcher/beautify-storefront/internal/cart"
	"github.com/mmeshcher/beautify-storefront/internal/catalog"
	"github.com/mmeshcher/beautify-storefront/internal/checkout"
	"github.com/mmeshcher/beautify-storefront/internal/middleware"
	"github.com/mmeshcher/beautify-storefront/internal/model"
	"github.com/mmeshcher/beautify-storefront/internal/notify"
	"github.com/mmeshcher/beautify-storefront/internal/search"
	"github.com/mmeshcher/beautify-storefront/internal/service"
	"github.com/mmeshcher/beautify-storefront/internal/task"
)

// Service определяет операции витрины, используемые HTTP-обработчиками.
type Service interface {
	Browse(values url.Values, page int) search.Result
	BrowseState(sessionID string) service.BrowseState
	ImportBrowse(sessionID string, values url.Values) service.BrowseState
	UpdateBrowse(sessionID string, upd service.BrowseUpdate) (service.BrowseState, error)
	Product(id int64) (model.Product, error)
	Bundles() []service.Bundle
	Facets() service.Facets

	Cart(sessionID string) cart.Summary
	AddToCart(sessionID string, productID int64, quantity int) (cart.Summary, error)
	UpdateQuantity(sessionID string, productID int64, quantity int) cart.Summary
	RemoveFromCart(sessionID string, productID int64) cart.Summary
	SaveForLater(sessionID string, productID int64) cart.Summary
	MoveToCart(sessionID string, productID int64) cart.Summary
	RemoveSavedItem(sessionID string, productID int64) cart.Summary
	ApplyCoupon(sessionID, code string) (cart.Summary, error)
	RemoveCoupon(sessionID string) cart.Summary
	ApplyReferralCode(sessionID, code string) (cart.Summary, error)
	ApplyGiftCard(sessionID, code string) (cart.Summary, error)
	SetShippingMethod(sessionID, methodID string) (cart.Summary, error)
	ClearCart(sessionID string) cart.Summary

	Wishlist(sessionID string) []model.Product
	ToggleWishlist(sessionID string, productID int64) (bool, error)

	Notification(sessionID string) (notify.Notification, bool)
	DismissNotification(sessionID string)

	Checkout(ctx context.Context, sessionID string, contact checkout.Contact, payment checkout.PaymentOption, mpesaPhone string) *task.Future[checkout.Order]
	TrackOrder(ctx context.Context, id string) *task.Future[checkout.Tracking]

	User(ctx context.Context, sessionID string) (model.User, bool, error)
	Login(ctx context.Context, sessionID, email, password string) *task.Future[model.User]
	Signup(ctx context.Context, sessionID, name, email, password string) *task.Future[model.User]
	Logout(ctx context.Context, sessionID string) error
	UpdateProfile(ctx context.Context, sessionID string, upd account.ProfileUpdate) *task.Future[model.User]
	AddAddress(ctx context.Context, sessionID string, addr model.Address) *task.Future[model.User]
	UpdateAddress(ctx context.Context, sessionID, id string, upd account.AddressUpdate) *task.Future[model.User]
	DeleteAddress(ctx context.Context, sessionID, id string) *task.Future[model.User]
	AddPaymentMethod(ctx context.Context, sessionID string, in account.NewPaymentMethod) *task.Future[model.User]
	DeletePaymentMethod(ctx context.Context, sessionID, id string) *task.Future[model.User]
}

// Handler реализует HTTP-обработчики API витрины.
type Handler struct {
	service  Service
	logger   *zap.Logger
	sessions *middleware.SessionMiddleware
}

// NewHandler создаёт новый экземпляр обработчика HTTP-запросов.
func NewHandler(s Service, logger *zap.Logger, sessions *middleware.SessionMiddleware) *Handler {
	return &Handler{
		service:  s,
		logger:   logger,
		sessions: sessions,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decodeJSON(r *http.Request, v any) bool {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v) == nil
}

func productIDParam(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}

// sessionID возвращает идентификатор сессии, выставленный middleware.
func (h *Handler) sessionID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, ok := middleware.GetSessionIDFromContext(r.Context())
	if !ok {
		h.logger.Error("session middleware is not installed", zap.String("uri", r.RequestURI))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
	return id, ok
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeError переводит ошибку операции в HTTP-статус.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	var status int
	switch {
	case errors.Is(err, context.Canceled):
		// клиент ушёл, отвечать некому
		return
	case errors.Is(err, catalog.ErrProductNotFound),
		errors.Is(err, account.ErrAddressNotFound):
		status = http.StatusNotFound
	case errors.Is(err, account.ErrNotLoggedIn),
		errors.Is(err, account.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	case errors.Is(err, checkout.ErrEmptyOrderID):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrCodeRejected),
		errors.Is(err, service.ErrInvalidFilter),
		errors.Is(err, service.ErrUnknownShippingMethod),
		errors.Is(err, checkout.ErrEmptyCart),
		errors.Is(err, checkout.ErrUnknownPayment),
		errors.Is(err, checkout.ErrIncompleteContact),
		errors.Is(err, checkout.ErrInvalidPhone),
		errors.Is(err, account.ErrInvalidCard),
		errors.Is(err, account.ErrInvalidExpiry),
		errors.Is(err, account.ErrInvalidPhone),
		errors.Is(err, account.ErrUnsupportedPaymentType):
		status = http.StatusUnprocessableEntity
	default:
		h.logger.Error(op+" error", zap.Error(err), zap.String("uri", r.RequestURI))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	writeJSON(w, status, errorResponse{Error: err.Error()})
}

// ShippingMethods возвращает доступные способы доставки.
func (h *Handler) ShippingMethods(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, model.ShippingMethods)
}

type notificationResponse struct {
	Message string       `json:"message"`
	Type    notify.Level `json:"type"`
}

// GetNotification возвращает текущее уведомление сессии или 204, если его нет.
func (h *Handler) GetNotification(w http.ResponseWriter, r *http.Request) {
	sid, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	n, ok := h.service.Notification(sid)
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, notificationResponse{Message: n.Message, Type: n.Level})
}

// DismissNotification скрывает текущее уведомление.
func (h *Handler) DismissNotification(w http.ResponseWriter, r *http.Request) {
	sid, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	h.service.DismissNotification(sid)
	w.WriteHeader(http.StatusNoContent)
}
