package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mmeshcher/beautify-storefront/internal/account"
	"github.com/mmeshcher/beautify-storefront/internal/model"
	"github.com/mmeshcher/beautify-storefront/internal/task"
)

type userResponse struct {
	model.User
	LoyaltyTier string `json:"loyaltyTier"`
}

// writeUser дожидается операции с профилем и отдаёт профиль.
func (h *Handler) writeUser(w http.ResponseWriter, r *http.Request, op string, status int, f *task.Future[model.User]) {
	u, err := f.Wait(r.Context())
	if err != nil {
		h.writeError(w, r, op, err)
		return
	}
	writeJSON(w, status, userResponse{User: u, LoyaltyTier: u.LoyaltyTier()})
}

type credentialsRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func decodeCredentials(w http.ResponseWriter, r *http.Request) (credentialsRequest, bool) {
	var req credentialsRequest
	if !decodeJSON(r, &req) || req.Email == "" || req.Password == "" {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return req, false
	}
	return req, true
}

// Register регистрирует демо-пользователя в текущей сессии.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeCredentials(w, r)
	if !ok {
		return
	}
	sid, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	h.writeUser(w, r, "register user", http.StatusOK, h.service.Signup(r.Context(), sid, req.Name, req.Email, req.Password))
}

// Login выполняет демо-вход.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeCredentials(w, r)
	if !ok {
		return
	}
	sid, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	h.writeUser(w, r, "login user", http.StatusOK, h.service.Login(r.Context(), sid, req.Email, req.Password))
}

// Logout завершает демо-сессию пользователя.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	sid, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	if err := h.service.Logout(r.Context(), sid); err != nil {
		h.writeError(w, r, "logout user", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetUser возвращает профиль или 401, если пользователь не вошёл.
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	sid, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	u, found, err := h.service.User(r.Context(), sid)
	if err != nil {
		h.writeError(w, r, "get user", err)
		return
	}
	if !found {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, userResponse{User: u, LoyaltyTier: u.LoyaltyTier()})
}

// UpdateProfile частично обновляет профиль.
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req account.ProfileUpdate
	if !decodeJSON(r, &req) {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	sid, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	h.writeUser(w, r, "update profile", http.StatusOK, h.service.UpdateProfile(r.Context(), sid, req))
}

// AddAddress добавляет адрес доставки.
func (h *Handler) AddAddress(w http.ResponseWriter, r *http.Request) {
	var req model.Address
	if !decodeJSON(r, &req) || req.Street == "" || req.City == "" {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	sid, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	h.writeUser(w, r, "add address", http.StatusCreated, h.service.AddAddress(r.Context(), sid, req))
}

// UpdateAddress частично обновляет адрес.
func (h *Handler) UpdateAddress(w http.ResponseWriter, r *http.Request) {
	var req account.AddressUpdate
	if !decodeJSON(r, &req) {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	sid, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	h.writeUser(w, r, "update address", http.StatusOK, h.service.UpdateAddress(r.Context(), sid, chi.URLParam(r, "id"), req))
}

// DeleteAddress удаляет адрес.
func (h *Handler) DeleteAddress(w http.ResponseWriter, r *http.Request) {
	sid, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	h.writeUser(w, r, "delete address", http.StatusOK, h.service.DeleteAddress(r.Context(), sid, chi.URLParam(r, "id")))
}

// AddPaymentMethod сохраняет карту или номер M-Pesa.
func (h *Handler) AddPaymentMethod(w http.ResponseWriter, r *http.Request) {
	var req account.NewPaymentMethod
	if !decodeJSON(r, &req) || req.Type == "" {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	sid, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	h.writeUser(w, r, "add payment method", http.StatusCreated, h.service.AddPaymentMethod(r.Context(), sid, req))
}

// DeletePaymentMethod удаляет способ оплаты.
func (h *Handler) DeletePaymentMethod(w http.ResponseWriter, r *http.Request) {
	sid, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	h.writeUser(w, r, "delete payment method", http.StatusOK, h.service.DeletePaymentMethod(r.Context(), sid, chi.URLParam(r, "id")))
}
