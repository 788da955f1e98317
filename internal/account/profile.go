package account

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/mmeshcher/beautify-storefront/internal/model"
	"github.com/mmeshcher/beautify-storefront/internal/task"
	"github.com/mmeshcher/beautify-storefront/internal/validation"
)

// ProfileUpdate - частичное обновление профиля. nil-поля не меняются.
type ProfileUpdate struct {
	Name   *string `json:"name"`
	Email  *string `json:"email"`
	Phone  *string `json:"phone"`
	Avatar *string `json:"avatar"`
}

// AddressUpdate - частичное обновление адреса.
type AddressUpdate struct {
	Type      *model.AddressType `json:"type"`
	Street    *string            `json:"street"`
	City      *string            `json:"city"`
	State     *string            `json:"state"`
	Zip       *string            `json:"zip"`
	Country   *string            `json:"country"`
	IsDefault *bool              `json:"isDefault"`
}

// NewPaymentMethod описывает добавляемый способ оплаты. Номер карты
// используется только для проверки и получения последних цифр.
type NewPaymentMethod struct {
	Type       model.PaymentType `json:"type"`
	CardNumber string            `json:"cardNumber"`
	ExpiryDate string            `json:"expiryDate"`
	Phone      string            `json:"phone"`
	IsDefault  bool              `json:"isDefault"`
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

// UpdateProfile обновляет контактные данные пользователя.
func (m *Manager) UpdateProfile(ctx context.Context, sessionID string, upd ProfileUpdate) *task.Future[model.User] {
	return m.update(ctx, sessionID, func(u *model.User) error {
		set(&u.Name, upd.Name)
		set(&u.Email, upd.Email)
		set(&u.Phone, upd.Phone)
		set(&u.Avatar, upd.Avatar)
		return nil
	})
}

func clearDefaultAddresses(addrs []model.Address, except string) {
	for i := range addrs {
		if addrs[i].ID != except {
			addrs[i].IsDefault = false
		}
	}
}

// AddAddress добавляет адрес. Новый адрес по умолчанию снимает этот признак с остальных.
func (m *Manager) AddAddress(ctx context.Context, sessionID string, addr model.Address) *task.Future[model.User] {
	return m.update(ctx, sessionID, func(u *model.User) error {
		addr.ID = "addr-" + m.newID()
		u.Addresses = append(u.Addresses, addr)
		if addr.IsDefault {
			clearDefaultAddresses(u.Addresses, addr.ID)
		}
		return nil
	})
}

// UpdateAddress изменяет поля адреса с указанным идентификатором.
func (m *Manager) UpdateAddress(ctx context.Context, sessionID, id string, upd AddressUpdate) *task.Future[model.User] {
	return m.update(ctx, sessionID, func(u *model.User) error {
		idx := slices.IndexFunc(u.Addresses, func(a model.Address) bool { return a.ID == id })
		if idx < 0 {
			return ErrAddressNotFound
		}

		a := &u.Addresses[idx]
		set(&a.Type, upd.Type)
		set(&a.Street, upd.Street)
		set(&a.City, upd.City)
		set(&a.State, upd.State)
		set(&a.Zip, upd.Zip)
		set(&a.Country, upd.Country)
		set(&a.IsDefault, upd.IsDefault)

		if a.IsDefault {
			clearDefaultAddresses(u.Addresses, id)
		}
		return nil
	})
}

// DeleteAddress удаляет адрес. Неизвестный идентификатор игнорируется.
func (m *Manager) DeleteAddress(ctx context.Context, sessionID, id string) *task.Future[model.User] {
	return m.update(ctx, sessionID, func(u *model.User) error {
		u.Addresses = slices.DeleteFunc(u.Addresses, func(a model.Address) bool { return a.ID == id })
		return nil
	})
}

func validExpiry(exp string) bool {
	_, err := time.Parse("01/06", strings.TrimSpace(exp))
	return err == nil
}

func buildPaymentMethod(in NewPaymentMethod) (model.PaymentMethod, error) {
	pm := model.PaymentMethod{Type: in.Type, IsDefault: in.IsDefault}

	switch in.Type {
	case model.PaymentVisa, model.PaymentMastercard:
		if !validation.IsValidCardNumber(in.CardNumber) {
			return model.PaymentMethod{}, ErrInvalidCard
		}
		if !validExpiry(in.ExpiryDate) {
			return model.PaymentMethod{}, ErrInvalidExpiry
		}
		pm.Last4 = validation.CardLast4(in.CardNumber)
		pm.CardNumber = "**** **** **** " + pm.Last4
		pm.ExpiryDate = strings.TrimSpace(in.ExpiryDate)
	case model.PaymentMpesa:
		if !validation.IsValidMpesaPhone(in.Phone) {
			return model.PaymentMethod{}, ErrInvalidPhone
		}
		pm.Phone = strings.TrimSpace(in.Phone)
	default:
		return model.PaymentMethod{}, ErrUnsupportedPaymentType
	}

	return pm, nil
}

// AddPaymentMethod проверяет и сохраняет способ оплаты. Полный номер карты не сохраняется.
func (m *Manager) AddPaymentMethod(ctx context.Context, sessionID string, in NewPaymentMethod) *task.Future[model.User] {
	pm, err := buildPaymentMethod(in)
	if err != nil {
		return task.Resolved(model.User{}, err)
	}

	return m.update(ctx, sessionID, func(u *model.User) error {
		pm.ID = "pay-" + m.newID()
		u.PaymentMethods = append(u.PaymentMethods, pm)
		if pm.IsDefault {
			for i := range u.PaymentMethods {
				if u.PaymentMethods[i].ID != pm.ID {
					u.PaymentMethods[i].IsDefault = false
				}
			}
		}
		return nil
	})
}

// DeletePaymentMethod удаляет способ оплаты. Неизвестный идентификатор игнорируется.
func (m *Manager) DeletePaymentMethod(ctx context.Context, sessionID, id string) *task.Future[model.User] {
	return m.update(ctx, sessionID, func(u *model.User) error {
		u.PaymentMethods = slices.DeleteFunc(u.PaymentMethods, func(p model.PaymentMethod) bool { return p.ID == id })
		return nil
	})
}
