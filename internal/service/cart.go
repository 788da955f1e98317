package service

import (
	"fmt"

	"github.com/mmeshcher/beautify-storefront/internal/cart"
	"github.com/mmeshcher/beautify-storefront/internal/model"
)

func summary(sess *session) (cart.Summary, error) {
	return sess.cart.Summary(), nil
}

// Cart возвращает корзину сессии с рассчитанными суммами.
func (s *Service) Cart(sessionID string) cart.Summary {
	sum, _ := withSession(s, sessionID, summary)
	return sum
}

// AddToCart добавляет товар каталога в корзину.
func (s *Service) AddToCart(sessionID string, productID int64, quantity int) (cart.Summary, error) {
	p, err := s.catalog.ByID(productID)
	if err != nil {
		return cart.Summary{}, err
	}
	return withSession(s, sessionID, func(sess *session) (cart.Summary, error) {
		sess.cart.AddToCart(p, quantity)
		return summary(sess)
	})
}

// UpdateQuantity заменяет количество товара в корзине.
func (s *Service) UpdateQuantity(sessionID string, productID int64, quantity int) cart.Summary {
	sum, _ := withSession(s, sessionID, func(sess *session) (cart.Summary, error) {
		sess.cart.UpdateQuantity(productID, quantity)
		return summary(sess)
	})
	return sum
}

// RemoveFromCart удаляет товар из корзины.
func (s *Service) RemoveFromCart(sessionID string, productID int64) cart.Summary {
	sum, _ := withSession(s, sessionID, func(sess *session) (cart.Summary, error) {
		sess.cart.RemoveFromCart(productID)
		return summary(sess)
	})
	return sum
}

// SaveForLater откладывает товар.
func (s *Service) SaveForLater(sessionID string, productID int64) cart.Summary {
	sum, _ := withSession(s, sessionID, func(sess *session) (cart.Summary, error) {
		sess.cart.SaveForLater(productID)
		return summary(sess)
	})
	return sum
}

// MoveToCart возвращает отложенный товар в корзину.
func (s *Service) MoveToCart(sessionID string, productID int64) cart.Summary {
	sum, _ := withSession(s, sessionID, func(sess *session) (cart.Summary, error) {
		sess.cart.MoveToCart(productID)
		return summary(sess)
	})
	return sum
}

// RemoveSavedItem удаляет товар из отложенных.
func (s *Service) RemoveSavedItem(sessionID string, productID int64) cart.Summary {
	sum, _ := withSession(s, sessionID, func(sess *session) (cart.Summary, error) {
		sess.cart.RemoveSavedItem(productID)
		return summary(sess)
	})
	return sum
}

// ApplyCoupon применяет купон. Неизвестный код возвращает ErrCodeRejected.
func (s *Service) ApplyCoupon(sessionID, code string) (cart.Summary, error) {
	return withSession(s, sessionID, func(sess *session) (cart.Summary, error) {
		if !sess.cart.ApplyCoupon(code) {
			return sess.cart.Summary(), fmt.Errorf("%w: coupon %q", ErrCodeRejected, code)
		}
		return summary(sess)
	})
}

// RemoveCoupon снимает купон.
func (s *Service) RemoveCoupon(sessionID string) cart.Summary {
	sum, _ := withSession(s, sessionID, func(sess *session) (cart.Summary, error) {
		sess.cart.RemoveCoupon()
		return summary(sess)
	})
	return sum
}

// ApplyReferralCode активирует реферальный код.
func (s *Service) ApplyReferralCode(sessionID, code string) (cart.Summary, error) {
	return withSession(s, sessionID, func(sess *session) (cart.Summary, error) {
		if !sess.cart.ApplyReferralCode(code) {
			return sess.cart.Summary(), fmt.Errorf("%w: referral code %q", ErrCodeRejected, code)
		}
		return summary(sess)
	})
}

// ApplyGiftCard активирует подарочную карту.
func (s *Service) ApplyGiftCard(sessionID, code string) (cart.Summary, error) {
	return withSession(s, sessionID, func(sess *session) (cart.Summary, error) {
		if !sess.cart.ApplyGiftCard(code) {
			return sess.cart.Summary(), fmt.Errorf("%w: gift card %q", ErrCodeRejected, code)
		}
		return summary(sess)
	})
}

// SetShippingMethod выбирает способ доставки по идентификатору.
func (s *Service) SetShippingMethod(sessionID, methodID string) (cart.Summary, error) {
	m, ok := model.ShippingMethodByID(methodID)
	if !ok {
		return cart.Summary{}, fmt.Errorf("%w: %q", ErrUnknownShippingMethod, methodID)
	}
	return withSession(s, sessionID, func(sess *session) (cart.Summary, error) {
		sess.cart.SetShippingMethod(m)
		return summary(sess)
	})
}

// ClearCart очищает корзину сессии.
func (s *Service) ClearCart(sessionID string) cart.Summary {
	sum, _ := withSession(s, sessionID, func(sess *session) (cart.Summary, error) {
		sess.cart.ClearCart()
		return summary(sess)
	})
	return sum
}

// Wishlist возвращает избранное сессии.
func (s *Service) Wishlist(sessionID string) []model.Product {
	list, _ := withSession(s, sessionID, func(sess *session) ([]model.Product, error) {
		return sess.cart.Wishlist(), nil
	})
	return list
}

// ToggleWishlist добавляет товар в избранное или убирает его.
// Возвращает true, если товар теперь в избранном.
func (s *Service) ToggleWishlist(sessionID string, productID int64) (bool, error) {
	p, err := s.catalog.ByID(productID)
	if err != nil {
		return false, err
	}
	return withSession(s, sessionID, func(sess *session) (bool, error) {
		return sess.cart.ToggleWishlist(p), nil
	})
}
