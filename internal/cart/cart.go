// Package cart реализует корзину и расчёт стоимости: строки корзины, отложенные товары,
// избранное, купон, реферальный код, подарочную карту и способ доставки.
//
// Store рассчитан на одного писателя: все операции синхронны, производные суммы
// пересчитываются при каждом чтении.
package cart

import (
	"fmt"
	"strings"

	"github.com/mmeshcher/beautify-storefront/internal/model"
	"github.com/mmeshcher/beautify-storefront/internal/money"
	"github.com/mmeshcher/beautify-storefront/internal/notify"
)

// Notifier принимает сообщения для показа пользователю.
type Notifier interface {
	Notify(level notify.Level, message string)
}

type nopNotifier struct{}

func (nopNotifier) Notify(notify.Level, string) {}

// Store хранит состояние корзины одного посетителя.
type Store struct {
	items    []model.CartItem
	saved    []model.CartItem
	wishlist []model.Product

	coupon   *model.Coupon
	giftCard *model.GiftCard
	referral string
	shipping model.ShippingMethod

	promos   Promotions
	notifier Notifier
}

// Option настраивает Store.
type Option func(*Store)

// WithPromotions подменяет промо-правила.
func WithPromotions(p Promotions) Option {
	return func(s *Store) {
		s.promos = p
	}
}

// WithShippingMethod задаёт начальный способ доставки.
func WithShippingMethod(m model.ShippingMethod) Option {
	return func(s *Store) {
		s.shipping = m
	}
}

// NewStore создаёт пустую корзину. notifier может быть nil.
func NewStore(notifier Notifier, opts ...Option) *Store {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	s := &Store{
		shipping: model.ShippingMethods[0],
		promos:   DefaultPromotions(),
		notifier: notifier,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func indexOf(lines []model.CartItem, productID int64) int {
	for i, line := range lines {
		if line.ID == productID {
			return i
		}
	}
	return -1
}

func without(lines []model.CartItem, idx int) []model.CartItem {
	res := make([]model.CartItem, 0, len(lines)-1)
	res = append(res, lines[:idx]...)
	return append(res, lines[idx+1:]...)
}

// mergeQuantity складывает количества, не выходя за MaxQuantity.
func mergeQuantity(a, b int) int {
	if a >= model.MaxQuantity-b {
		return model.MaxQuantity
	}
	return model.ClampQuantity(a + b)
}

// insert добавляет строку в корзину или увеличивает количество существующей.
func (s *Store) insert(line model.CartItem) {
	line.Quantity = model.ClampQuantity(line.Quantity)
	if idx := indexOf(s.items, line.ID); idx >= 0 {
		s.items[idx].Quantity = mergeQuantity(s.items[idx].Quantity, line.Quantity)
		return
	}
	s.items = append(s.items, line)
}

// AddToCart добавляет товар в корзину. Количество меньше 1 трактуется как 1,
// количество строки не превышает model.MaxQuantity.
// Если товар лежал в отложенных, строка возвращается в корзину с суммированием количества.
func (s *Store) AddToCart(p model.Product, quantity int) {
	quantity = model.ClampQuantity(quantity)

	if idx := indexOf(s.saved, p.ID); idx >= 0 {
		quantity = mergeQuantity(quantity, s.saved[idx].Quantity)
		s.saved = without(s.saved, idx)
	}

	s.insert(model.CartItem{Product: p, Quantity: quantity})
	s.notifier.Notify(notify.LevelSuccess, fmt.Sprintf("%s added to cart!", p.Name))
}

// RemoveFromCart удаляет строку. Отсутствующий товар игнорируется.
func (s *Store) RemoveFromCart(productID int64) {
	if idx := indexOf(s.items, productID); idx >= 0 {
		s.items = without(s.items, idx)
	}
}

// UpdateQuantity заменяет количество; значение меньше 1 удаляет строку,
// значение больше model.MaxQuantity урезается.
func (s *Store) UpdateQuantity(productID int64, quantity int) {
	if quantity < 1 {
		s.RemoveFromCart(productID)
		return
	}
	if idx := indexOf(s.items, productID); idx >= 0 {
		s.items[idx].Quantity = model.ClampQuantity(quantity)
	}
}

// SaveForLater переносит строку из корзины в отложенные.
func (s *Store) SaveForLater(productID int64) {
	idx := indexOf(s.items, productID)
	if idx < 0 {
		return
	}
	line := s.items[idx]
	s.items = without(s.items, idx)
	s.saved = append(s.saved, line)

	s.notifier.Notify(notify.LevelInfo, fmt.Sprintf("%s saved for later", line.Name))
}

// MoveToCart возвращает отложенную строку в корзину.
func (s *Store) MoveToCart(productID int64) {
	idx := indexOf(s.saved, productID)
	if idx < 0 {
		return
	}
	line := s.saved[idx]
	s.saved = without(s.saved, idx)
	s.insert(line)

	s.notifier.Notify(notify.LevelSuccess, fmt.Sprintf("%s moved back to cart", line.Name))
}

// RemoveSavedItem удаляет товар из отложенных.
func (s *Store) RemoveSavedItem(productID int64) {
	if idx := indexOf(s.saved, productID); idx >= 0 {
		s.saved = without(s.saved, idx)
	}
}

// ToggleWishlist добавляет товар в избранное или убирает его оттуда.
// Возвращает новое состояние: true, если товар теперь в избранном.
func (s *Store) ToggleWishlist(p model.Product) bool {
	for i, w := range s.wishlist {
		if w.ID == p.ID {
			s.wishlist = append(s.wishlist[:i:i], s.wishlist[i+1:]...)
			s.notifier.Notify(notify.LevelInfo, fmt.Sprintf("%s removed from wishlist", p.Name))
			return false
		}
	}
	s.wishlist = append(s.wishlist, p)
	s.notifier.Notify(notify.LevelSuccess, fmt.Sprintf("%s added to wishlist!", p.Name))
	return true
}

// IsInWishlist сообщает, находится ли товар в избранном.
func (s *Store) IsInWishlist(productID int64) bool {
	for _, w := range s.wishlist {
		if w.ID == productID {
			return true
		}
	}
	return false
}

// ApplyCoupon применяет купон из реестра. При неизвестном коде состояние не меняется.
func (s *Store) ApplyCoupon(code string) bool {
	c, ok := s.promos.FindCoupon(strings.TrimSpace(code))
	if !ok {
		s.notifier.Notify(notify.LevelWarning, "Invalid coupon code")
		return false
	}
	s.coupon = &c
	s.notifier.Notify(notify.LevelSuccess, fmt.Sprintf("Coupon %s applied!", c.Code))
	return true
}

// RemoveCoupon снимает активный купон.
func (s *Store) RemoveCoupon() {
	s.coupon = nil
}

// ApplyReferralCode активирует реферальный код, если он длиннее минимальной длины.
func (s *Store) ApplyReferralCode(code string) bool {
	if !s.promos.ValidReferral(code) {
		return false
	}
	s.referral = code
	s.notifier.Notify(notify.LevelSuccess,
		fmt.Sprintf("Referral code %s applied! %d%% extra discount added.", code, s.promos.ReferralPercent))
	return true
}

// ApplyGiftCard активирует подарочную карту из реестра. При неизвестном коде прежняя карта остаётся.
func (s *Store) ApplyGiftCard(code string) bool {
	code = strings.TrimSpace(code)
	balance, ok := s.promos.FindGiftCard(code)
	if !ok {
		s.notifier.Notify(notify.LevelWarning, "Invalid gift card code")
		return false
	}
	s.giftCard = &model.GiftCard{Code: code, Balance: balance}
	s.notifier.Notify(notify.LevelSuccess, fmt.Sprintf("Gift card applied! Balance: %s", money.FormatInt(balance)))
	return true
}

// SetShippingMethod заменяет выбранный способ доставки.
func (s *Store) SetShippingMethod(m model.ShippingMethod) {
	s.shipping = m
}

// ClearCart очищает строки корзины, купон и подарочную карту.
// Избранное, отложенные товары, доставка и реферальный код сохраняются.
func (s *Store) ClearCart() {
	s.items = nil
	s.coupon = nil
	s.giftCard = nil
}

// Items возвращает копию строк корзины.
func (s *Store) Items() []model.CartItem {
	return append([]model.CartItem(nil), s.items...)
}

// SavedItems возвращает копию отложенных строк.
func (s *Store) SavedItems() []model.CartItem {
	return append([]model.CartItem(nil), s.saved...)
}

// Wishlist возвращает копию избранного.
func (s *Store) Wishlist() []model.Product {
	return append([]model.Product(nil), s.wishlist...)
}

// Coupon возвращает активный купон.
func (s *Store) Coupon() (model.Coupon, bool) {
	if s.coupon == nil {
		return model.Coupon{}, false
	}
	return *s.coupon, true
}

// GiftCard возвращает активную подарочную карту.
func (s *Store) GiftCard() (model.GiftCard, bool) {
	if s.giftCard == nil {
		return model.GiftCard{}, false
	}
	return *s.giftCard, true
}

// ReferralCode возвращает активный реферальный код или пустую строку.
func (s *Store) ReferralCode() string {
	return s.referral
}

// ShippingMethod возвращает выбранный способ доставки.
func (s *Store) ShippingMethod() model.ShippingMethod {
	return s.shipping
}
