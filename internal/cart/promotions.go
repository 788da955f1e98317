package cart

import (
	"strings"
	"unicode/utf8"

	"github.com/mmeshcher/beautify-storefront/internal/model"
)

// Promotions описывает реестры промокодов, подарочных карт и правила акций.
type Promotions struct {
	Coupons               []model.Coupon
	GiftCards             map[string]int64
	ReferralMinLength     int
	ReferralPercent       int64
	FreeShippingThreshold int64
	FreeShippingMethodID  string
}

// DefaultPromotions возвращает действующие промо-правила витрины.
func DefaultPromotions() Promotions {
	return Promotions{
		Coupons: []model.Coupon{
			{Code: "WELCOME10", Discount: 10, Type: model.CouponPercentage},
			{Code: "BEAUTY20", Discount: 20, Type: model.CouponPercentage},
			{Code: "FREESHIP", Discount: 500, Type: model.CouponFixed},
		},
		GiftCards: map[string]int64{
			"GIFT500":  500,
			"GIFT1000": 1000,
			"GIFT5000": 5000,
		},
		ReferralMinLength:     6,
		ReferralPercent:       5,
		FreeShippingThreshold: 5000,
		FreeShippingMethodID:  model.StandardShippingID,
	}
}

// FindCoupon ищет купон без учёта регистра.
func (p Promotions) FindCoupon(code string) (model.Coupon, bool) {
	for _, c := range p.Coupons {
		if strings.EqualFold(c.Code, code) {
			return c, true
		}
	}
	return model.Coupon{}, false
}

// FindGiftCard возвращает баланс подарочной карты без учёта регистра кода.
func (p Promotions) FindGiftCard(code string) (int64, bool) {
	balance, ok := p.GiftCards[strings.ToUpper(code)]
	if !ok || balance <= 0 {
		return 0, false
	}
	return balance, true
}

// ValidReferral проверяет реферальный код. Реестра кодов нет, проверяется только длина.
func (p Promotions) ValidReferral(code string) bool {
	return utf8.RuneCountInString(code) >= p.ReferralMinLength
}
