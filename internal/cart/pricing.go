package cart

import (
	"github.com/shopspring/decimal"

	"github.com/mmeshcher/beautify-storefront/internal/model"
)

var hundred = decimal.NewFromInt(100)

// Summary - снимок корзины с рассчитанными суммами.
type Summary struct {
	Items          []model.CartItem
	SavedItems     []model.CartItem
	Coupon         *model.Coupon
	GiftCard       *model.GiftCard
	ReferralCode   string
	ShippingMethod model.ShippingMethod

	Subtotal         decimal.Decimal
	CouponDiscount   decimal.Decimal
	B2G1Discount     decimal.Decimal
	ReferralDiscount decimal.Decimal
	Discount         decimal.Decimal
	Shipping         decimal.Decimal
	GiftCardApplied  decimal.Decimal
	Total            decimal.Decimal
}

// Subtotal возвращает сумму price*quantity по строкам корзины (без отложенных).
func (s *Store) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, line := range s.items {
		sum = sum.Add(decimal.NewFromInt(line.Price).Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return sum
}

func (s *Store) couponDiscount(subtotal decimal.Decimal) decimal.Decimal {
	if s.coupon == nil {
		return decimal.Zero
	}
	switch s.coupon.Type {
	case model.CouponPercentage:
		return subtotal.Mul(decimal.NewFromInt(s.coupon.Discount)).Div(hundred)
	case model.CouponFixed:
		return decimal.NewFromInt(s.coupon.Discount)
	default:
		return decimal.Zero
	}
}

// b2g1Discount начисляет одну бесплатную единицу за каждые полные три единицы акционного товара.
func (s *Store) b2g1Discount() decimal.Decimal {
	free := decimal.Zero
	for _, line := range s.items {
		if !line.HasB2G1 || line.Quantity < 3 {
			continue
		}
		free = free.Add(decimal.NewFromInt(line.Price).Mul(decimal.NewFromInt(int64(line.Quantity / 3))))
	}
	return free
}

func (s *Store) referralDiscount(subtotal decimal.Decimal) decimal.Decimal {
	if s.referral == "" {
		return decimal.Zero
	}
	return subtotal.Mul(decimal.NewFromInt(s.promos.ReferralPercent)).Div(hundred)
}

// Discount возвращает сумму независимых скидок: купон, 2+1 и реферальная.
func (s *Store) Discount() decimal.Decimal {
	subtotal := s.Subtotal()
	return s.couponDiscount(subtotal).
		Add(s.b2g1Discount()).
		Add(s.referralDiscount(subtotal))
}

// ShippingCost возвращает стоимость доставки: стандартная доставка бесплатна,
// если подытог превышает порог.
func (s *Store) ShippingCost() decimal.Decimal {
	return s.shippingCost(s.Subtotal())
}

func (s *Store) shippingCost(subtotal decimal.Decimal) decimal.Decimal {
	if s.shipping.ID == s.promos.FreeShippingMethodID &&
		subtotal.GreaterThan(decimal.NewFromInt(s.promos.FreeShippingThreshold)) {
		return decimal.Zero
	}
	return decimal.NewFromInt(s.shipping.Price)
}

// Total возвращает итог к оплате, не меньше нуля.
func (s *Store) Total() decimal.Decimal {
	return s.Summary().Total
}

// Summary пересчитывает все суммы по текущему состоянию.
func (s *Store) Summary() Summary {
	subtotal := s.Subtotal()

	sum := Summary{
		Items:            s.Items(),
		SavedItems:       s.SavedItems(),
		ReferralCode:     s.referral,
		ShippingMethod:   s.shipping,
		Subtotal:         subtotal,
		CouponDiscount:   s.couponDiscount(subtotal),
		B2G1Discount:     s.b2g1Discount(),
		ReferralDiscount: s.referralDiscount(subtotal),
		Shipping:         s.shippingCost(subtotal),
	}
	if c, ok := s.Coupon(); ok {
		sum.Coupon = &c
	}
	if g, ok := s.GiftCard(); ok {
		sum.GiftCard = &g
	}

	sum.Discount = sum.CouponDiscount.Add(sum.B2G1Discount).Add(sum.ReferralDiscount)

	total := decimal.Max(decimal.Zero, subtotal.Sub(sum.Discount).Add(sum.Shipping))
	if sum.GiftCard != nil {
		sum.GiftCardApplied = decimal.Min(decimal.NewFromInt(sum.GiftCard.Balance), total)
		total = decimal.Max(decimal.Zero, total.Sub(sum.GiftCardApplied))
	}
	sum.Total = total

	return sum
}
