package cart

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmeshcher/beautify-storefront/internal/model"
)

func b2g1Product(id, price int64) model.Product {
	p := product(id, price)
	p.HasB2G1 = true
	return p
}

func assertAmount(t *testing.T, want int64, got decimal.Decimal, what string) {
	t.Helper()
	if !got.Equal(decimal.NewFromInt(want)) {
		t.Fatalf("%s = %s, want %d", what, got, want)
	}
}

func TestDiscount_Components(t *testing.T) {
	tests := []struct {
		name         string
		setup        func(s *Store)
		wantDiscount int64
	}{
		{
			name: "percentage coupon",
			setup: func(s *Store) {
				s.AddToCart(product(1, 10000), 1)
				s.ApplyCoupon("WELCOME10")
			},
			wantDiscount: 1000,
		},
		{
			name: "fixed coupon ignores subtotal magnitude",
			setup: func(s *Store) {
				s.AddToCart(product(1, 100), 1)
				s.ApplyCoupon("FREESHIP")
			},
			wantDiscount: 500,
		},
		{
			name: "b2g1 awards one unit per full group of three",
			setup: func(s *Store) {
				s.AddToCart(b2g1Product(1, 1000), 6)
			},
			wantDiscount: 2000,
		},
		{
			name: "b2g1 below three units gives nothing",
			setup: func(s *Store) {
				s.AddToCart(b2g1Product(1, 1000), 2)
			},
			wantDiscount: 0,
		},
		{
			name: "b2g1 ignores partial groups",
			setup: func(s *Store) {
				s.AddToCart(b2g1Product(1, 700), 5)
			},
			wantDiscount: 700,
		},
		{
			name: "unflagged product never gets b2g1",
			setup: func(s *Store) {
				s.AddToCart(product(1, 1000), 9)
			},
			wantDiscount: 0,
		},
		{
			name: "referral adds five percent",
			setup: func(s *Store) {
				s.AddToCart(product(1, 10000), 1)
				s.ApplyReferralCode("FRIEND-CODE")
			},
			wantDiscount: 500,
		},
		{
			name: "sources are additive",
			setup: func(s *Store) {
				s.AddToCart(product(1, 4000), 1)
				s.AddToCart(b2g1Product(2, 2000), 3)
				s.ApplyCoupon("BEAUTY20")
				s.ApplyReferralCode("FRIEND-CODE")
			},
			// subtotal 10000: coupon 2000 + b2g1 2000 + referral 500
			wantDiscount: 4500,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore(nil)
			tt.setup(s)
			assertAmount(t, tt.wantDiscount, s.Discount(), "Discount()")
		})
	}
}

func TestSummary_DiscountBreakdown(t *testing.T) {
	s := NewStore(nil)
	s.AddToCart(product(1, 4000), 1)
	s.AddToCart(b2g1Product(2, 2000), 3)
	s.ApplyCoupon("BEAUTY20")
	s.ApplyReferralCode("FRIEND-CODE")

	sum := s.Summary()
	assertAmount(t, 10000, sum.Subtotal, "Subtotal")
	assertAmount(t, 2000, sum.CouponDiscount, "CouponDiscount")
	assertAmount(t, 2000, sum.B2G1Discount, "B2G1Discount")
	assertAmount(t, 500, sum.ReferralDiscount, "ReferralDiscount")
	assertAmount(t, 4500, sum.Discount, "Discount")
	require.NotNil(t, sum.Coupon)
	assert.Equal(t, "BEAUTY20", sum.Coupon.Code)
}

func TestReferralDiscount_Fractional(t *testing.T) {
	s := NewStore(nil)
	s.AddToCart(product(1, 1234), 1)
	s.ApplyReferralCode("FRIEND-CODE")

	assert.Equal(t, "61.7", s.Discount().String())
}

func TestShippingCost(t *testing.T) {
	standard, _ := model.ShippingMethodByID(model.StandardShippingID)
	express, _ := model.ShippingMethodByID("express")

	tests := []struct {
		name     string
		method   model.ShippingMethod
		subtotal int64
		want     int64
	}{
		{name: "standard above threshold is free", method: standard, subtotal: 6000, want: 0},
		{name: "standard below threshold", method: standard, subtotal: 4000, want: 500},
		{name: "standard exactly at threshold is charged", method: standard, subtotal: 5000, want: 500},
		{name: "express above threshold still charged", method: express, subtotal: 6000, want: 1200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore(nil, WithShippingMethod(tt.method))
			s.AddToCart(product(1, tt.subtotal), 1)
			assertAmount(t, tt.want, s.ShippingCost(), "ShippingCost()")
		})
	}
}

func TestShippingDoesNotAffectDiscount(t *testing.T) {
	s := NewStore(nil)
	s.AddToCart(product(1, 1000), 1)
	before := s.Discount()

	express, _ := model.ShippingMethodByID("express")
	s.SetShippingMethod(express)

	assert.True(t, before.Equal(s.Discount()))
}

func TestTotal(t *testing.T) {
	tests := []struct {
		name  string
		setup func(s *Store)
		want  int64
	}{
		{
			name:  "empty cart pays standard shipping",
			setup: func(s *Store) {},
			want:  500,
		},
		{
			name: "subtotal minus discount plus shipping",
			setup: func(s *Store) {
				s.AddToCart(product(1, 3000), 1)
				s.ApplyCoupon("WELCOME10")
			},
			want: 3000 - 300 + 500,
		},
		{
			name: "free standard shipping over threshold",
			setup: func(s *Store) {
				s.AddToCart(product(1, 6000), 1)
			},
			want: 6000,
		},
		{
			name: "gift card is a ceiling on the deduction",
			setup: func(s *Store) {
				s.AddToCart(product(1, 3000), 1)
				s.ApplyGiftCard("GIFT1000")
			},
			want: 3000 + 500 - 1000,
		},
		{
			name: "gift card larger than total clamps to zero",
			setup: func(s *Store) {
				s.AddToCart(product(1, 3000), 1)
				s.ApplyGiftCard("GIFT5000")
			},
			want: 0,
		},
		{
			name: "fixed coupon larger than subtotal is offset by shipping",
			setup: func(s *Store) {
				s.AddToCart(product(1, 100), 1)
				s.ApplyCoupon("FREESHIP")
			},
			// 100 - 500 + 500 = 100
			want: 100,
		},
		{
			name: "huge discount never goes negative",
			setup: func(s *Store) {
				s.AddToCart(b2g1Product(1, 100), 3)
				s.ApplyCoupon("FREESHIP")
				pickup, _ := model.ShippingMethodByID("pickup")
				s.SetShippingMethod(pickup)
			},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore(nil)
			tt.setup(s)
			assertAmount(t, tt.want, s.Total(), "Total()")
		})
	}
}

func TestGiftCardBalanceIsNotDebited(t *testing.T) {
	s := NewStore(nil)
	s.AddToCart(product(1, 300), 1)
	s.ApplyGiftCard("GIFT1000")

	sum := s.Summary()
	assertAmount(t, 800, sum.GiftCardApplied, "GiftCardApplied")
	assertAmount(t, 0, sum.Total, "Total")

	s.AddToCart(product(2, 2000), 1)
	g, _ := s.GiftCard()
	assert.Equal(t, int64(1000), g.Balance)
	assertAmount(t, 2300+500-1000, s.Total(), "Total()")
}

func TestTotalNeverNegative(t *testing.T) {
	coupons := []string{"", "WELCOME10", "BEAUTY20", "FREESHIP"}
	giftCards := []string{"", "GIFT500", "GIFT1000", "GIFT5000"}
	prices := []int64{1, 150, 999, 4999, 5001, 20000}
	quantities := []int{1, 3, 7}

	for _, coupon := range coupons {
		for _, gift := range giftCards {
			for _, price := range prices {
				for _, qty := range quantities {
					for _, method := range model.ShippingMethods {
						s := NewStore(nil, WithShippingMethod(method))
						s.AddToCart(b2g1Product(1, price), qty)
						if coupon != "" {
							s.ApplyCoupon(coupon)
						}
						if gift != "" {
							s.ApplyGiftCard(gift)
						}
						s.ApplyReferralCode("REFERRAL")

						if s.Total().IsNegative() {
							t.Fatalf("negative total %s for coupon=%q gift=%q price=%d qty=%d method=%s",
								s.Total(), coupon, gift, price, qty, method.ID)
						}
					}
				}
			}
		}
	}
}
