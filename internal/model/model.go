// Package model содержит доменные сущности витрины beautify.
package model

import "math"

// StockStatus описывает наличие товара на складе.
type StockStatus string

const (
	StockInStock    StockStatus = "In Stock"
	StockLowStock   StockStatus = "Low Stock"
	StockOutOfStock StockStatus = "Out of Stock"
)

// Valid сообщает, относится ли статус к известным значениям.
func (s StockStatus) Valid() bool {
	switch s {
	case StockInStock, StockLowStock, StockOutOfStock:
		return true
	}
	return false
}

// Product представляет позицию каталога. Неизменяем в пределах сессии.
type Product struct {
	ID            int64       `json:"id" yaml:"id"`
	Name          string      `json:"name" yaml:"name"`
	Brand         string      `json:"brand" yaml:"brand"`
	Price         int64       `json:"price" yaml:"price"`
	OriginalPrice *int64      `json:"originalPrice,omitempty" yaml:"originalPrice"`
	Rating        float64     `json:"rating" yaml:"rating"`
	ReviewsCount  int         `json:"reviewsCount" yaml:"reviewsCount"`
	Description   string      `json:"description,omitempty" yaml:"description"`
	Category      string      `json:"category" yaml:"category"`
	SkinType      []string    `json:"skinType,omitempty" yaml:"skinType"`
	Concern       []string    `json:"concern,omitempty" yaml:"concern"`
	OnSale        bool        `json:"onSale" yaml:"onSale"`
	HasB2G1       bool        `json:"hasB2G1" yaml:"hasB2G1"`
	StockStatus   StockStatus `json:"stockStatus" yaml:"stockStatus"`
	IsBundle      bool        `json:"isBundle" yaml:"isBundle"`
	BundleItems   []int64     `json:"bundleItems,omitempty" yaml:"bundleItems"`
}

// SalePercent возвращает округлённый процент скидки относительно исходной цены.
func (p Product) SalePercent() int {
	if p.OriginalPrice == nil || *p.OriginalPrice <= p.Price || *p.OriginalPrice <= 0 {
		return 0
	}
	return int(math.Round((1 - float64(p.Price)/float64(*p.OriginalPrice)) * 100))
}

// MaxQuantity - максимальное количество единиц товара в одной строке корзины.
const MaxQuantity = 999

// ClampQuantity приводит количество к диапазону [1, MaxQuantity].
func ClampQuantity(q int) int {
	return min(max(q, 1), MaxQuantity)
}

// CartItem описывает строку корзины: снимок товара и количество (всегда >= 1).
type CartItem struct {
	Product
	Quantity int `json:"quantity"`
}

// LineTotal возвращает стоимость строки без учёта скидок.
func (i CartItem) LineTotal() int64 {
	return i.Price * int64(i.Quantity)
}

// CouponType описывает способ расчёта скидки купона.
type CouponType string

const (
	CouponPercentage CouponType = "percentage"
	CouponFixed      CouponType = "fixed"
)

// Coupon описывает промокод.
type Coupon struct {
	Code     string     `json:"code"`
	Discount int64      `json:"discount"`
	Type     CouponType `json:"type"`
}

// GiftCard описывает подарочную карту. Баланс служит потолком вычета и не списывается.
type GiftCard struct {
	Code    string `json:"code"`
	Balance int64  `json:"balance"`
}

// ShippingMethod описывает способ доставки с фиксированной ценой.
type ShippingMethod struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Estimate string `json:"estimate"`
}

// StandardShippingID - идентификатор стандартной доставки, для которой действует бесплатный порог.
const StandardShippingID = "standard"

// ShippingMethods перечисляет доступные способы доставки; первый используется по умолчанию.
var ShippingMethods = []ShippingMethod{
	{ID: StandardShippingID, Name: "Standard Shipping", Price: 500, Estimate: "3-5 business days"},
	{ID: "cbd", Name: "Nairobi CBD Delivery", Price: 0, Estimate: "Same Day (Place before 1PM)"},
	{ID: "express", Name: "Express Delivery", Price: 1200, Estimate: "1-2 business days"},
	{ID: "pickup", Name: "Store Pickup", Price: 0, Estimate: "Ready in 2 hours"},
}

// ShippingMethodByID ищет способ доставки по идентификатору.
func ShippingMethodByID(id string) (ShippingMethod, bool) {
	for _, m := range ShippingMethods {
		if m.ID == id {
			return m, true
		}
	}
	return ShippingMethod{}, false
}
