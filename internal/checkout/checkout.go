// Package checkout имитирует оформление заказа и отслеживание доставки.
package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mmeshcher/beautify-storefront/internal/cart"
	"github.com/mmeshcher/beautify-storefront/internal/model"
	"github.com/mmeshcher/beautify-storefront/internal/repository"
	"github.com/mmeshcher/beautify-storefront/internal/task"
	"github.com/mmeshcher/beautify-storefront/internal/validation"
)

// KeyPrefix - префикс ключа заказа в хранилище.
const KeyPrefix = "beautify_order"

var (
	// ErrEmptyCart возвращается при оформлении пустой корзины.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrUnknownPayment возвращается для неизвестного способа оплаты.
	ErrUnknownPayment = errors.New("unknown payment option")
	// ErrIncompleteContact возвращается, если не заполнены данные доставки.
	ErrIncompleteContact = errors.New("shipping contact is incomplete")
	// ErrInvalidPhone возвращается при неверном номере M-Pesa.
	ErrInvalidPhone = errors.New("invalid m-pesa phone number")
	// ErrEmptyOrderID возвращается при отслеживании без номера заказа.
	ErrEmptyOrderID = errors.New("order id is required")
)

// PaymentOption - способ оплаты на странице оформления.
type PaymentOption string

const (
	PaymentCard   PaymentOption = "card"
	PaymentMpesa  PaymentOption = "mpesa"
	PaymentPayPal PaymentOption = "paypal"
	PaymentWallet PaymentOption = "wallet"
)

// Valid сообщает, поддерживается ли способ оплаты.
func (p PaymentOption) Valid() bool {
	switch p {
	case PaymentCard, PaymentMpesa, PaymentPayPal, PaymentWallet:
		return true
	}
	return false
}

// TrackingStatus - этап доставки заказа.
type TrackingStatus string

const (
	StatusProcessing     TrackingStatus = "Processing"
	StatusShipped        TrackingStatus = "Shipped"
	StatusOutForDelivery TrackingStatus = "Out for Delivery"
	StatusDelivered      TrackingStatus = "Delivered"
)

// Contact - данные получателя.
type Contact struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Street    string `json:"street"`
	City      string `json:"city"`
	Zip       string `json:"zip,omitempty"`
}

func (c Contact) complete() bool {
	for _, v := range []string{c.FirstName, c.LastName, c.Email, c.Street, c.City} {
		if strings.TrimSpace(v) == "" {
			return false
		}
	}
	return true
}

// Request - данные формы оформления вместе со снимком корзины.
type Request struct {
	Summary    cart.Summary
	Contact    Contact
	Payment    PaymentOption
	MpesaPhone string
}

// Order - оформленный заказ.
type Order struct {
	Number          string               `json:"number"`
	Items           []model.CartItem     `json:"items"`
	Contact         Contact              `json:"contact"`
	Payment         PaymentOption        `json:"payment"`
	ShippingMethod  model.ShippingMethod `json:"shippingMethod"`
	Subtotal        decimal.Decimal      `json:"subtotal"`
	Discount        decimal.Decimal      `json:"discount"`
	Shipping        decimal.Decimal      `json:"shipping"`
	GiftCardApplied decimal.Decimal      `json:"giftCardApplied"`
	Total           decimal.Decimal      `json:"total"`
	PlacedAt        time.Time            `json:"placedAt"`
}

// ItemCount возвращает общее количество единиц товара в заказе.
func (o Order) ItemCount() int {
	n := 0
	for _, line := range o.Items {
		n += line.Quantity
	}
	return n
}

// Tracking - ответ на запрос отслеживания заказа.
type Tracking struct {
	ID     string          `json:"id"`
	Status TrackingStatus  `json:"status"`
	Date   string          `json:"date"`
	Items  int             `json:"items"`
	Total  decimal.Decimal `json:"total"`
}

// KV описывает хранилище оформленных заказов.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Delays задаёт искусственные задержки операций.
type Delays struct {
	Place time.Duration
	Track time.Duration
}

// DefaultDelays возвращает задержки, принятые на витрине.
func DefaultDelays() Delays {
	return Delays{
		Place: 2 * time.Second,
		Track: 1500 * time.Millisecond,
	}
}

// Processor оформляет и отслеживает заказы.
type Processor struct {
	kv     KV
	logger *zap.Logger
	delays Delays
	number func() string
	now    func() time.Time
}

// Option настраивает Processor.
type Option func(*Processor)

// WithDelays задаёт задержки оформления и отслеживания.
func WithDelays(d Delays) Option {
	return func(p *Processor) {
		p.delays = d
	}
}

// WithOrderNumbers подменяет генератор номеров заказов.
func WithOrderNumbers(fn func() string) Option {
	return func(p *Processor) {
		p.number = fn
	}
}

// WithClock подменяет источник текущего времени.
func WithClock(now func() time.Time) Option {
	return func(p *Processor) {
		p.now = now
	}
}

// NewProcessor создаёт обработчик заказов поверх хранилища kv.
func NewProcessor(kv KV, logger *zap.Logger, opts ...Option) *Processor {
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &Processor{
		kv:     kv,
		logger: logger,
		delays: DefaultDelays(),
		number: randomOrderNumber,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func randomOrderNumber() string {
	return fmt.Sprintf("BT-%d", rand.IntN(90000)+10000)
}

// Key возвращает ключ заказа в хранилище.
func Key(number string) string {
	return KeyPrefix + ":" + number
}

// NormalizeOrderID приводит введённый номер к виду BT-12345.
func NormalizeOrderID(id string) string {
	return strings.ToUpper(strings.TrimPrefix(strings.TrimSpace(id), "#"))
}

func validate(req Request) error {
	if len(req.Summary.Items) == 0 {
		return ErrEmptyCart
	}
	if !req.Payment.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownPayment, req.Payment)
	}
	if !req.Contact.complete() {
		return ErrIncompleteContact
	}
	if req.Payment == PaymentMpesa && !validation.IsValidMpesaPhone(req.MpesaPhone) {
		return ErrInvalidPhone
	}
	return nil
}

// PlaceOrder оформляет заказ после задержки обработки. После сохранения
// заказа вызывается onPlaced, обычно очищающий корзину.
func (p *Processor) PlaceOrder(ctx context.Context, req Request, onPlaced func(Order)) *task.Future[Order] {
	if err := validate(req); err != nil {
		return task.Resolved(Order{}, err)
	}
	ctx = context.WithoutCancel(ctx)

	return task.Run(p.delays.Place, func() (Order, error) {
		sum := req.Summary
		o := Order{
			Number:          p.number(),
			Items:           sum.Items,
			Contact:         req.Contact,
			Payment:         req.Payment,
			ShippingMethod:  sum.ShippingMethod,
			Subtotal:        sum.Subtotal,
			Discount:        sum.Discount,
			Shipping:        sum.Shipping,
			GiftCardApplied: sum.GiftCardApplied,
			Total:           sum.Total,
			PlacedAt:        p.now().UTC(),
		}

		data, err := json.Marshal(o)
		if err != nil {
			return Order{}, fmt.Errorf("marshal order: %w", err)
		}
		if err := p.kv.Set(ctx, Key(o.Number), data); err != nil {
			return Order{}, fmt.Errorf("save order: %w", err)
		}

		p.logger.Info("order placed",
			zap.String("order", o.Number),
			zap.String("payment", string(o.Payment)),
			zap.String("total", o.Total.String()),
		)

		if onPlaced != nil {
			onPlaced(o)
		}
		return o, nil
	})
}

// TrackOrder возвращает состояние доставки. Для неизвестных номеров
// возвращается демонстрационный ответ, как на витрине.
func (p *Processor) TrackOrder(ctx context.Context, id string) *task.Future[Tracking] {
	id = NormalizeOrderID(id)
	if id == "" {
		return task.Resolved(Tracking{}, ErrEmptyOrderID)
	}
	ctx = context.WithoutCancel(ctx)

	return task.Run(p.delays.Track, func() (Tracking, error) {
		data, err := p.kv.Get(ctx, Key(id))
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return Tracking{
					ID:     id,
					Status: StatusShipped,
					Date:   "FedEx: Expected by Feb 10, 2026",
					Items:  3,
					Total:  decimal.NewFromInt(12500),
				}, nil
			}
			return Tracking{}, fmt.Errorf("load order: %w", err)
		}

		var o Order
		if err := json.Unmarshal(data, &o); err != nil {
			return Tracking{}, fmt.Errorf("decode order %s: %w", id, err)
		}

		return Tracking{
			ID:     o.Number,
			Status: StatusShipped,
			Date:   "Expected by " + o.PlacedAt.AddDate(0, 0, 5).Format("Jan 2, 2006"),
			Items:  o.ItemCount(),
			Total:  o.Total,
		}, nil
	})
}
