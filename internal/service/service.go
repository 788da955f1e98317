// Package service связывает каталог, корзину, учётные записи и оформление заказов
// в операции витрины для отдельных сессий посетителей.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mmeshcher/beautify-storefront/internal/account"
	"github.com/mmeshcher/beautify-storefront/internal/cart"
	"github.com/mmeshcher/beautify-storefront/internal/checkout"
	"github.com/mmeshcher/beautify-storefront/internal/model"
	"github.com/mmeshcher/beautify-storefront/internal/notify"
	"github.com/mmeshcher/beautify-storefront/internal/search"
	"github.com/mmeshcher/beautify-storefront/internal/task"
)

var (
	// ErrCodeRejected возвращается, если купон, реферальный код или подарочная карта не приняты.
	ErrCodeRejected = errors.New("code rejected")
	// ErrUnknownShippingMethod возвращается для неизвестного способа доставки.
	ErrUnknownShippingMethod = errors.New("unknown shipping method")
	// ErrInvalidFilter возвращается для неизвестной сортировки или отрицательной цены.
	ErrInvalidFilter = errors.New("invalid filter")
)

// Catalog описывает каталог товаров, используемый сервисом.
type Catalog interface {
	All() []model.Product
	ByID(id int64) (model.Product, error)
	Brands() []string
	Bundles() []model.Product
	BundleItems(bundle model.Product) []model.Product
}

// Accounts описывает операции с профилем пользователя.
type Accounts interface {
	Restore(ctx context.Context, sessionID string) (model.User, bool, error)
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

// Orders описывает оформление и отслеживание заказов.
type Orders interface {
	PlaceOrder(ctx context.Context, req checkout.Request, onPlaced func(checkout.Order)) *task.Future[checkout.Order]
	TrackOrder(ctx context.Context, id string) *task.Future[checkout.Tracking]
}

// Config задаёт параметры сервиса.
type Config struct {
	// SessionTTL - время простоя, после которого сессия удаляется.
	SessionTTL time.Duration
	// SweepInterval - период проверки простаивающих сессий.
	SweepInterval   time.Duration
	NotificationTTL time.Duration
}

type session struct {
	mu       sync.Mutex
	cart     *cart.Store
	browser  *search.Browser
	notes    *notify.Center
	lastSeen time.Time
}

// Service содержит сессии посетителей и операции витрины.
type Service struct {
	catalog  Catalog
	accounts Accounts
	orders   Orders
	logger   *zap.Logger
	cfg      Config
	now      func() time.Time

	mu       sync.Mutex
	sessions map[string]*session
}

// NewService создаёт сервис витрины.
func NewService(c Catalog, accounts Accounts, orders Orders, logger *zap.Logger, cfg Config) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 24 * time.Hour
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = time.Minute
	}
	if cfg.NotificationTTL <= 0 {
		cfg.NotificationTTL = notify.DefaultTTL
	}
	return &Service{
		catalog:  c,
		accounts: accounts,
		orders:   orders,
		logger:   logger,
		cfg:      cfg,
		now:      time.Now,
		sessions: make(map[string]*session),
	}
}

// session возвращает состояние сессии, создавая его при первом обращении.
func (s *Service) session(id string) *session {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		notes := notify.NewCenter(s.cfg.NotificationTTL,
			notify.WithClock(s.now),
			notify.WithLogger(s.logger.With(zap.String("session", id))),
		)
		sess = &session{
			cart:    cart.NewStore(notes),
			browser: search.NewBrowser(s.catalog.All(), search.DefaultFilters()),
			notes:   notes,
		}
		s.sessions[id] = sess
	}
	sess.lastSeen = s.now()
	return sess
}

// withSession выполняет fn под блокировкой сессии.
func withSession[T any](s *Service, id string, fn func(sess *session) (T, error)) (T, error) {
	sess := s.session(id)
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return fn(sess)
}

// SessionCount возвращает количество активных сессий.
func (s *Service) SessionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// StartSessionSweeper запускает фоновое удаление простаивающих сессий.
func (s *Service) StartSessionSweeper(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(s.cfg.SweepInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.sweepSessions()
			}
		}
	}()
}

func (s *Service) sweepSessions() {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-s.cfg.SessionTTL)
	evicted := 0
	for id, sess := range s.sessions {
		if sess.lastSeen.Before(cutoff) {
			delete(s.sessions, id)
			evicted++
		}
	}
	if evicted > 0 {
		s.logger.Info("idle sessions evicted", zap.Int("count", evicted), zap.Int("active", len(s.sessions)))
	}
}

// Notification возвращает текущее уведомление сессии.
func (s *Service) Notification(sessionID string) (notify.Notification, bool) {
	sess := s.session(sessionID)
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.notes.Current()
}

// DismissNotification скрывает текущее уведомление сессии.
func (s *Service) DismissNotification(sessionID string) {
	sess := s.session(sessionID)
	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.notes.Dismiss()
}

// Checkout оформляет заказ из текущей корзины. После успешного оформления корзина очищается.
func (s *Service) Checkout(ctx context.Context, sessionID string, contact checkout.Contact, payment checkout.PaymentOption, mpesaPhone string) *task.Future[checkout.Order] {
	sess := s.session(sessionID)

	sess.mu.Lock()
	summary := sess.cart.Summary()
	sess.mu.Unlock()

	req := checkout.Request{
		Summary:    summary,
		Contact:    contact,
		Payment:    payment,
		MpesaPhone: mpesaPhone,
	}

	// onPlaced может выполниться синхронно, поэтому блокировка сессии здесь уже снята.
	return s.orders.PlaceOrder(ctx, req, func(o checkout.Order) {
		sess.mu.Lock()
		defer sess.mu.Unlock()

		sess.cart.ClearCart()
		sess.notes.Notify(notify.LevelSuccess, fmt.Sprintf("Order %s placed successfully!", o.Number))
	})
}

// TrackOrder возвращает состояние доставки заказа.
func (s *Service) TrackOrder(ctx context.Context, id string) *task.Future[checkout.Tracking] {
	return s.orders.TrackOrder(ctx, id)
}
