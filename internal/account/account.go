// Package account реализует демо-аутентификацию и профиль пользователя.
// Профиль хранится в JSON под ключом beautify_user:<sessionID>.
package account

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mmeshcher/beautify-storefront/internal/model"
	"github.com/mmeshcher/beautify-storefront/internal/repository"
	"github.com/mmeshcher/beautify-storefront/internal/task"
)

// KeyPrefix - префикс ключа профиля в хранилище.
const KeyPrefix = "beautify_user"

var (
	// ErrNotLoggedIn возвращается при изменении профиля без входа.
	ErrNotLoggedIn = errors.New("not logged in")
	// ErrInvalidCredentials возвращается при пустом email или пароле.
	ErrInvalidCredentials = errors.New("email and password are required")
	// ErrInvalidCard возвращается, если номер карты не проходит проверку.
	ErrInvalidCard = errors.New("invalid card number")
	// ErrInvalidExpiry возвращается при неверном сроке действия карты.
	ErrInvalidExpiry = errors.New("invalid card expiry date")
	// ErrInvalidPhone возвращается при неверном номере M-Pesa.
	ErrInvalidPhone = errors.New("invalid m-pesa phone number")
	// ErrUnsupportedPaymentType возвращается для неизвестного типа способа оплаты.
	ErrUnsupportedPaymentType = errors.New("unsupported payment method type")
	// ErrAddressNotFound возвращается при изменении неизвестного адреса.
	ErrAddressNotFound = errors.New("address not found")
)

// KV описывает хранилище, используемое для сохранения профиля.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Delays задаёт искусственные задержки демо-операций.
type Delays struct {
	Auth    time.Duration
	Profile time.Duration
}

// DefaultDelays возвращает задержки, принятые на витрине.
func DefaultDelays() Delays {
	return Delays{
		Auth:    1500 * time.Millisecond,
		Profile: 800 * time.Millisecond,
	}
}

// Manager управляет профилями посетителей.
type Manager struct {
	kv     KV
	logger *zap.Logger
	delays Delays
	newID  func() string

	// mu сериализует чтение-изменение-запись профиля.
	mu sync.Mutex
}

// Option настраивает Manager.
type Option func(*Manager)

// WithDelays подменяет задержки демо-операций.
func WithDelays(d Delays) Option {
	return func(m *Manager) {
		m.delays = d
	}
}

// WithIDGenerator подменяет генератор идентификаторов.
func WithIDGenerator(fn func() string) Option {
	return func(m *Manager) {
		m.newID = fn
	}
}

// NewManager создаёт менеджер профилей поверх хранилища kv.
func NewManager(kv KV, logger *zap.Logger, opts ...Option) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Manager{
		kv:     kv,
		logger: logger,
		delays: DefaultDelays(),
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Key возвращает ключ профиля для сессии.
func Key(sessionID string) string {
	return KeyPrefix + ":" + sessionID
}

func (m *Manager) load(ctx context.Context, sessionID string) (*model.User, error) {
	data, err := m.kv.Get(ctx, Key(sessionID))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("load user: %w", err)
	}

	var u model.User
	if err := json.Unmarshal(data, &u); err != nil {
		m.logger.Warn("corrupt user session, removing",
			zap.String("session", sessionID), zap.Error(err))
		if delErr := m.kv.Delete(ctx, Key(sessionID)); delErr != nil {
			return nil, fmt.Errorf("remove corrupt user: %w", delErr)
		}
		return nil, nil
	}
	return &u, nil
}

func (m *Manager) save(ctx context.Context, sessionID string, u model.User) error {
	data, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}
	if err := m.kv.Set(ctx, Key(sessionID), data); err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	return nil
}

// Restore восстанавливает профиль сессии. Повреждённая запись удаляется,
// и сессия считается анонимной.
func (m *Manager) Restore(ctx context.Context, sessionID string) (model.User, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, err := m.load(ctx, sessionID)
	if err != nil || u == nil {
		return model.User{}, false, err
	}
	return *u, true, nil
}

// Login выполняет демо-вход: любой непустой email и пароль принимаются,
// профиль заполняется демонстрационными данными.
func (m *Manager) Login(ctx context.Context, sessionID, email, password string) *task.Future[model.User] {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return task.Resolved(model.User{}, ErrInvalidCredentials)
	}
	ctx = context.WithoutCancel(ctx)

	return task.Run(m.delays.Auth, func() (model.User, error) {
		name, _, _ := strings.Cut(email, "@")
		u := model.User{
			ID:    m.newID(),
			Name:  name,
			Email: email,
			Phone: "+254 700 000 000",
			Addresses: []model.Address{{
				ID:        "addr-" + m.newID(),
				Type:      model.AddressHome,
				Street:    "Riverside Drive",
				City:      "Nairobi",
				State:     "Nairobi",
				Zip:       "00100",
				Country:   "Kenya",
				IsDefault: true,
			}},
			PaymentMethods: []model.PaymentMethod{{
				ID:         "pay-" + m.newID(),
				Type:       model.PaymentVisa,
				Last4:      "4242",
				ExpiryDate: "12/26",
				IsDefault:  true,
			}},
			LoyaltyPoints: 1250,
		}

		m.mu.Lock()
		defer m.mu.Unlock()

		if err := m.save(ctx, sessionID, u); err != nil {
			return model.User{}, err
		}
		m.logger.Info("user logged in", zap.String("session", sessionID))
		return u, nil
	})
}

// Signup регистрирует демо-пользователя с пустым профилем.
func (m *Manager) Signup(ctx context.Context, sessionID, name, email, password string) *task.Future[model.User] {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return task.Resolved(model.User{}, ErrInvalidCredentials)
	}
	ctx = context.WithoutCancel(ctx)

	return task.Run(m.delays.Auth, func() (model.User, error) {
		u := model.User{
			ID:             m.newID(),
			Name:           strings.TrimSpace(name),
			Email:          email,
			Addresses:      []model.Address{},
			PaymentMethods: []model.PaymentMethod{},
		}

		m.mu.Lock()
		defer m.mu.Unlock()

		if err := m.save(ctx, sessionID, u); err != nil {
			return model.User{}, err
		}
		m.logger.Info("user signed up", zap.String("session", sessionID))
		return u, nil
	})
}

// Logout удаляет профиль сессии.
func (m *Manager) Logout(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.kv.Delete(ctx, Key(sessionID)); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// update применяет fn к профилю после задержки редактирования.
func (m *Manager) update(ctx context.Context, sessionID string, fn func(u *model.User) error) *task.Future[model.User] {
	ctx = context.WithoutCancel(ctx)

	return task.Run(m.delays.Profile, func() (model.User, error) {
		m.mu.Lock()
		defer m.mu.Unlock()

		u, err := m.load(ctx, sessionID)
		if err != nil {
			return model.User{}, err
		}
		if u == nil {
			return model.User{}, ErrNotLoggedIn
		}

		if err := fn(u); err != nil {
			return model.User{}, err
		}
		if err := m.save(ctx, sessionID, *u); err != nil {
			return model.User{}, err
		}
		return *u, nil
	})
}
