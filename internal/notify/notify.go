// Package notify реализует канал уведомлений пользователю: одно видимое уведомление,
// которое автоматически скрывается по истечении TTL.
package notify

import (
	"time"

	"go.uber.org/zap"
)

// Level описывает тип уведомления.
type Level string

const (
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
)

// DefaultTTL - время показа уведомления.
const DefaultTTL = 3 * time.Second

// Notification - показанное пользователю сообщение.
type Notification struct {
	Message string    `json:"message"`
	Level   Level     `json:"type"`
	ShownAt time.Time `json:"shownAt"`
}

// Center хранит текущее уведомление. Не потокобезопасен: вызывающая сторона сериализует доступ.
type Center struct {
	ttl     time.Duration
	now     func() time.Time
	logger  *zap.Logger
	current *Notification
}

// Option настраивает Center.
type Option func(*Center)

// WithClock подменяет источник времени.
func WithClock(now func() time.Time) Option {
	return func(c *Center) {
		c.now = now
	}
}

// WithLogger задаёт логгер.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Center) {
		c.logger = logger
	}
}

// NewCenter создаёт канал уведомлений с указанным временем показа.
func NewCenter(ttl time.Duration, opts ...Option) *Center {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	c := &Center{
		ttl:    ttl,
		now:    time.Now,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Notify показывает новое уведомление, заменяя предыдущее.
func (c *Center) Notify(level Level, message string) {
	c.current = &Notification{
		Message: message,
		Level:   level,
		ShownAt: c.now(),
	}
	c.logger.Debug("notification", zap.String("level", string(level)), zap.String("message", message))
}

// Current возвращает видимое уведомление, если его TTL ещё не истёк.
func (c *Center) Current() (Notification, bool) {
	if c.current == nil {
		return Notification{}, false
	}
	if c.now().Sub(c.current.ShownAt) >= c.ttl {
		c.current = nil
		return Notification{}, false
	}
	return *c.current, true
}

// Dismiss скрывает текущее уведомление.
func (c *Center) Dismiss() {
	c.current = nil
}
