// Package repository хранит значения демо-сессий (профиль пользователя, оформленные заказы)
// в хранилище ключ-значение: в памяти, PostgreSQL или SQLite.
package repository

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"strings"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrationsFS embed.FS

// ErrNotFound возвращается, если ключ отсутствует в хранилище.
var ErrNotFound = errors.New("key not found")

// Store - общий контракт всех реализаций хранилища.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Open выбирает реализацию по схеме DSN: пустая строка - память,
// postgres:// и postgresql:// - PostgreSQL, sqlite://<путь> - SQLite.
func Open(dsn string) (Store, error) {
	switch {
	case dsn == "":
		return NewMemoryRepository(), nil
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return NewPostgresRepository(dsn)
	case strings.HasPrefix(dsn, "sqlite://"):
		return NewSQLiteRepository(strings.TrimPrefix(dsn, "sqlite://"))
	default:
		return nil, fmt.Errorf("unsupported store dsn scheme: %q", schemeOf(dsn))
	}
}

func schemeOf(dsn string) string {
	if i := strings.Index(dsn, "://"); i >= 0 {
		return dsn[:i]
	}
	return dsn
}
