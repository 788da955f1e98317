package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

// SQLiteRepository хранит значения сессий в локальном файле SQLite.
type SQLiteRepository struct {
	db     *sql.DB
	delays []time.Duration
	now    func() time.Time
}

// NewSQLiteRepository открывает файл БД и применяет миграции.
func NewSQLiteRepository(path string) (*SQLiteRepository, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("sqlite path is required")
	}

	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	if err := runMigrations(ctx, db, "sqlite3", "migrations/sqlite"); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &SQLiteRepository{
		db:     db,
		delays: []time.Duration{50 * time.Millisecond, 200 * time.Millisecond, 500 * time.Millisecond},
		now:    time.Now,
	}, nil
}

func (r *SQLiteRepository) withRetry(ctx context.Context, fn func() error) error {
	var err error

	for i := 0; i <= len(r.delays); i++ {
		err = fn()
		if err == nil || !isBusy(err) || i == len(r.delays) {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(r.delays[i]):
		}
	}
	return err
}

func isBusy(err error) bool {
	var sqliteErr *msqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	// Расширенные коды несут базовый код в младшем байте.
	switch sqliteErr.Code() & 0xff {
	case sqlite3lib.SQLITE_BUSY, sqlite3lib.SQLITE_LOCKED:
		return true
	}
	return false
}

// Close закрывает соединение с базой SQLite.
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// Get возвращает значение по ключу.
func (r *SQLiteRepository) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := r.withRetry(ctx, func() error {
		return r.db.QueryRowContext(ctx,
			`SELECT value FROM session_values WHERE key = ?`,
			key,
		).Scan(&value)
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		return nil, fmt.Errorf("get value: %w", err)
	}
	return value, nil
}

// Set сохраняет значение, перезаписывая прежнее.
func (r *SQLiteRepository) Set(ctx context.Context, key string, value []byte) error {
	err := r.withRetry(ctx, func() error {
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO session_values (key, value, updated_at) VALUES (?, ?, ?)
			 ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
			key, value, r.now().UTC().UnixMilli(),
		)
		return err
	})
	if err != nil {
		return fmt.Errorf("set value: %w", err)
	}
	return nil
}

// Delete удаляет ключ. Отсутствующий ключ не считается ошибкой.
func (r *SQLiteRepository) Delete(ctx context.Context, key string) error {
	err := r.withRetry(ctx, func() error {
		_, err := r.db.ExecContext(ctx, `DELETE FROM session_values WHERE key = ?`, key)
		return err
	})
	if err != nil {
		return fmt.Errorf("delete value: %w", err)
	}
	return nil
}
