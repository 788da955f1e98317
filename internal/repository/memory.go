package repository

import (
	"context"
	"fmt"
	"sync"
)

// MemoryRepository хранит значения в памяти процесса.
type MemoryRepository struct {
	mu     sync.RWMutex
	values map[string][]byte
}

// NewMemoryRepository создаёт пустое хранилище в памяти.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{values: make(map[string][]byte)}
}

// Get возвращает копию значения по ключу.
func (r *MemoryRepository) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.values[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return append([]byte(nil), v...), nil
}

// Set сохраняет копию значения, перезаписывая прежнее.
func (r *MemoryRepository) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.values[key] = append([]byte(nil), value...)
	return nil
}

// Delete удаляет ключ. Отсутствующий ключ не считается ошибкой.
func (r *MemoryRepository) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.values, key)
	return nil
}

// Close ничего не освобождает: данные живут в памяти процесса.
func (r *MemoryRepository) Close() error {
	return nil
}
