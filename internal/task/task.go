// Package task описывает результаты имитируемых асинхронных операций (демо-вход, оформление заказа).
package task

import (
	"context"
	"time"
)

// Future - результат операции, который можно дождаться.
type Future[T any] struct {
	done  chan struct{}
	value T
	err   error
}

// Run выполняет fn после искусственной задержки delay. При нулевой задержке
// fn выполняется синхронно и Future возвращается уже завершённым.
// Операция не отменяется: контекст в Wait ограничивает только ожидание.
func Run[T any](delay time.Duration, fn func() (T, error)) *Future[T] {
	f := &Future[T]{done: make(chan struct{})}

	if delay <= 0 {
		f.value, f.err = fn()
		close(f.done)
		return f
	}

	go func() {
		timer := time.NewTimer(delay)
		defer timer.Stop()
		<-timer.C

		f.value, f.err = fn()
		close(f.done)
	}()

	return f
}

// Resolved возвращает уже завершённый Future.
func Resolved[T any](value T, err error) *Future[T] {
	f := &Future[T]{done: make(chan struct{}), value: value, err: err}
	close(f.done)
	return f
}

// Done закрывается после завершения операции.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Wait блокируется до завершения операции или отмены ctx.
func (f *Future[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Then вызывает fn с результатом f, если операция завершилась без ошибки.
// Возвращаемый Future завершается после fn с тем же результатом.
func Then[T any](f *Future[T], fn func(T)) *Future[T] {
	next := &Future[T]{done: make(chan struct{})}

	finish := func() {
		next.value, next.err = f.value, f.err
		if f.err == nil {
			fn(f.value)
		}
		close(next.done)
	}

	select {
	case <-f.done:
		finish()
	default:
		go func() {
			<-f.done
			finish()
		}()
	}

	return next
}
