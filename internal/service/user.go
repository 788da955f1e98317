package service

import (
	"context"

	"github.com/mmeshcher/beautify-storefront/internal/account"
	"github.com/mmeshcher/beautify-storefront/internal/model"
	"github.com/mmeshcher/beautify-storefront/internal/notify"
	"github.com/mmeshcher/beautify-storefront/internal/task"
)

// User возвращает профиль сессии, если пользователь вошёл.
func (s *Service) User(ctx context.Context, sessionID string) (model.User, bool, error) {
	return s.accounts.Restore(ctx, sessionID)
}

// Login выполняет демо-вход и показывает приветствие.
func (s *Service) Login(ctx context.Context, sessionID, email, password string) *task.Future[model.User] {
	return s.notifyOnSuccess(sessionID, "Welcome back!", s.accounts.Login(ctx, sessionID, email, password))
}

// Signup регистрирует демо-пользователя.
func (s *Service) Signup(ctx context.Context, sessionID, name, email, password string) *task.Future[model.User] {
	return s.notifyOnSuccess(sessionID, "Account created successfully!", s.accounts.Signup(ctx, sessionID, name, email, password))
}

// Logout завершает демо-сессию пользователя. Корзина сохраняется.
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	return s.accounts.Logout(ctx, sessionID)
}

// UpdateProfile обновляет профиль пользователя сессии.
func (s *Service) UpdateProfile(ctx context.Context, sessionID string, upd account.ProfileUpdate) *task.Future[model.User] {
	return s.accounts.UpdateProfile(ctx, sessionID, upd)
}

// AddAddress добавляет адрес в профиль.
func (s *Service) AddAddress(ctx context.Context, sessionID string, addr model.Address) *task.Future[model.User] {
	return s.accounts.AddAddress(ctx, sessionID, addr)
}

// UpdateAddress обновляет адрес профиля.
func (s *Service) UpdateAddress(ctx context.Context, sessionID, id string, upd account.AddressUpdate) *task.Future[model.User] {
	return s.accounts.UpdateAddress(ctx, sessionID, id, upd)
}

// DeleteAddress удаляет адрес из профиля.
func (s *Service) DeleteAddress(ctx context.Context, sessionID, id string) *task.Future[model.User] {
	return s.accounts.DeleteAddress(ctx, sessionID, id)
}

// AddPaymentMethod добавляет способ оплаты.
func (s *Service) AddPaymentMethod(ctx context.Context, sessionID string, in account.NewPaymentMethod) *task.Future[model.User] {
	return s.accounts.AddPaymentMethod(ctx, sessionID, in)
}

// DeletePaymentMethod удаляет способ оплаты.
func (s *Service) DeletePaymentMethod(ctx context.Context, sessionID, id string) *task.Future[model.User] {
	return s.accounts.DeletePaymentMethod(ctx, sessionID, id)
}

// notifyOnSuccess показывает уведомление, когда f завершится без ошибки.
func (s *Service) notifyOnSuccess(sessionID, message string, f *task.Future[model.User]) *task.Future[model.User] {
	return task.Then(f, func(u model.User) {
		sess := s.session(sessionID)
		sess.mu.Lock()
		defer sess.mu.Unlock()
		sess.notes.Notify(notify.LevelSuccess, message)
	})
}
