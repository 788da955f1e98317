// Package middleware содержит HTTP middleware витрины.
package middleware

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

type contextKey string

const sessionIDKey contextKey = "sessionID"

const (
	sessionCookieName = "beautify_session"
	sessionCookieTTL  = 30 * 24 * time.Hour
)

// SessionMiddleware привязывает посетителя к сессии по подписанному cookie.
type SessionMiddleware struct {
	secretKey []byte
	newID     func() string
}

// NewSessionMiddleware создаёт middleware сессий. Пустой secret заменяется случайным ключом.
func NewSessionMiddleware(secret string) *SessionMiddleware {
	key := []byte(secret)
	if len(key) == 0 {
		key = make([]byte, 32)
		// rand.Read не возвращает ошибок начиная с Go 1.24.
		_, _ = rand.Read(key)
	}

	return &SessionMiddleware{
		secretKey: key,
		newID:     uuid.NewString,
	}
}

// Middleware находит сессию по cookie или открывает новую и кладёт её идентификатор в контекст.
func (m *SessionMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var (
			sessionID string
			ok        bool
		)
		if cookie, err := r.Cookie(sessionCookieName); err == nil {
			sessionID, ok = m.parseCookie(cookie.Value)
		}
		if !ok {
			sessionID = m.newID()
			m.SetSessionCookie(w, sessionID)
		}

		ctx := context.WithValue(r.Context(), sessionIDKey, sessionID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// SetSessionCookie устанавливает подписанный cookie сессии.
func (m *SessionMiddleware) SetSessionCookie(w http.ResponseWriter, sessionID string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    sessionID + "." + m.sign(sessionID),
		Path:     "/",
		Expires:  time.Now().Add(sessionCookieTTL),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (m *SessionMiddleware) sign(sessionID string) string {
	mac := hmac.New(sha256.New, m.secretKey)
	mac.Write([]byte(sessionID))
	return hex.EncodeToString(mac.Sum(nil))
}

func (m *SessionMiddleware) parseCookie(value string) (string, bool) {
	sessionID, signature, found := strings.Cut(value, ".")
	if !found || sessionID == "" {
		return "", false
	}
	if !hmac.Equal([]byte(signature), []byte(m.sign(sessionID))) {
		return "", false
	}
	if _, err := uuid.Parse(sessionID); err != nil {
		return "", false
	}
	return sessionID, true
}

// GetSessionIDFromContext извлекает идентификатор сессии из контекста запроса.
func GetSessionIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(sessionIDKey).(string)
	return id, ok && id != ""
}

// WithSessionID возвращает контекст с идентификатором сессии.
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, sessionIDKey, sessionID)
}
