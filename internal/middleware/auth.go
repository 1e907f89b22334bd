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
)

type contextKey string

const adminKey contextKey = "admin"

const (
	sessionCookieName = "admin_session"
	sessionCookieTTL  = 24 * time.Hour
)

// AdminAuth защищает маршруты админ-панели подписанным cookie.
// Сессия устанавливается после успешной проверки токена удалённым
// сервисом аутентификации; дальше проверяется только подпись.
type AdminAuth struct {
	secretKey []byte
}

// NewAdminAuth создаёт middleware с указанным секретным ключом.
// Пустой секрет заменяется случайным: сессии не переживут рестарт,
// но подпись останется стойкой.
func NewAdminAuth(secret string) *AdminAuth {
	key := []byte(secret)
	if len(key) == 0 {
		randomKey := make([]byte, 32)
		if _, err := rand.Read(randomKey); err == nil {
			key = randomKey
		} else {
			key = []byte("default-secret-key")
		}
	}

	return &AdminAuth{secretKey: key}
}

// Middleware проверяет cookie админ-сессии и помечает контекст запроса.
func (a *AdminAuth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(sessionCookieName)
		if err != nil {
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}

		login, ok := a.parseCookie(cookie.Value)
		if !ok {
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), adminKey, login)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// SetSessionCookie устанавливает cookie сессии для указанного логина администратора.
func (a *AdminAuth) SetSessionCookie(w http.ResponseWriter, login string) {
	cookie := &http.Cookie{
		Name:     sessionCookieName,
		Value:    a.sign(login),
		Path:     "/",
		Expires:  time.Now().Add(sessionCookieTTL),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}

	http.SetCookie(w, cookie)
}

func (a *AdminAuth) sign(login string) string {
	mac := hmac.New(sha256.New, a.secretKey)
	mac.Write([]byte(login))
	return hex.EncodeToString([]byte(login)) + "." + hex.EncodeToString(mac.Sum(nil))
}

func (a *AdminAuth) parseCookie(value string) (string, bool) {
	parts := strings.Split(value, ".")
	if len(parts) != 2 {
		return "", false
	}

	raw, err := hex.DecodeString(parts[0])
	if err != nil {
		return "", false
	}
	login := string(raw)

	mac := hmac.New(sha256.New, a.secretKey)
	mac.Write([]byte(login))
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(parts[1]), []byte(expected)) {
		return "", false
	}

	return login, true
}

// GetAdminFromContext извлекает логин администратора из контекста запроса.
func GetAdminFromContext(ctx context.Context) (string, bool) {
	login, ok := ctx.Value(adminKey).(string)
	return login, ok
}
