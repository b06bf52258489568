// internal/auth/context.go
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// SessionCookie — имя cookie с подписанным токеном сессии.
const SessionCookie = "goddit_session"

const sessionTTL = 72 * time.Hour

type contextKey string

const (
	userIDKey = contextKey("userID")
	writerKey = contextKey("responseWriter")
)

// Сохраняет userID в контексте
func WithUserID(ctx context.Context, userID uint) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// Достает userID из контекста
func GetUserIDFromContext(ctx context.Context) (uint, error) {
	val := ctx.Value(userIDKey)
	id, ok := val.(uint)
	if !ok {
		return 0, errors.New("user ID not found in context")
	}
	return id, nil
}

// WithResponseWriter кладет http.ResponseWriter в контекст — он нужен
// резолверам login/logout/changePassword, чтобы выставлять cookie сессии.
func WithResponseWriter(ctx context.Context, w http.ResponseWriter) context.Context {
	return context.WithValue(ctx, writerKey, w)
}

func GetResponseWriter(ctx context.Context) (http.ResponseWriter, error) {
	w, ok := ctx.Value(writerKey).(http.ResponseWriter)
	if !ok {
		return nil, errors.New("response writer not found in context")
	}
	return w, nil
}

// IssueToken подписывает HS256-токен сессии для пользователя.
func IssueToken(userID uint) (string, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return "", errors.New("JWT_SECRET is not set in environment")
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(sessionTTL).Unix(),
	})

	tokenString, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// SetSessionCookie выставляет cookie сессии через writer из контекста.
func SetSessionCookie(ctx context.Context, token string) error {
	w, err := GetResponseWriter(ctx)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(sessionTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// ClearSessionCookie сбрасывает cookie сессии (logout).
func ClearSessionCookie(ctx context.Context) error {
	w, err := GetResponseWriter(ctx)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Middleware извлекает токен сессии (cookie или Bearer-заголовок),
// валидирует его и сохраняет userID в context. Невалидный или отсутствующий
// токен не является ошибкой — запрос продолжается анонимным.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := WithResponseWriter(r.Context(), w)
		r = r.WithContext(ctx)

		tokenStr := extractToken(r)
		if tokenStr == "" {
			next.ServeHTTP(w, r) // неавторизованный доступ — пропускаем
			return
		}

		secret := os.Getenv("JWT_SECRET")
		if secret == "" {
			http.Error(w, "JWT secret not set", http.StatusInternalServerError)
			return
		}

		token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			next.ServeHTTP(w, r) // если невалидный токен — пропускаем
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		idFloat, ok := claims["user_id"].(float64)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		userID := uint(idFloat)
		r = r.WithContext(WithUserID(r.Context(), userID))

		next.ServeHTTP(w, r)
	})
}

// extractToken: cookie сессии имеет приоритет, Bearer-заголовок — запасной
// вариант для клиентов без cookie (playground, curl).
func extractToken(r *http.Request) string {
	if c, err := r.Cookie(SessionCookie); err == nil && c.Value != "" {
		return c.Value
	}

	parts := strings.Split(r.Header.Get("Authorization"), " ")
	if len(parts) == 2 && parts[0] == "Bearer" {
		return parts[1]
	}
	return ""
}
