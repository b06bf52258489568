package auth

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithUserIDAndGetUserIDFromContext(t *testing.T) {
	t.Run("Store and retrieve user ID from context", func(t *testing.T) {
		ctx := context.Background()

		userID := uint(123)
		ctx = WithUserID(ctx, userID)

		retrievedID, err := GetUserIDFromContext(ctx)
		assert.NoError(t, err)
		assert.Equal(t, userID, retrievedID)
	})

	t.Run("Error when user ID not in context", func(t *testing.T) {
		ctx := context.Background()

		_, err := GetUserIDFromContext(ctx)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "not found in context")
	})

	t.Run("Error when context value is not uint", func(t *testing.T) {
		// Создаем контекст с неправильным типом значения
		ctx := context.WithValue(context.Background(), userIDKey, "not-a-uint")

		_, err := GetUserIDFromContext(ctx)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "not found in context")
	})
}

func TestIssueToken(t *testing.T) {
	t.Run("Issued token carries user id and expiry", func(t *testing.T) {
		originalSecret := os.Getenv("JWT_SECRET")
		os.Setenv("JWT_SECRET", "test_jwt_secret")
		defer os.Setenv("JWT_SECRET", originalSecret)

		tokenString, err := IssueToken(42)
		require.NoError(t, err)

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			return []byte("test_jwt_secret"), nil
		})
		require.NoError(t, err)
		require.True(t, token.Valid)

		claims, ok := token.Claims.(jwt.MapClaims)
		require.True(t, ok)
		assert.Equal(t, float64(42), claims["user_id"])
		assert.Greater(t, claims["exp"].(float64), float64(time.Now().Unix()))
	})

	t.Run("Error without JWT_SECRET", func(t *testing.T) {
		originalSecret := os.Getenv("JWT_SECRET")
		os.Unsetenv("JWT_SECRET")
		defer os.Setenv("JWT_SECRET", originalSecret)

		_, err := IssueToken(42)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "JWT_SECRET is not set")
	})
}

func TestSessionCookies(t *testing.T) {
	t.Run("SetSessionCookie writes an HttpOnly cookie", func(t *testing.T) {
		rec := httptest.NewRecorder()
		ctx := WithResponseWriter(context.Background(), rec)

		err := SetSessionCookie(ctx, "token123")
		require.NoError(t, err)

		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, SessionCookie, cookies[0].Name)
		assert.Equal(t, "token123", cookies[0].Value)
		assert.True(t, cookies[0].HttpOnly)
		assert.Equal(t, "/", cookies[0].Path)
		assert.Positive(t, cookies[0].MaxAge)
	})

	t.Run("ClearSessionCookie expires the cookie", func(t *testing.T) {
		rec := httptest.NewRecorder()
		ctx := WithResponseWriter(context.Background(), rec)

		err := ClearSessionCookie(ctx)
		require.NoError(t, err)

		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, SessionCookie, cookies[0].Name)
		assert.Empty(t, cookies[0].Value)
		assert.Negative(t, cookies[0].MaxAge)
	})

	t.Run("Error without response writer in context", func(t *testing.T) {
		err := SetSessionCookie(context.Background(), "token123")
		assert.Error(t, err)

		err = ClearSessionCookie(context.Background())
		assert.Error(t, err)
	})
}

func TestExtractToken(t *testing.T) {
	t.Run("Session cookie has priority over header", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/query", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "cookie-token"})
		req.Header.Set("Authorization", "Bearer header-token")

		assert.Equal(t, "cookie-token", extractToken(req))
	})

	t.Run("Bearer header as fallback", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/query", nil)
		req.Header.Set("Authorization", "Bearer token123")

		assert.Equal(t, "token123", extractToken(req))
	})

	t.Run("Invalid format - no Bearer prefix", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/query", nil)
		req.Header.Set("Authorization", "NotBearer token123")

		assert.Equal(t, "", extractToken(req))
	})

	t.Run("No token at all", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/query", nil)

		assert.Equal(t, "", extractToken(req))
	})
}

func TestMiddleware(t *testing.T) {
	// Создаем тестовый обработчик, который будет проверять наличие userID в контексте
	testHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := GetUserIDFromContext(r.Context())
		if err == nil {
			fmt.Fprintf(w, "User ID: %d", userID)
		} else {
			fmt.Fprint(w, "No user ID in context")
		}
	})

	// Создаем middleware с нашим тестовым обработчиком
	handler := Middleware(testHandler)

	// Сохраняем текущее значение JWT_SECRET
	originalSecret := os.Getenv("JWT_SECRET")

	// Устанавливаем тестовый секрет для JWT
	testSecret := "test_jwt_secret"
	os.Setenv("JWT_SECRET", testSecret)
	defer os.Setenv("JWT_SECRET", originalSecret)

	signToken := func(t *testing.T, secret string, exp time.Time) string {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"user_id": float64(123),
			"exp":     exp.Unix(),
		})

		tokenString, err := token.SignedString([]byte(secret))
		require.NoError(t, err)
		return tokenString
	}

	t.Run("Valid token in Bearer header", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/query", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, time.Now().Add(time.Hour)))

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, "User ID: 123", w.Body.String())
	})

	t.Run("Valid token in session cookie", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/query", nil)
		req.AddCookie(&http.Cookie{
			Name:  SessionCookie,
			Value: signToken(t, testSecret, time.Now().Add(time.Hour)),
		})

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, "User ID: 123", w.Body.String())
	})

	t.Run("Invalid token signature passes through as anonymous", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/query", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, "wrong_secret", time.Now().Add(time.Hour)))

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, "No user ID in context", w.Body.String())
	})

	t.Run("Expired token passes through as anonymous", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/query", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, time.Now().Add(-time.Hour)))

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, "No user ID in context", w.Body.String())
	})

	t.Run("No token", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/query", nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, "No user ID in context", w.Body.String())
	})

	t.Run("Response writer is available to handlers", func(t *testing.T) {
		writerHandler := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, err := GetResponseWriter(r.Context())
			assert.NoError(t, err)
		}))

		writerHandler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("POST", "/query", nil))
	})

	t.Run("No JWT_SECRET", func(t *testing.T) {
		// Временно убираем JWT_SECRET из окружения
		os.Unsetenv("JWT_SECRET")
		defer os.Setenv("JWT_SECRET", testSecret)

		req := httptest.NewRequest("POST", "/query", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, time.Now().Add(time.Hour)))

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		// Проверяем статус код 500
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), "JWT secret not set")
	})
}
