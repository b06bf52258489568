package memory

import (
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/VitaminP8/goddit/internal/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserMemoryStorage_RegisterUser(t *testing.T) {
	storage := NewUserMemoryStorage()

	t.Run("Successful user registration", func(t *testing.T) {
		username := "testuser"
		email := "test@example.com"
		password := "password123"

		user, err := storage.RegisterUser(username, email, password)
		require.NoError(t, err)
		assert.NotEmpty(t, user.ID)
		assert.Equal(t, username, user.Username)
		assert.Equal(t, email, user.Email)
	})

	t.Run("Register user with duplicate username", func(t *testing.T) {
		username := "duplicateuser"
		email := "duplicate@example.com"
		password := "password123"

		// Первая регистрация должна быть успешной
		_, err := storage.RegisterUser(username, email, password)
		require.NoError(t, err)

		// Вторая регистрация с тем же именем пользователя должна вернуть ошибку
		_, err = storage.RegisterUser(username, "another@example.com", "anotherpassword")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "already exists")
	})

	t.Run("Register user with duplicate email", func(t *testing.T) {
		_, err := storage.RegisterUser("uniqueuser", "shared@example.com", "password123")
		require.NoError(t, err)

		_, err = storage.RegisterUser("otheruser", "shared@example.com", "password123")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "already exists")
	})
}

func TestUserMemoryStorage_LoginUser(t *testing.T) {
	// Устанавливаем переменную окружения JWT_SECRET перед тестами
	originalJWTSecret := os.Getenv("JWT_SECRET")
	err := os.Setenv("JWT_SECRET", "test_secret_key_for_jwt")
	require.NoError(t, err)
	defer os.Setenv("JWT_SECRET", originalJWTSecret)

	t.Run("Successful login by username", func(t *testing.T) {
		storage := NewUserMemoryStorage()

		_, err := storage.RegisterUser("loginuser", "login@example.com", "loginpassword123")
		require.NoError(t, err)

		user, token, err := storage.LoginUser("loginuser", "loginpassword123")
		require.NoError(t, err)
		require.NotNil(t, user)
		assert.Equal(t, "loginuser", user.Username)

		// JWT токен состоит из трех частей, разделенных двумя точками
		assert.Len(t, strings.Split(token, "."), 3)
	})

	t.Run("Successful login by email", func(t *testing.T) {
		storage := NewUserMemoryStorage()

		_, err := storage.RegisterUser("emailuser", "email@example.com", "loginpassword123")
		require.NoError(t, err)

		user, token, err := storage.LoginUser("email@example.com", "loginpassword123")
		require.NoError(t, err)
		require.NotNil(t, user)
		assert.Equal(t, "emailuser", user.Username)
		assert.NotEmpty(t, token)
	})

	t.Run("Login with incorrect password", func(t *testing.T) {
		storage := NewUserMemoryStorage()

		_, err := storage.RegisterUser("wrongpassuser", "wrongpass@example.com", "correctpassword123")
		require.NoError(t, err)

		user, token, err := storage.LoginUser("wrongpassuser", "wrongpassword")
		assert.Error(t, err)
		assert.Nil(t, user)
		assert.Empty(t, token)
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})

	t.Run("Login with non-existent user", func(t *testing.T) {
		storage := NewUserMemoryStorage()

		user, token, err := storage.LoginUser("nonexistentuser", "anypassword")
		assert.Error(t, err)
		assert.Nil(t, user)
		assert.Empty(t, token)
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})
}

func TestUserMemoryStorage_GetUsersByIds(t *testing.T) {
	storage := NewUserMemoryStorage()

	first, err := storage.RegisterUser("firstuser", "first@example.com", "password123")
	require.NoError(t, err)
	second, err := storage.RegisterUser("seconduser", "second@example.com", "password123")
	require.NoError(t, err)

	t.Run("Batch lookup returns found users", func(t *testing.T) {
		users, err := storage.GetUsersByIds([]string{first.ID, second.ID, "999"})
		require.NoError(t, err)
		assert.Len(t, users, 2)
		assert.Equal(t, "firstuser", users[first.ID].Username)
		assert.Equal(t, "seconduser", users[second.ID].Username)
	})

	t.Run("Empty id list", func(t *testing.T) {
		users, err := storage.GetUsersByIds(nil)
		require.NoError(t, err)
		assert.Empty(t, users)
	})
}

func TestUserMemoryStorage_GetUserByEmail(t *testing.T) {
	storage := NewUserMemoryStorage()

	registered, err := storage.RegisterUser("mailuser", "mail@example.com", "password123")
	require.NoError(t, err)

	t.Run("Existing email", func(t *testing.T) {
		user, err := storage.GetUserByEmail("mail@example.com")
		require.NoError(t, err)
		assert.Equal(t, registered.ID, user.ID)
	})

	t.Run("Unknown email", func(t *testing.T) {
		user, err := storage.GetUserByEmail("unknown@example.com")
		assert.Error(t, err)
		assert.Nil(t, user)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}

func TestUserMemoryStorage_UpdatePassword(t *testing.T) {
	originalJWTSecret := os.Getenv("JWT_SECRET")
	err := os.Setenv("JWT_SECRET", "test_secret_key_for_jwt")
	require.NoError(t, err)
	defer os.Setenv("JWT_SECRET", originalJWTSecret)

	t.Run("Password change allows login with the new password", func(t *testing.T) {
		storage := NewUserMemoryStorage()

		_, err := storage.RegisterUser("changepass", "changepass@example.com", "oldpassword")
		require.NoError(t, err)

		err = storage.UpdatePassword(1, "newpassword")
		assert.NoError(t, err)

		// старый пароль больше не подходит
		_, _, err = storage.LoginUser("changepass", "oldpassword")
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

		// новый — подходит
		user, _, err := storage.LoginUser("changepass", "newpassword")
		assert.NoError(t, err)
		require.NotNil(t, user)
		assert.Equal(t, "changepass", user.Username)
	})

	t.Run("Password change for not exist user", func(t *testing.T) {
		storage := NewUserMemoryStorage()

		err := storage.UpdatePassword(999, "newpassword")
		assert.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}

func TestUserMemoryStorage_ConcurrentRegister(t *testing.T) {
	storage := NewUserMemoryStorage()

	const goroutines = 20

	var wg sync.WaitGroup
	wg.Add(goroutines)

	for i := 0; i < goroutines; i++ {
		go func(n int) {
			defer wg.Done()
			_, err := storage.RegisterUser(
				"user"+string(rune('a'+n)),
				"user"+string(rune('a'+n))+"@example.com",
				"password123",
			)
			assert.NoError(t, err)
		}(i)
	}

	wg.Wait()

	users, err := storage.GetUsersByIds([]string{"1", "2", "3"})
	require.NoError(t, err)
	assert.Len(t, users, 3)
}
