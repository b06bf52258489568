package postgres

import (
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/VitaminP8/goddit/internal/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserPostgresStorage_RegisterUser(t *testing.T) {
	storage := NewUserPostgresStorage()

	t.Run("Successful user registration", func(t *testing.T) {
		// Настраиваем тестовую БД
		oldDB := setupTestDB(t)
		defer teardownTestDB(oldDB)

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
		// Настраиваем тестовую БД
		oldDB := setupTestDB(t)
		defer teardownTestDB(oldDB)

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
		// Настраиваем тестовую БД
		oldDB := setupTestDB(t)
		defer teardownTestDB(oldDB)

		_, err := storage.RegisterUser("firstuser", "shared@example.com", "password123")
		require.NoError(t, err)

		_, err = storage.RegisterUser("seconduser", "shared@example.com", "password123")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "already exists")
	})
}

func TestUserPostgresStorage_LoginUser(t *testing.T) {
	storage := NewUserPostgresStorage()

	// Устанавливаем переменную окружения JWT_SECRET перед тестами
	originalJWTSecret := os.Getenv("JWT_SECRET")
	err := os.Setenv("JWT_SECRET", "test_secret_key_for_jwt")
	require.NoError(t, err)

	// Восстанавливаем оригинальное значение после тестов
	defer os.Setenv("JWT_SECRET", originalJWTSecret)

	t.Run("Successful login by username", func(t *testing.T) {
		// Настраиваем тестовую БД
		oldDB := setupTestDB(t)
		defer teardownTestDB(oldDB)

		username := "loginuser"
		email := "login@example.com"
		password := "loginpassword123"

		_, err = storage.RegisterUser(username, email, password)
		require.NoError(t, err)

		user, token, err := storage.LoginUser(username, password)
		require.NoError(t, err)
		require.NotNil(t, user)
		assert.Equal(t, username, user.Username)
		assert.NotEmpty(t, token)

		// JWT токен должен состоять из трех частей, разделенных двумя точками
		assert.Len(t, strings.Split(token, "."), 3)
	})

	t.Run("Successful login by email", func(t *testing.T) {
		oldDB := setupTestDB(t)
		defer teardownTestDB(oldDB)

		username := "emailloginuser"
		email := "emaillogin@example.com"
		password := "loginpassword123"

		_, err = storage.RegisterUser(username, email, password)
		require.NoError(t, err)

		user, token, err := storage.LoginUser(email, password)
		require.NoError(t, err)
		require.NotNil(t, user)
		assert.Equal(t, email, user.Email)
		assert.NotEmpty(t, token)
	})

	t.Run("Login with incorrect password", func(t *testing.T) {
		// Настраиваем тестовую БД
		oldDB := setupTestDB(t)
		defer teardownTestDB(oldDB)

		username := "wrongpassuser"
		email := "wrongpass@example.com"
		password := "correctpassword123"

		_, err = storage.RegisterUser(username, email, password)
		require.NoError(t, err)

		user, token, err := storage.LoginUser(username, "wrongpassword")
		assert.Error(t, err)
		assert.Nil(t, user)
		assert.Empty(t, token)
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})

	t.Run("Login with non-existent user", func(t *testing.T) {
		// Настраиваем тестовую БД
		oldDB := setupTestDB(t)
		defer teardownTestDB(oldDB)

		user, token, err := storage.LoginUser("nonexistentuser", "anypassword")
		assert.Error(t, err)
		assert.Nil(t, user)
		assert.Empty(t, token)
		// и для неизвестного пользователя, и для неверного пароля — одна ошибка
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})
}

func TestUserPostgresStorage_GetUsersByIds(t *testing.T) {
	storage := NewUserPostgresStorage()

	t.Run("Batch lookup returns found users", func(t *testing.T) {
		oldDB := setupTestDB(t)
		defer teardownTestDB(oldDB)

		first, err := storage.RegisterUser("firstuser", "first@example.com", "password123")
		require.NoError(t, err)
		second, err := storage.RegisterUser("seconduser", "second@example.com", "password123")
		require.NoError(t, err)

		users, err := storage.GetUsersByIds([]string{first.ID, second.ID, "999"})
		assert.NoError(t, err)
		assert.Len(t, users, 2)
		assert.Equal(t, "firstuser", users[first.ID].Username)
		assert.Equal(t, "seconduser", users[second.ID].Username)

		// несуществующий id просто отсутствует в результате
		_, ok := users["999"]
		assert.False(t, ok)
	})

	t.Run("Empty id list", func(t *testing.T) {
		oldDB := setupTestDB(t)
		defer teardownTestDB(oldDB)

		users, err := storage.GetUsersByIds(nil)
		assert.NoError(t, err)
		assert.Empty(t, users)
	})
}

func TestUserPostgresStorage_GetUserByEmail(t *testing.T) {
	storage := NewUserPostgresStorage()

	t.Run("Existing email", func(t *testing.T) {
		oldDB := setupTestDB(t)
		defer teardownTestDB(oldDB)

		registered, err := storage.RegisterUser("mailuser", "mail@example.com", "password123")
		require.NoError(t, err)

		user, err := storage.GetUserByEmail("mail@example.com")
		assert.NoError(t, err)
		require.NotNil(t, user)
		assert.Equal(t, registered.ID, user.ID)
	})

	t.Run("Unknown email", func(t *testing.T) {
		oldDB := setupTestDB(t)
		defer teardownTestDB(oldDB)

		user, err := storage.GetUserByEmail("unknown@example.com")
		assert.Error(t, err)
		assert.Nil(t, user)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}

func TestUserPostgresStorage_UpdatePassword(t *testing.T) {
	storage := NewUserPostgresStorage()

	originalJWTSecret := os.Getenv("JWT_SECRET")
	err := os.Setenv("JWT_SECRET", "test_secret_key_for_jwt")
	require.NoError(t, err)
	defer os.Setenv("JWT_SECRET", originalJWTSecret)

	t.Run("Password change allows login with the new password", func(t *testing.T) {
		oldDB := setupTestDB(t)
		defer teardownTestDB(oldDB)

		registered, err := storage.RegisterUser("changepass", "changepass@example.com", "oldpassword")
		require.NoError(t, err)

		var userID uint
		_, err = fmt.Sscan(registered.ID, &userID)
		require.NoError(t, err)

		err = storage.UpdatePassword(userID, "newpassword")
		assert.NoError(t, err)

		// старый пароль больше не подходит
		_, _, err = storage.LoginUser("changepass", "oldpassword")
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

		// новый — подходит
		user, _, err := storage.LoginUser("changepass", "newpassword")
		assert.NoError(t, err)
		require.NotNil(t, user)
		assert.Equal(t, registered.ID, user.ID)
	})

	t.Run("Password change for not exist user", func(t *testing.T) {
		oldDB := setupTestDB(t)
		defer teardownTestDB(oldDB)

		err := storage.UpdatePassword(999, "newpassword")
		assert.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}
