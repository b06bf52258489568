package memory

import (
	"context"
	"testing"
	"time"

	"github.com/VitaminP8/goddit/internal/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenMemoryStorage(t *testing.T) {
	ctx := context.Background()

	t.Run("Created token passes verification", func(t *testing.T) {
		storage := NewTokenMemoryStorage()

		token, err := storage.Create(ctx, 1)
		require.NoError(t, err)
		assert.NotEmpty(t, token)

		err = storage.Verify(ctx, 1, token)
		assert.NoError(t, err)
	})

	t.Run("Wrong token is rejected", func(t *testing.T) {
		storage := NewTokenMemoryStorage()

		_, err := storage.Create(ctx, 1)
		require.NoError(t, err)

		err = storage.Verify(ctx, 1, "not-the-token")
		assert.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
	})

	t.Run("User without token is rejected", func(t *testing.T) {
		storage := NewTokenMemoryStorage()

		err := storage.Verify(ctx, 42, "anything")
		assert.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
	})

	t.Run("New token invalidates the previous one", func(t *testing.T) {
		storage := NewTokenMemoryStorage()

		first, err := storage.Create(ctx, 1)
		require.NoError(t, err)

		second, err := storage.Create(ctx, 1)
		require.NoError(t, err)

		// старый токен больше не принимается
		err = storage.Verify(ctx, 1, first)
		assert.ErrorIs(t, err, apperrors.ErrInvalidToken)

		err = storage.Verify(ctx, 1, second)
		assert.NoError(t, err)
	})

	t.Run("Expired token is rejected and removed", func(t *testing.T) {
		storage := NewTokenMemoryStorage()

		token, err := storage.Create(ctx, 1)
		require.NoError(t, err)

		// сдвигаем срок жизни в прошлое
		storage.mu.Lock()
		entry := storage.tokens[1]
		entry.expiresAt = time.Now().Add(-time.Minute)
		storage.tokens[1] = entry
		storage.mu.Unlock()

		err = storage.Verify(ctx, 1, token)
		assert.ErrorIs(t, err, apperrors.ErrInvalidToken)

		// просроченная запись удалена — повторная проверка тоже падает
		storage.mu.Lock()
		_, exists := storage.tokens[1]
		storage.mu.Unlock()
		assert.False(t, exists)
	})

	t.Run("Delete removes the token", func(t *testing.T) {
		storage := NewTokenMemoryStorage()

		token, err := storage.Create(ctx, 1)
		require.NoError(t, err)

		err = storage.Delete(ctx, 1)
		assert.NoError(t, err)

		err = storage.Verify(ctx, 1, token)
		assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
	})

	t.Run("Tokens of different users are independent", func(t *testing.T) {
		storage := NewTokenMemoryStorage()

		first, err := storage.Create(ctx, 1)
		require.NoError(t, err)
		second, err := storage.Create(ctx, 2)
		require.NoError(t, err)

		assert.NoError(t, storage.Verify(ctx, 1, first))
		assert.NoError(t, storage.Verify(ctx, 2, second))

		// чужой токен не подходит
		assert.ErrorIs(t, storage.Verify(ctx, 1, second), apperrors.ErrInvalidToken)
	})
}
