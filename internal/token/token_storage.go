package token

import "context"

// TokenStorage — хранилище одноразовых токенов сброса пароля.
// На пользователя активен максимум один токен: Create замещает предыдущий.
type TokenStorage interface {
	// Create генерирует токен, сохраняет его хеш и возвращает сырое значение
	// (оно уходит в письмо и больше нигде не хранится).
	Create(ctx context.Context, userID uint) (string, error)
	// Verify сверяет сырой токен с сохраненным хешем.
	// Несовпадение, отсутствие или истечение — apperrors.ErrInvalidToken.
	Verify(ctx context.Context, userID uint, token string) error
	Delete(ctx context.Context, userID uint) error
}
