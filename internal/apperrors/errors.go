package apperrors

import "errors"

// Сигнальные ошибки доменного слоя. Хранилища оборачивают их через %w,
// резолверы сопоставляют через errors.Is и переводят в код ответа мутации.
var (
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not found")
	ErrDuplicateVote      = errors.New("duplicate vote")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// CodeOf переводит доменную ошибку в числовой код ответа мутации.
// Неизвестные ошибки считаются сбоем хранилища и наружу не раскрываются.
func CodeOf(err error) int {
	switch {
	case err == nil:
		return 200
	case errors.Is(err, ErrUnauthenticated):
		return 401
	case errors.Is(err, ErrInvalidCredentials):
		return 401
	case errors.Is(err, ErrForbidden):
		return 403
	case errors.Is(err, ErrNotFound):
		return 404
	case errors.Is(err, ErrDuplicateVote):
		return 409
	case errors.Is(err, ErrInvalidToken):
		return 400
	default:
		return 500
	}
}

// IsInternal сообщает, что ошибка не входит в доменную таксономию
// и ее текст нельзя показывать клиенту.
func IsInternal(err error) bool {
	return err != nil && CodeOf(err) == 500
}
