package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/VitaminP8/goddit/internal/apperrors"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const resetTokenTTL = time.Hour

type resetEntry struct {
	tokenHash string
	expiresAt time.Time
}

type TokenMemoryStorage struct {
	mu     sync.Mutex
	tokens map[uint]resetEntry // одна активная запись на пользователя
}

func NewTokenMemoryStorage() *TokenMemoryStorage {
	return &TokenMemoryStorage{
		tokens: make(map[uint]resetEntry),
	}
}

func (s *TokenMemoryStorage) Create(ctx context.Context, userID uint) (string, error) {
	raw := uuid.NewString()

	hash, err := bcrypt.GenerateFromPassword([]byte(raw), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash reset token: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// перезапись инвалидирует предыдущий токен пользователя
	s.tokens[userID] = resetEntry{
		tokenHash: string(hash),
		expiresAt: time.Now().Add(resetTokenTTL),
	}

	return raw, nil
}

func (s *TokenMemoryStorage) Verify(ctx context.Context, userID uint, token string) error {
	s.mu.Lock()
	entry, exists := s.tokens[userID]
	s.mu.Unlock()

	if !exists {
		return fmt.Errorf("no reset token for user %d: %w", userID, apperrors.ErrInvalidToken)
	}

	if time.Now().After(entry.expiresAt) {
		_ = s.Delete(ctx, userID)
		return fmt.Errorf("reset token for user %d expired: %w", userID, apperrors.ErrInvalidToken)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(entry.tokenHash), []byte(token)); err != nil {
		return fmt.Errorf("reset token mismatch for user %d: %w", userID, apperrors.ErrInvalidToken)
	}

	return nil
}

func (s *TokenMemoryStorage) Delete(ctx context.Context, userID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.tokens, userID)
	return nil
}
