package mocks

import (
	"context"
	"fmt"
	"sync"

	"github.com/VitaminP8/goddit/internal/apperrors"
)

type MockTokenStorage struct {
	mu     sync.Mutex
	tokens map[uint]string // userID -> сырой токен (без хеширования — это мок)
	nextId int
}

func NewMockTokenStorage() *MockTokenStorage {
	return &MockTokenStorage{
		tokens: make(map[uint]string),
		nextId: 1,
	}
}

func (m *MockTokenStorage) Create(ctx context.Context, userID uint) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	raw := fmt.Sprintf("reset-token-%d", m.nextId)
	m.nextId++
	m.tokens[userID] = raw
	return raw, nil
}

func (m *MockTokenStorage) Verify(ctx context.Context, userID uint, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.tokens[userID]
	if !ok || stored != token {
		return fmt.Errorf("reset token mismatch for user %d: %w", userID, apperrors.ErrInvalidToken)
	}
	return nil
}

func (m *MockTokenStorage) Delete(ctx context.Context, userID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.tokens, userID)
	return nil
}
