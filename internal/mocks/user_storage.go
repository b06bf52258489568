package mocks

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/VitaminP8/goddit/graph/model"
	"github.com/VitaminP8/goddit/internal/apperrors"
)

type MockUserStorage struct {
	mu        sync.Mutex
	users     map[string]*model.User
	passwords map[string]string // без хеширования — это мок
	nextId    int
}

func NewMockUserStorage() *MockUserStorage {
	return &MockUserStorage{
		users:     make(map[string]*model.User),
		passwords: make(map[string]string),
		nextId:    1,
	}
}

func (m *MockUserStorage) RegisterUser(username, email, password string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Username == username || u.Email == email {
			return nil, fmt.Errorf("user with username %s or email %s already exists", username, email)
		}
	}

	id := strconv.Itoa(m.nextId)
	m.nextId++

	u := &model.User{ID: id, Username: username, Email: email}
	m.users[id] = u
	m.passwords[id] = password
	return u, nil
}

func (m *MockUserStorage) LoginUser(usernameOrEmail, password string) (*model.User, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Username == usernameOrEmail || u.Email == usernameOrEmail {
			if m.passwords[u.ID] != password {
				return nil, "", fmt.Errorf("%w: wrong password", apperrors.ErrInvalidCredentials)
			}
			return u, "mock-session-token", nil
		}
	}

	return nil, "", fmt.Errorf("%w: user %s not found", apperrors.ErrInvalidCredentials, usernameOrEmail)
}

func (m *MockUserStorage) GetUserById(id string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, apperrors.ErrNotFound)
	}
	return u, nil
}

func (m *MockUserStorage) GetUsersByIds(ids []string) (map[string]*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := make(map[string]*model.User, len(ids))
	for _, id := range ids {
		if u, ok := m.users[id]; ok {
			result[id] = u
		}
	}
	return result, nil
}

func (m *MockUserStorage) GetUserByEmail(email string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, fmt.Errorf("user with email %s: %w", email, apperrors.ErrNotFound)
}

func (m *MockUserStorage) UpdatePassword(userID uint, newPassword string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := strconv.Itoa(int(userID))
	if _, ok := m.users[id]; !ok {
		return fmt.Errorf("user %d: %w", userID, apperrors.ErrNotFound)
	}
	m.passwords[id] = newPassword
	return nil
}

// Password возвращает сохраненный пароль (для проверок в тестах)
func (m *MockUserStorage) Password(userID uint) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.passwords[strconv.Itoa(int(userID))]
}
