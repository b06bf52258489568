package memory

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/VitaminP8/goddit/graph/model"
	"github.com/VitaminP8/goddit/internal/apperrors"
	"github.com/VitaminP8/goddit/internal/auth"

	"golang.org/x/crypto/bcrypt"
)

type UserMemoryStorage struct {
	mu        sync.Mutex
	users     map[string]*model.User // ключ - id
	passwords map[string]string      // id -> bcrypt-хеш
	nextId    int
}

func NewUserMemoryStorage() *UserMemoryStorage {
	return &UserMemoryStorage{
		users:     make(map[string]*model.User),
		passwords: make(map[string]string),
		nextId:    1,
	}
}

func copyUser(u *model.User) *model.User {
	c := *u
	return &c
}

func (s *UserMemoryStorage) RegisterUser(username, email, password string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == username || u.Email == email {
			return nil, fmt.Errorf("user with username %s or email %s already exists", username, email)
		}
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	id := strconv.Itoa(s.nextId)
	s.nextId++

	user := &model.User{
		ID:       id,
		Username: username,
		Email:    email,
	}

	s.users[id] = user
	s.passwords[id] = string(hashedPassword)

	return copyUser(user), nil
}

func (s *UserMemoryStorage) LoginUser(usernameOrEmail, password string) (*model.User, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var user *model.User
	for _, u := range s.users {
		if u.Username == usernameOrEmail || u.Email == usernameOrEmail {
			user = u
			break
		}
	}
	if user == nil {
		return nil, "", fmt.Errorf("%w: user %s not found", apperrors.ErrInvalidCredentials, usernameOrEmail)
	}

	err := bcrypt.CompareHashAndPassword([]byte(s.passwords[user.ID]), []byte(password))
	if err != nil {
		return nil, "", fmt.Errorf("%w: wrong password", apperrors.ErrInvalidCredentials)
	}

	userID, err := strconv.Atoi(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("invalid user id %s: %w", user.ID, err)
	}

	token, err := auth.IssueToken(uint(userID))
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue session token: %w", err)
	}

	return copyUser(user), token, nil
}

func (s *UserMemoryStorage) GetUserById(id string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, exists := s.users[id]
	if !exists {
		return nil, fmt.Errorf("user %s: %w", id, apperrors.ErrNotFound)
	}

	return copyUser(user), nil
}

func (s *UserMemoryStorage) GetUsersByIds(ids []string) (map[string]*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make(map[string]*model.User, len(ids))
	for _, id := range ids {
		if u, ok := s.users[id]; ok {
			result[id] = copyUser(u)
		}
	}

	return result, nil
}

func (s *UserMemoryStorage) GetUserByEmail(email string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == email {
			return copyUser(u), nil
		}
	}

	return nil, fmt.Errorf("user with email %s: %w", email, apperrors.ErrNotFound)
}

func (s *UserMemoryStorage) UpdatePassword(userID uint, newPassword string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := strconv.Itoa(int(userID))
	if _, exists := s.users[id]; !exists {
		return fmt.Errorf("user %d: %w", userID, apperrors.ErrNotFound)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	s.passwords[id] = string(hashedPassword)
	return nil
}
