package mocks

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/VitaminP8/goddit/graph/model"
	"github.com/VitaminP8/goddit/internal/apperrors"
	"github.com/VitaminP8/goddit/internal/auth"
	"github.com/VitaminP8/goddit/internal/post"
)

type MockPostStorage struct {
	mu     sync.Mutex
	posts  map[string]*model.Post
	nextId int

	// ListErr подставляет сбой хранилища в ListPosts (для тестов 500-ветки)
	ListErr error
}

func NewMockPostStorage() *MockPostStorage {
	return &MockPostStorage{
		posts:  make(map[string]*model.Post),
		nextId: 1,
	}
}

func (m *MockPostStorage) CreatePost(ctx context.Context, title, text string) (*model.Post, error) {
	userID, err := auth.GetUserIDFromContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrUnauthenticated, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	id := strconv.Itoa(m.nextId)
	m.nextId++

	now := time.Now()
	p := &model.Post{
		ID:        id,
		Title:     title,
		Text:      text,
		UserID:    fmt.Sprint(userID),
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.posts[id] = p
	return p, nil
}

// CreatePostAt — сидирование с заданным временем создания (для тестов пагинации)
func (m *MockPostStorage) CreatePostAt(ctx context.Context, title, text string, createdAt time.Time) (*model.Post, error) {
	p, err := m.CreatePost(ctx, title, text)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.posts[p.ID].CreatedAt = createdAt
	p.CreatedAt = createdAt
	return p, nil
}

func (m *MockPostStorage) GetPostById(id string) (*model.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.posts[id]
	if !ok {
		return nil, fmt.Errorf("post %s: %w", id, apperrors.ErrNotFound)
	}
	return p, nil
}

func (m *MockPostStorage) ListPosts(limit int, cursor *time.Time) (*model.PaginatedPosts, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}

	realLimit := limit
	if realLimit > post.MaxPageSize {
		realLimit = post.MaxPageSize
	}
	if realLimit < 1 {
		realLimit = 1
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	all := make([]*model.Post, 0, len(m.posts))
	for _, p := range m.posts {
		all = append(all, p)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			a, _ := strconv.Atoi(all[i].ID)
			b, _ := strconv.Atoi(all[j].ID)
			return a > b
		}
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	result := &model.PaginatedPosts{TotalCount: len(all)}
	for _, p := range all {
		if cursor != nil && !p.CreatedAt.Before(*cursor) {
			continue
		}
		result.PaginatedPosts = append(result.PaginatedPosts, p)
		if len(result.PaginatedPosts) == realLimit {
			break
		}
	}

	if len(result.PaginatedPosts) == 0 {
		return result, nil
	}

	last := result.PaginatedPosts[len(result.PaginatedPosts)-1]
	nextCursor := last.CreatedAt
	result.Cursor = &nextCursor

	if cursor == nil {
		result.HasMore = len(result.PaginatedPosts) < result.TotalCount
	} else {
		result.HasMore = all[len(all)-1].ID != last.ID
	}

	return result, nil
}

func (m *MockPostStorage) UpdatePost(ctx context.Context, id, title, text string) (*model.Post, error) {
	userID, err := auth.GetUserIDFromContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrUnauthenticated, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.posts[id]
	if !ok {
		return nil, fmt.Errorf("post %s: %w", id, apperrors.ErrNotFound)
	}
	if p.UserID != fmt.Sprint(userID) {
		return nil, fmt.Errorf("%w: not author", apperrors.ErrForbidden)
	}

	p.Title = title
	p.Text = text
	p.UpdatedAt = time.Now()
	return p, nil
}

func (m *MockPostStorage) DeletePostById(ctx context.Context, id string) error {
	userID, err := auth.GetUserIDFromContext(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrUnauthenticated, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.posts[id]
	if !ok {
		return fmt.Errorf("post %s: %w", id, apperrors.ErrNotFound)
	}
	if p.UserID != fmt.Sprint(userID) {
		return fmt.Errorf("%w: not author", apperrors.ErrForbidden)
	}

	delete(m.posts, id)
	return nil
}
