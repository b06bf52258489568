package memory

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

type PostMemoryStorage struct {
	mu     sync.Mutex
	posts  map[string]*model.Post
	nextId int // Для хранения актуального ID (можно было использовать UUID)
}

func NewPostMemoryStorage() *PostMemoryStorage {
	return &PostMemoryStorage{
		posts:  make(map[string]*model.Post),
		nextId: 1,
	}
}

func copyPost(p *model.Post) *model.Post {
	c := *p
	return &c
}

func (s *PostMemoryStorage) CreatePost(ctx context.Context, title, text string) (*model.Post, error) {
	// Контекст — это read-only структура (при каждом запросе он не обновляется, а создается заново)(поэтому над мьютексом)
	userID, err := auth.GetUserIDFromContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrUnauthenticated, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := strconv.Itoa(s.nextId)
	s.nextId++

	now := time.Now()
	p := &model.Post{
		ID:        id,
		Title:     title,
		Text:      text,
		Points:    0,
		UserID:    fmt.Sprint(userID),
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.posts[id] = p
	return copyPost(p), nil
}

func (s *PostMemoryStorage) GetPostById(id string) (*model.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, exists := s.posts[id]
	if !exists {
		return nil, fmt.Errorf("post %s: %w", id, apperrors.ErrNotFound)
	}

	return copyPost(p), nil
}

// sortedPosts возвращает все посты, упорядоченные по (CreatedAt DESC, id DESC).
// Числовой id — вторичный ключ на случай совпадающих времен создания.
func (s *PostMemoryStorage) sortedPosts() []*model.Post {
	all := make([]*model.Post, 0, len(s.posts))
	for _, p := range s.posts {
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

	return all
}

func (s *PostMemoryStorage) ListPosts(limit int, cursor *time.Time) (*model.PaginatedPosts, error) {
	realLimit := limit
	if realLimit > post.MaxPageSize {
		realLimit = post.MaxPageSize
	}
	if realLimit < 1 {
		realLimit = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	all := s.sortedPosts()
	totalCount := len(all)

	result := &model.PaginatedPosts{
		TotalCount:     totalCount,
		PaginatedPosts: make([]*model.Post, 0, realLimit),
	}

	for _, p := range all {
		if cursor != nil && !p.CreatedAt.Before(*cursor) {
			continue
		}
		result.PaginatedPosts = append(result.PaginatedPosts, copyPost(p))
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
		result.HasMore = len(result.PaginatedPosts) < totalCount
	} else {
		oldest := all[len(all)-1]
		result.HasMore = oldest.ID != last.ID
	}

	return result, nil
}

func (s *PostMemoryStorage) UpdatePost(ctx context.Context, id, title, text string) (*model.Post, error) {
	userID, err := auth.GetUserIDFromContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrUnauthenticated, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, exists := s.posts[id]
	if !exists {
		return nil, fmt.Errorf("post %s: %w", id, apperrors.ErrNotFound)
	}

	if p.UserID != fmt.Sprint(userID) {
		return nil, fmt.Errorf("%w: you are not the author of this post", apperrors.ErrForbidden)
	}

	p.Title = title
	p.Text = text
	p.UpdatedAt = time.Now()

	return copyPost(p), nil
}

func (s *PostMemoryStorage) DeletePostById(ctx context.Context, id string) error {
	userID, err := auth.GetUserIDFromContext(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrUnauthenticated, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, exists := s.posts[id]
	if !exists {
		return fmt.Errorf("post %s: %w", id, apperrors.ErrNotFound)
	}

	if p.UserID != fmt.Sprint(userID) {
		return fmt.Errorf("%w: you are not the author of this post", apperrors.ErrForbidden)
	}

	delete(s.posts, id)
	return nil
}

// exists — для хранилища голосов (тот же пакет)
func (s *PostMemoryStorage) exists(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.posts[id]
	return ok
}

// addPoints атомарно (под мьютексом хранилища) сдвигает очки поста
func (s *PostMemoryStorage) addPoints(id string, delta int) (*model.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, exists := s.posts[id]
	if !exists {
		return nil, fmt.Errorf("post %s: %w", id, apperrors.ErrNotFound)
	}

	p.Points += delta
	p.UpdatedAt = time.Now()

	return copyPost(p), nil
}
