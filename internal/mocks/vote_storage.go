package mocks

import (
	"context"
	"fmt"
	"sync"

	"github.com/VitaminP8/goddit/graph/model"
	"github.com/VitaminP8/goddit/internal/apperrors"
	"github.com/VitaminP8/goddit/internal/auth"
	"github.com/VitaminP8/goddit/internal/vote"
)

type MockVoteStorage struct {
	mu    sync.Mutex
	posts *MockPostStorage
	votes map[string]int // "userID:postID" -> значение

	// ApplyErr подставляет сбой хранилища в ApplyVote (для тестов 500-ветки)
	ApplyErr error
}

func NewMockVoteStorage(posts *MockPostStorage) *MockVoteStorage {
	return &MockVoteStorage{
		posts: posts,
		votes: make(map[string]int),
	}
}

func (m *MockVoteStorage) ApplyVote(ctx context.Context, postID string, value int) (*model.Post, error) {
	if m.ApplyErr != nil {
		return nil, m.ApplyErr
	}

	if value != vote.Up && value != vote.Down {
		return nil, fmt.Errorf("invalid vote value: %d", value)
	}

	userID, err := auth.GetUserIDFromContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrUnauthenticated, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	p, err := m.posts.GetPostById(postID)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("%d:%s", userID, postID)
	delta := value

	existing, voted := m.votes[key]
	switch {
	case !voted:
		m.votes[key] = value
	case existing == value:
		return nil, fmt.Errorf("already voted: %w", apperrors.ErrDuplicateVote)
	default:
		m.votes[key] = value
		delta = 2 * value
	}

	p.Points += delta
	return p, nil
}

func (m *MockVoteStorage) VotesForPosts(postIDs []string, userID uint) (map[string]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := make(map[string]int, len(postIDs))
	if userID == 0 {
		return result, nil
	}

	for _, postID := range postIDs {
		if v, ok := m.votes[fmt.Sprintf("%d:%s", userID, postID)]; ok {
			result[postID] = v
		}
	}
	return result, nil
}
