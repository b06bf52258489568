package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/VitaminP8/goddit/graph/model"
	"github.com/VitaminP8/goddit/internal/apperrors"
	"github.com/VitaminP8/goddit/internal/auth"
	"github.com/VitaminP8/goddit/internal/vote"
)

type VoteMemoryStorage struct {
	mu    sync.Mutex
	posts *PostMemoryStorage
	votes map[string]int // ключ "userID:postID" -> значение голоса
}

func NewVoteMemoryStorage(posts *PostMemoryStorage) *VoteMemoryStorage {
	return &VoteMemoryStorage{
		posts: posts,
		votes: make(map[string]int),
	}
}

func voteKey(userID uint, postID string) string {
	return fmt.Sprintf("%d:%s", userID, postID)
}

// ApplyVote — in-memory аналог транзакции: все мутации голосов сериализуются
// одним мьютексом, поэтому параллельные голоса не теряют обновлений.
func (s *VoteMemoryStorage) ApplyVote(ctx context.Context, postID string, value int) (*model.Post, error) {
	if value != vote.Up && value != vote.Down {
		return nil, fmt.Errorf("invalid vote value: %d", value)
	}

	userID, err := auth.GetUserIDFromContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrUnauthenticated, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.posts.exists(postID) {
		// голос по несуществующему посту не должен оставить висячую запись
		return nil, fmt.Errorf("post %s: %w", postID, apperrors.ErrNotFound)
	}

	key := voteKey(userID, postID)
	delta := value

	existing, voted := s.votes[key]
	switch {
	case !voted:
		s.votes[key] = value
	case existing == value:
		return nil, fmt.Errorf("user %d already voted on post %s: %w", userID, postID, apperrors.ErrDuplicateVote)
	default:
		s.votes[key] = value
		delta = 2 * value
	}

	p, err := s.posts.addPoints(postID, delta)
	if err != nil {
		// пост исчез между проверкой и инкрементом — откатываем запись голоса
		if !voted {
			delete(s.votes, key)
		} else {
			s.votes[key] = existing
		}
		return nil, err
	}

	return p, nil
}

func (s *VoteMemoryStorage) VotesForPosts(postIDs []string, userID uint) (map[string]int, error) {
	result := make(map[string]int, len(postIDs))
	if userID == 0 {
		return result, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, postID := range postIDs {
		if v, ok := s.votes[voteKey(userID, postID)]; ok {
			result[postID] = v
		}
	}

	return result, nil
}
