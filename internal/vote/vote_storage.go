package vote

import (
	"context"

	"github.com/VitaminP8/goddit/graph/model"
)

// Значения голоса
const (
	Up   = 1
	Down = -1
)

type VoteStorage interface {
	// ApplyVote применяет голос пользователя из контекста к посту в одной
	// транзакции: новый голос создает запись, противоположный перещелкивает ее,
	// повторный в ту же сторону отклоняется (apperrors.ErrDuplicateVote).
	// Возвращает пост с обновленным числом очков.
	ApplyVote(ctx context.Context, postID string, value int) (*model.Post, error)
	// VotesForPosts — батч-выборка голосов пользователя (postID -> value).
	// Постов без голоса в результате нет.
	VotesForPosts(postIDs []string, userID uint) (map[string]int, error)
}
