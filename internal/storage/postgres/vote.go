package postgres

import (
	"context"
	"fmt"

	"github.com/VitaminP8/goddit/graph/model"
	"github.com/VitaminP8/goddit/internal/apperrors"
	"github.com/VitaminP8/goddit/internal/auth"
	"github.com/VitaminP8/goddit/internal/vote"
	"github.com/VitaminP8/goddit/models"
	"github.com/jinzhu/gorm"
)

type VotePostgresStorage struct{}

func NewVotePostgresStorage() *VotePostgresStorage {
	return &VotePostgresStorage{}
}

// ApplyVote выполняет голосование в одной транзакции: загрузка поста,
// создание/перещелкивание записи голоса и атомарный инкремент очков.
// Либо фиксируется все, либо ничего — частичное состояние наружу не видно.
func (s *VotePostgresStorage) ApplyVote(ctx context.Context, postID string, value int) (*model.Post, error) {
	if value != vote.Up && value != vote.Down {
		return nil, fmt.Errorf("invalid vote value: %d", value)
	}

	userID, err := auth.GetUserIDFromContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrUnauthenticated, err)
	}

	tx := DB.Begin()
	if tx.Error != nil {
		return nil, fmt.Errorf("could not begin transaction: %w", tx.Error)
	}

	var p models.Post
	if err := tx.First(&p, postID).Error; err != nil {
		tx.Rollback()
		if gorm.IsRecordNotFoundError(err) {
			// голос по несуществующему посту не должен оставить висячую запись
			return nil, fmt.Errorf("post %s: %w", postID, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("could not get post by id: %w", err)
	}

	delta := value

	var existing models.Upvote
	err = tx.Where("user_id = ? AND post_id = ?", userID, p.ID).First(&existing).Error
	switch {
	case gorm.IsRecordNotFoundError(err):
		// первый голос этого пользователя за пост.
		// Составной первичный ключ отсечет дубль при гонке двух запросов
		newVote := models.Upvote{UserID: userID, PostID: p.ID, Value: value}
		if err := tx.Create(&newVote).Error; err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("could not create vote: %w", err)
		}

	case err != nil:
		tx.Rollback()
		return nil, fmt.Errorf("could not get existing vote: %w", err)

	case existing.Value == value:
		// повторный голос в ту же сторону — отклоняем без мутаций
		tx.Rollback()
		return nil, fmt.Errorf("user %d already voted on post %d: %w", userID, p.ID, apperrors.ErrDuplicateVote)

	default:
		// смена направления: дельта 2*value гасит прежний вклад и вносит новый
		err := tx.Model(&models.Upvote{}).
			Where("user_id = ? AND post_id = ?", userID, p.ID).
			Update("value", value).Error
		if err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("could not update vote: %w", err)
		}
		delta = 2 * value
	}

	// атомарный инкремент на стороне БД — параллельные голоса разных
	// пользователей не теряют обновлений (без read-modify-write в приложении)
	err = tx.Model(&models.Post{}).
		Where("id = ?", p.ID).
		UpdateColumn("points", gorm.Expr("points + ?", delta)).Error
	if err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("could not update post points: %w", err)
	}

	if err := tx.First(&p, p.ID).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("could not reload post: %w", err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("could not commit transaction: %w", err)
	}

	return toGraphPost(&p), nil
}

// VotesForPosts — батч-выборка голосов пользователя по списку постов (один запрос)
func (s *VotePostgresStorage) VotesForPosts(postIDs []string, userID uint) (map[string]int, error) {
	result := make(map[string]int, len(postIDs))
	if len(postIDs) == 0 || userID == 0 {
		return result, nil
	}

	var votes []models.Upvote
	err := DB.Where("user_id = ? AND post_id IN (?)", userID, postIDs).Find(&votes).Error
	if err != nil {
		return nil, fmt.Errorf("could not get votes: %w", err)
	}

	for _, v := range votes {
		result[fmt.Sprint(v.PostID)] = v.Value
	}

	return result, nil
}
