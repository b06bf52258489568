package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/VitaminP8/goddit/graph/model"
	"github.com/VitaminP8/goddit/internal/apperrors"
	"github.com/VitaminP8/goddit/internal/auth"
	"github.com/VitaminP8/goddit/internal/post"
	"github.com/VitaminP8/goddit/models"
	"github.com/jinzhu/gorm"
)

type PostPostgresStorage struct{}

func NewPostPostgresStorage() *PostPostgresStorage {
	return &PostPostgresStorage{}
}

func toGraphPost(p *models.Post) *model.Post {
	return &model.Post{
		ID:        fmt.Sprint(p.ID),
		Title:     p.Title,
		Text:      p.Text,
		Points:    p.Points,
		UserID:    fmt.Sprint(p.UserID),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func (s *PostPostgresStorage) CreatePost(ctx context.Context, title, text string) (*model.Post, error) {
	userID, err := auth.GetUserIDFromContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrUnauthenticated, err)
	}

	p := &models.Post{
		Title:  title,
		Text:   text,
		UserID: userID,
	}

	err = DB.Create(p).Error
	if err != nil {
		return nil, fmt.Errorf("could not create post: %w", err)
	}

	return toGraphPost(p), nil
}

func (s *PostPostgresStorage) GetPostById(id string) (*model.Post, error) {
	var p models.Post
	err := DB.First(&p, id).Error
	if err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, fmt.Errorf("post %s: %w", id, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("could not get post by id: %w", err)
	}

	return toGraphPost(&p), nil
}

// ListPosts — keyset-пагинация ленты. Порядок (created_at DESC, id DESC):
// вторичный ключ id делает порядок тотальным при совпадающих временах создания.
func (s *PostPostgresStorage) ListPosts(limit int, cursor *time.Time) (*model.PaginatedPosts, error) {
	realLimit := limit
	if realLimit > post.MaxPageSize {
		realLimit = post.MaxPageSize
	}
	if realLimit < 1 {
		realLimit = 1
	}

	// totalCount пересчитывается на каждый вызов; гонка с параллельными
	// вставками допустима (счетчик не обязан быть согласован со страницей)
	var totalCount int
	if err := DB.Model(&models.Post{}).Count(&totalCount).Error; err != nil {
		return nil, fmt.Errorf("could not count posts: %w", err)
	}

	query := DB.Order("created_at DESC, id DESC").Limit(realLimit)
	if cursor != nil {
		query = query.Where("created_at < ?", *cursor)
	}

	var posts []models.Post
	if err := query.Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("could not list posts: %w", err)
	}

	result := &model.PaginatedPosts{
		TotalCount:     totalCount,
		PaginatedPosts: make([]*model.Post, 0, len(posts)),
	}
	for i := range posts {
		result.PaginatedPosts = append(result.PaginatedPosts, toGraphPost(&posts[i]))
	}

	if len(posts) == 0 {
		return result, nil
	}

	last := posts[len(posts)-1]
	nextCursor := last.CreatedAt
	result.Cursor = &nextCursor

	if cursor == nil {
		result.HasMore = len(posts) < totalCount
	} else {
		// страница исчерпана, когда ее последняя запись — глобально самый
		// старый пост (сравниваем по id, а не по строковому представлению времени)
		var oldest models.Post
		err := DB.Order("created_at ASC, id ASC").First(&oldest).Error
		if err != nil {
			return nil, fmt.Errorf("could not find oldest post: %w", err)
		}
		result.HasMore = oldest.ID != last.ID
	}

	return result, nil
}

func (s *PostPostgresStorage) UpdatePost(ctx context.Context, id, title, text string) (*model.Post, error) {
	userID, err := auth.GetUserIDFromContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrUnauthenticated, err)
	}

	var p models.Post
	err = DB.First(&p, id).Error
	if err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, fmt.Errorf("post %s: %w", id, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("could not get post by id: %w", err)
	}

	if p.UserID != userID {
		return nil, fmt.Errorf("%w: you are not the author of this post", apperrors.ErrForbidden)
	}

	err = DB.Model(&p).Updates(map[string]interface{}{"title": title, "text": text}).Error
	if err != nil {
		return nil, fmt.Errorf("could not update post: %w", err)
	}

	return toGraphPost(&p), nil
}

// DeletePostById удаляет пост вместе с его голосами в одной транзакции,
// чтобы не оставлять висячих записей Upvote.
func (s *PostPostgresStorage) DeletePostById(ctx context.Context, id string) error {
	userID, err := auth.GetUserIDFromContext(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrUnauthenticated, err)
	}

	var p models.Post
	err = DB.First(&p, id).Error
	if err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return fmt.Errorf("post %s: %w", id, apperrors.ErrNotFound)
		}
		return fmt.Errorf("could not get post by id: %w", err)
	}

	if p.UserID != userID {
		return fmt.Errorf("%w: you are not the author of this post", apperrors.ErrForbidden)
	}

	tx := DB.Begin()
	if tx.Error != nil {
		return fmt.Errorf("could not begin transaction: %w", tx.Error)
	}

	if err := tx.Where("post_id = ?", p.ID).Delete(&models.Upvote{}).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("could not delete post votes: %w", err)
	}

	if err := tx.Delete(&p).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("could not delete post: %w", err)
	}

	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("could not commit transaction: %w", err)
	}

	return nil
}
