package post

import (
	"context"
	"time"

	"github.com/VitaminP8/goddit/graph/model"
)

// MaxPageSize — жесткий потолок размера страницы ленты.
const MaxPageSize = 10

type PostStorage interface {
	CreatePost(ctx context.Context, title, text string) (*model.Post, error)
	GetPostById(id string) (*model.Post, error)
	// ListPosts — keyset-пагинация: страница постов с created_at < cursor,
	// упорядоченная по (created_at DESC, id DESC). cursor == nil — первая страница.
	ListPosts(limit int, cursor *time.Time) (*model.PaginatedPosts, error)
	UpdatePost(ctx context.Context, id, title, text string) (*model.Post, error)
	DeletePostById(ctx context.Context, id string) error
}
