package loader

import (
	"context"
	"net/http"
	"sync"

	"github.com/VitaminP8/goddit/graph/model"
	"github.com/VitaminP8/goddit/internal/auth"
	"github.com/VitaminP8/goddit/internal/user"
	"github.com/VitaminP8/goddit/internal/vote"
)

type contextKey string

const loadersKey = contextKey("loaders")

// Loaders — кеш выборок на время одного запроса. Страница постов прогревает
// его одним батч-запросом за авторами и одним за голосами зрителя, так что
// field-резолверы не устраивают по запросу на каждый пост (N+1).
type Loaders struct {
	userStore user.UserStorage
	voteStore vote.VoteStorage

	mu          sync.Mutex
	users       map[string]*model.User
	votes       map[string]int  // postID -> значение голоса зрителя
	votesPrimed map[string]bool // postID уже выбирался (отсутствие голоса = 0)
}

func New(userStore user.UserStorage, voteStore vote.VoteStorage) *Loaders {
	return &Loaders{
		userStore:   userStore,
		voteStore:   voteStore,
		users:       make(map[string]*model.User),
		votes:       make(map[string]int),
		votesPrimed: make(map[string]bool),
	}
}

// Middleware кладет свежие Loaders в контекст каждого запроса
func Middleware(userStore user.UserStorage, voteStore vote.VoteStorage, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), loadersKey, New(userStore, voteStore))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// For достает Loaders из контекста; nil — если middleware не подключен
// (резолверы в этом случае ходят в хранилище напрямую)
func For(ctx context.Context) *Loaders {
	l, _ := ctx.Value(loadersKey).(*Loaders)
	return l
}

// PrimePosts прогревает кеш для страницы постов: один батч за авторами,
// один за голосами текущего пользователя. Ошибки прогрева не фатальны —
// field-резолверы сходят за недостающим поштучно.
func (l *Loaders) PrimePosts(ctx context.Context, posts []*model.Post) {
	if l == nil || len(posts) == 0 {
		return
	}

	postIDs := make([]string, 0, len(posts))
	userIDSet := make(map[string]bool, len(posts))
	userIDs := make([]string, 0, len(posts))
	for _, p := range posts {
		postIDs = append(postIDs, p.ID)
		if !userIDSet[p.UserID] {
			userIDSet[p.UserID] = true
			userIDs = append(userIDs, p.UserID)
		}
	}

	users, err := l.userStore.GetUsersByIds(userIDs)
	if err != nil {
		users = nil
	}

	viewerID, _ := auth.GetUserIDFromContext(ctx) // 0 для анонима

	votes, err := l.voteStore.VotesForPosts(postIDs, viewerID)
	if err != nil {
		votes = nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	for id, u := range users {
		l.users[id] = u
	}

	if votes != nil {
		for _, postID := range postIDs {
			l.votes[postID] = votes[postID] // 0, если голоса нет
			l.votesPrimed[postID] = true
		}
	}
}

// User возвращает пользователя из кеша или поштучно из хранилища
func (l *Loaders) User(ctx context.Context, id string) (*model.User, error) {
	l.mu.Lock()
	if u, ok := l.users[id]; ok {
		l.mu.Unlock()
		return u, nil
	}
	l.mu.Unlock()

	u, err := l.userStore.GetUserById(id)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	l.users[id] = u
	l.mu.Unlock()

	return u, nil
}

// VoteValue возвращает голос текущего пользователя за пост (0 — голоса нет
// или запрос анонимный)
func (l *Loaders) VoteValue(ctx context.Context, postID string) (int, error) {
	viewerID, err := auth.GetUserIDFromContext(ctx)
	if err != nil {
		return 0, nil
	}

	l.mu.Lock()
	if l.votesPrimed[postID] {
		v := l.votes[postID]
		l.mu.Unlock()
		return v, nil
	}
	l.mu.Unlock()

	votes, err := l.voteStore.VotesForPosts([]string{postID}, viewerID)
	if err != nil {
		return 0, err
	}

	l.mu.Lock()
	l.votes[postID] = votes[postID]
	l.votesPrimed[postID] = true
	l.mu.Unlock()

	return votes[postID], nil
}
