package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/VitaminP8/goddit/internal/apperrors"
	"github.com/VitaminP8/goddit/internal/vote"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVoteMemoryStorage_ApplyVote(t *testing.T) {
	t.Run("Upvote adds one point", func(t *testing.T) {
		posts := NewPostMemoryStorage()
		storage := NewVoteMemoryStorage(posts)
		ctx := createUserContext(1)

		created, err := posts.CreatePost(ctx, "Test Post", "Test Text")
		require.NoError(t, err)

		p, err := storage.ApplyVote(ctx, created.ID, vote.Up)
		require.NoError(t, err)
		assert.Equal(t, 1, p.Points)
	})

	t.Run("Downvote subtracts one point", func(t *testing.T) {
		posts := NewPostMemoryStorage()
		storage := NewVoteMemoryStorage(posts)
		ctx := createUserContext(1)

		created, err := posts.CreatePost(ctx, "Test Post", "Test Text")
		require.NoError(t, err)

		p, err := storage.ApplyVote(ctx, created.ID, vote.Down)
		require.NoError(t, err)
		assert.Equal(t, -1, p.Points)
	})

	t.Run("Same direction twice is rejected without mutation", func(t *testing.T) {
		posts := NewPostMemoryStorage()
		storage := NewVoteMemoryStorage(posts)
		ctx := createUserContext(1)

		created, err := posts.CreatePost(ctx, "Test Post", "Test Text")
		require.NoError(t, err)

		_, err = storage.ApplyVote(ctx, created.ID, vote.Up)
		require.NoError(t, err)

		p, err := storage.ApplyVote(ctx, created.ID, vote.Up)
		assert.Error(t, err)
		assert.Nil(t, p)
		assert.ErrorIs(t, err, apperrors.ErrDuplicateVote)

		fromStorage, err := posts.GetPostById(created.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, fromStorage.Points)
	})

	t.Run("Flipping the vote applies double delta", func(t *testing.T) {
		posts := NewPostMemoryStorage()
		storage := NewVoteMemoryStorage(posts)
		ctx := createUserContext(1)

		created, err := posts.CreatePost(ctx, "Test Post", "Test Text")
		require.NoError(t, err)

		_, err = storage.ApplyVote(ctx, created.ID, vote.Up)
		require.NoError(t, err)

		p, err := storage.ApplyVote(ctx, created.ID, vote.Down)
		require.NoError(t, err)
		assert.Equal(t, -1, p.Points)

		// и обратно
		p, err = storage.ApplyVote(ctx, created.ID, vote.Up)
		require.NoError(t, err)
		assert.Equal(t, 1, p.Points)
	})

	t.Run("Votes of different users accumulate", func(t *testing.T) {
		posts := NewPostMemoryStorage()
		storage := NewVoteMemoryStorage(posts)

		created, err := posts.CreatePost(createUserContext(1), "Test Post", "Test Text")
		require.NoError(t, err)

		_, err = storage.ApplyVote(createUserContext(1), created.ID, vote.Up)
		require.NoError(t, err)

		p, err := storage.ApplyVote(createUserContext(2), created.ID, vote.Up)
		require.NoError(t, err)
		assert.Equal(t, 2, p.Points)
	})

	t.Run("Vote on not exist post", func(t *testing.T) {
		posts := NewPostMemoryStorage()
		storage := NewVoteMemoryStorage(posts)

		p, err := storage.ApplyVote(createUserContext(1), "999", vote.Up)
		assert.Error(t, err)
		assert.Nil(t, p)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)

		// запись голоса не осталась
		votes, err := storage.VotesForPosts([]string{"999"}, 1)
		require.NoError(t, err)
		assert.Empty(t, votes)
	})

	t.Run("Vote by unauthorized user", func(t *testing.T) {
		posts := NewPostMemoryStorage()
		storage := NewVoteMemoryStorage(posts)

		created, err := posts.CreatePost(createUserContext(1), "Test Post", "Test Text")
		require.NoError(t, err)

		p, err := storage.ApplyVote(context.Background(), created.ID, vote.Up)
		assert.Error(t, err)
		assert.Nil(t, p)
		assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)
	})

	t.Run("Invalid vote value", func(t *testing.T) {
		posts := NewPostMemoryStorage()
		storage := NewVoteMemoryStorage(posts)

		created, err := posts.CreatePost(createUserContext(1), "Test Post", "Test Text")
		require.NoError(t, err)

		p, err := storage.ApplyVote(createUserContext(1), created.ID, 0)
		assert.Error(t, err)
		assert.Nil(t, p)
		assert.Contains(t, err.Error(), "invalid vote value")
	})
}

func TestVoteMemoryStorage_VotesForPosts(t *testing.T) {
	posts := NewPostMemoryStorage()
	storage := NewVoteMemoryStorage(posts)
	ctx := createUserContext(1)

	post1, err := posts.CreatePost(ctx, "Post 1", "Text 1")
	require.NoError(t, err)
	post2, err := posts.CreatePost(ctx, "Post 2", "Text 2")
	require.NoError(t, err)
	post3, err := posts.CreatePost(ctx, "Post 3", "Text 3")
	require.NoError(t, err)

	_, err = storage.ApplyVote(ctx, post1.ID, vote.Up)
	require.NoError(t, err)
	_, err = storage.ApplyVote(ctx, post3.ID, vote.Down)
	require.NoError(t, err)

	t.Run("Returns votes of the user for requested posts", func(t *testing.T) {
		votes, err := storage.VotesForPosts([]string{post1.ID, post2.ID, post3.ID}, 1)
		require.NoError(t, err)
		assert.Equal(t, vote.Up, votes[post1.ID])
		assert.Equal(t, vote.Down, votes[post3.ID])

		_, ok := votes[post2.ID]
		assert.False(t, ok)
	})

	t.Run("Anonymous user has no votes", func(t *testing.T) {
		votes, err := storage.VotesForPosts([]string{post1.ID}, 0)
		require.NoError(t, err)
		assert.Empty(t, votes)
	})

	t.Run("Other user has no votes", func(t *testing.T) {
		votes, err := storage.VotesForPosts([]string{post1.ID, post3.ID}, 2)
		require.NoError(t, err)
		assert.Empty(t, votes)
	})
}

// Параллельные голоса разных пользователей не должны терять обновлений:
// итоговые очки равны сумме всех принятых голосов.
func TestVoteMemoryStorage_ConcurrentVotes(t *testing.T) {
	posts := NewPostMemoryStorage()
	storage := NewVoteMemoryStorage(posts)

	created, err := posts.CreatePost(createUserContext(1), "Test Post", "Test Text")
	require.NoError(t, err)

	const voters = 100

	var wg sync.WaitGroup
	wg.Add(voters)

	for i := 1; i <= voters; i++ {
		go func(userID uint) {
			defer wg.Done()

			value := vote.Up
			if userID%2 == 0 {
				value = vote.Down
			}

			_, err := storage.ApplyVote(createUserContext(userID), created.ID, value)
			assert.NoError(t, err)
		}(uint(i))
	}

	wg.Wait()

	fromStorage, err := posts.GetPostById(created.ID)
	require.NoError(t, err)
	// 50 голосов вверх и 50 вниз
	assert.Equal(t, 0, fromStorage.Points)
}
