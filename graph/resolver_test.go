package graph

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/VitaminP8/goddit/graph/model"
	"github.com/VitaminP8/goddit/internal/auth"
	"github.com/VitaminP8/goddit/internal/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createUserContext(userID uint) context.Context {
	ctx := context.Background()
	return auth.WithUserID(ctx, userID)
}

// newTestResolver собирает резолвер на моках
func newTestResolver() (*Resolver, *mocks.MockPostStorage, *mocks.MockVoteStorage, *mocks.MockUserStorage, *mocks.MockTokenStorage) {
	postStore := mocks.NewMockPostStorage()
	voteStore := mocks.NewMockVoteStorage(postStore)
	userStore := mocks.NewMockUserStorage()
	tokenStore := mocks.NewMockTokenStorage()

	resolver := &Resolver{
		PostStore:  postStore,
		VoteStore:  voteStore,
		UserStore:  userStore,
		TokenStore: tokenStore,
	}
	return resolver, postStore, voteStore, userStore, tokenStore
}

func TestMutationResolver_Register(t *testing.T) {
	t.Run("Successful registration", func(t *testing.T) {
		resolver, _, _, _, _ := newTestResolver()

		resp, err := resolver.Mutation().Register(context.Background(), model.RegisterInput{
			Username: "newuser",
			Email:    "new@example.com",
			Password: "password123",
		})
		require.NoError(t, err)
		assert.Equal(t, 200, resp.Code)
		assert.True(t, resp.Success)
		require.NotNil(t, resp.User)
		assert.Equal(t, "newuser", resp.User.Username)
	})

	t.Run("Validation: short username", func(t *testing.T) {
		resolver, _, _, _, _ := newTestResolver()

		resp, err := resolver.Mutation().Register(context.Background(), model.RegisterInput{
			Username: "ab",
			Email:    "new@example.com",
			Password: "password123",
		})
		require.NoError(t, err)
		assert.Equal(t, 400, resp.Code)
		assert.False(t, resp.Success)
		assert.Nil(t, resp.User)
		require.NotNil(t, resp.Message)
		assert.Contains(t, *resp.Message, "username")
	})

	t.Run("Validation: username with @ sign", func(t *testing.T) {
		resolver, _, _, _, _ := newTestResolver()

		resp, err := resolver.Mutation().Register(context.Background(), model.RegisterInput{
			Username: "user@name",
			Email:    "new@example.com",
			Password: "password123",
		})
		require.NoError(t, err)
		assert.Equal(t, 400, resp.Code)
		assert.False(t, resp.Success)
	})

	t.Run("Validation: invalid email", func(t *testing.T) {
		resolver, _, _, _, _ := newTestResolver()

		resp, err := resolver.Mutation().Register(context.Background(), model.RegisterInput{
			Username: "newuser",
			Email:    "not-an-email",
			Password: "password123",
		})
		require.NoError(t, err)
		assert.Equal(t, 400, resp.Code)
		assert.False(t, resp.Success)
	})

	t.Run("Duplicate username", func(t *testing.T) {
		resolver, _, _, userStore, _ := newTestResolver()

		_, err := userStore.RegisterUser("taken", "taken@example.com", "password123")
		require.NoError(t, err)

		resp, err := resolver.Mutation().Register(context.Background(), model.RegisterInput{
			Username: "taken",
			Email:    "other@example.com",
			Password: "password123",
		})
		require.NoError(t, err)
		assert.Equal(t, 400, resp.Code)
		assert.False(t, resp.Success)
		require.NotNil(t, resp.Message)
		assert.Contains(t, *resp.Message, "already taken")
	})
}

func TestMutationResolver_Login(t *testing.T) {
	t.Run("Successful login sets the session cookie", func(t *testing.T) {
		resolver, _, _, userStore, _ := newTestResolver()

		_, err := userStore.RegisterUser("loginuser", "login@example.com", "password123")
		require.NoError(t, err)

		rec := httptest.NewRecorder()
		ctx := auth.WithResponseWriter(context.Background(), rec)

		resp, err := resolver.Mutation().Login(ctx, model.LoginInput{
			UsernameOrEmail: "loginuser",
			Password:        "password123",
		})
		require.NoError(t, err)
		assert.Equal(t, 200, resp.Code)
		assert.True(t, resp.Success)
		require.NotNil(t, resp.User)
		assert.Equal(t, "loginuser", resp.User.Username)

		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, auth.SessionCookie, cookies[0].Name)
		assert.Equal(t, "mock-session-token", cookies[0].Value)
		assert.True(t, cookies[0].HttpOnly)
	})

	t.Run("Login by email", func(t *testing.T) {
		resolver, _, _, userStore, _ := newTestResolver()

		_, err := userStore.RegisterUser("loginuser", "login@example.com", "password123")
		require.NoError(t, err)

		resp, err := resolver.Mutation().Login(context.Background(), model.LoginInput{
			UsernameOrEmail: "login@example.com",
			Password:        "password123",
		})
		require.NoError(t, err)
		assert.Equal(t, 200, resp.Code)
		assert.True(t, resp.Success)
	})

	t.Run("Wrong password", func(t *testing.T) {
		resolver, _, _, userStore, _ := newTestResolver()

		_, err := userStore.RegisterUser("loginuser", "login@example.com", "password123")
		require.NoError(t, err)

		resp, err := resolver.Mutation().Login(context.Background(), model.LoginInput{
			UsernameOrEmail: "loginuser",
			Password:        "wrong",
		})
		require.NoError(t, err)
		assert.Equal(t, 401, resp.Code)
		assert.False(t, resp.Success)
		assert.Nil(t, resp.User)
	})

	t.Run("Unknown user gets the same error as wrong password", func(t *testing.T) {
		resolver, _, _, _, _ := newTestResolver()

		resp, err := resolver.Mutation().Login(context.Background(), model.LoginInput{
			UsernameOrEmail: "nobody",
			Password:        "password123",
		})
		require.NoError(t, err)
		assert.Equal(t, 401, resp.Code)
		assert.False(t, resp.Success)
	})
}

func TestMutationResolver_Logout(t *testing.T) {
	resolver, _, _, _, _ := newTestResolver()

	rec := httptest.NewRecorder()
	ctx := auth.WithResponseWriter(createUserContext(1), rec)

	ok, err := resolver.Mutation().Logout(ctx)
	require.NoError(t, err)
	assert.True(t, ok)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, auth.SessionCookie, cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	assert.Negative(t, cookies[0].MaxAge)
}

func TestMutationResolver_ForgotPassword(t *testing.T) {
	t.Run("Known email creates a reset token", func(t *testing.T) {
		resolver, _, _, userStore, tokenStore := newTestResolver()

		_, err := userStore.RegisterUser("resetuser", "reset@example.com", "password123")
		require.NoError(t, err)

		ok, err := resolver.Mutation().ForgotPassword(context.Background(), "reset@example.com")
		require.NoError(t, err)
		assert.True(t, ok)

		// токен действительно создан
		err = tokenStore.Verify(context.Background(), 1, "reset-token-1")
		assert.NoError(t, err)
	})

	t.Run("Unknown email does not reveal account existence", func(t *testing.T) {
		resolver, _, _, _, _ := newTestResolver()

		ok, err := resolver.Mutation().ForgotPassword(context.Background(), "unknown@example.com")
		require.NoError(t, err)
		assert.True(t, ok)
	})
}

func TestMutationResolver_ChangePassword(t *testing.T) {
	t.Run("Valid token changes the password and consumes the token", func(t *testing.T) {
		resolver, _, _, userStore, tokenStore := newTestResolver()

		_, err := userStore.RegisterUser("resetuser", "reset@example.com", "oldpassword")
		require.NoError(t, err)

		token, err := tokenStore.Create(context.Background(), 1)
		require.NoError(t, err)

		resp, err := resolver.Mutation().ChangePassword(context.Background(), "1", token, model.ChangePasswordInput{
			NewPassword: "newpassword",
		})
		require.NoError(t, err)
		assert.Equal(t, 200, resp.Code)
		assert.True(t, resp.Success)
		require.NotNil(t, resp.User)
		assert.Equal(t, "resetuser", resp.User.Username)

		// пароль обновлен
		assert.Equal(t, "newpassword", userStore.Password(1))

		// токен одноразовый
		err = tokenStore.Verify(context.Background(), 1, token)
		assert.Error(t, err)
	})

	t.Run("Short new password", func(t *testing.T) {
		resolver, _, _, _, _ := newTestResolver()

		resp, err := resolver.Mutation().ChangePassword(context.Background(), "1", "whatever", model.ChangePasswordInput{
			NewPassword: "ab",
		})
		require.NoError(t, err)
		assert.Equal(t, 400, resp.Code)
		assert.False(t, resp.Success)
	})

	t.Run("Invalid token", func(t *testing.T) {
		resolver, _, _, userStore, _ := newTestResolver()

		_, err := userStore.RegisterUser("resetuser", "reset@example.com", "oldpassword")
		require.NoError(t, err)

		resp, err := resolver.Mutation().ChangePassword(context.Background(), "1", "bad-token", model.ChangePasswordInput{
			NewPassword: "newpassword",
		})
		require.NoError(t, err)
		assert.Equal(t, 400, resp.Code)
		assert.False(t, resp.Success)

		// пароль не изменился
		assert.Equal(t, "oldpassword", userStore.Password(1))
	})

	t.Run("Non-numeric user id", func(t *testing.T) {
		resolver, _, _, _, _ := newTestResolver()

		resp, err := resolver.Mutation().ChangePassword(context.Background(), "abc", "token", model.ChangePasswordInput{
			NewPassword: "newpassword",
		})
		require.NoError(t, err)
		assert.Equal(t, 400, resp.Code)
		assert.False(t, resp.Success)
	})
}

func TestMutationResolver_CreatePost(t *testing.T) {
	t.Run("Successful post creation", func(t *testing.T) {
		resolver, postStore, _, _, _ := newTestResolver()
		ctx := createUserContext(123)

		resp, err := resolver.Mutation().CreatePost(ctx, model.CreatePostInput{
			Title: "Test Post",
			Text:  "Test Text",
		})
		require.NoError(t, err)
		assert.Equal(t, 200, resp.Code)
		assert.True(t, resp.Success)
		require.NotNil(t, resp.Post)
		assert.Equal(t, "Test Post", resp.Post.Title)
		assert.Equal(t, "123", resp.Post.UserID)

		savedPost, err := postStore.GetPostById(resp.Post.ID)
		require.NoError(t, err)
		assert.Equal(t, resp.Post.Title, savedPost.Title)
	})

	t.Run("Error when no authorization", func(t *testing.T) {
		resolver, _, _, _, _ := newTestResolver()

		resp, err := resolver.Mutation().CreatePost(context.Background(), model.CreatePostInput{
			Title: "Title",
			Text:  "Text",
		})
		require.NoError(t, err)
		assert.Equal(t, 401, resp.Code)
		assert.False(t, resp.Success)
		assert.Nil(t, resp.Post)
	})
}

func TestMutationResolver_UpdatePost(t *testing.T) {
	t.Run("Author updates the post", func(t *testing.T) {
		resolver, postStore, _, _, _ := newTestResolver()
		ctx := createUserContext(123)

		created, err := postStore.CreatePost(ctx, "Old Title", "Old Text")
		require.NoError(t, err)

		resp, err := resolver.Mutation().UpdatePost(ctx, model.UpdatePostInput{
			ID:    created.ID,
			Title: "New Title",
			Text:  "New Text",
		})
		require.NoError(t, err)
		assert.Equal(t, 200, resp.Code)
		assert.True(t, resp.Success)
		require.NotNil(t, resp.Post)
		assert.Equal(t, "New Title", resp.Post.Title)
	})

	t.Run("Not author gets forbidden", func(t *testing.T) {
		resolver, postStore, _, _, _ := newTestResolver()

		created, err := postStore.CreatePost(createUserContext(123), "Test Post", "Test Text")
		require.NoError(t, err)

		resp, err := resolver.Mutation().UpdatePost(createUserContext(456), model.UpdatePostInput{
			ID:    created.ID,
			Title: "New Title",
			Text:  "New Text",
		})
		require.NoError(t, err)
		assert.Equal(t, 403, resp.Code)
		assert.False(t, resp.Success)
	})

	t.Run("Not exist post", func(t *testing.T) {
		resolver, _, _, _, _ := newTestResolver()

		resp, err := resolver.Mutation().UpdatePost(createUserContext(123), model.UpdatePostInput{
			ID:    "999",
			Title: "New Title",
			Text:  "New Text",
		})
		require.NoError(t, err)
		assert.Equal(t, 404, resp.Code)
		assert.False(t, resp.Success)
	})
}

func TestMutationResolver_DeletePost(t *testing.T) {
	t.Run("Author deletes the post", func(t *testing.T) {
		resolver, postStore, _, _, _ := newTestResolver()
		ctx := createUserContext(123)

		created, err := postStore.CreatePost(ctx, "Test Post", "Test Text")
		require.NoError(t, err)

		resp, err := resolver.Mutation().DeletePost(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.Code)
		assert.True(t, resp.Success)
		require.NotNil(t, resp.Post)
		assert.Equal(t, created.ID, resp.Post.ID)

		_, err = postStore.GetPostById(created.ID)
		assert.Error(t, err)
	})

	t.Run("Not exist post", func(t *testing.T) {
		resolver, _, _, _, _ := newTestResolver()

		resp, err := resolver.Mutation().DeletePost(createUserContext(123), "999")
		require.NoError(t, err)
		assert.Equal(t, 404, resp.Code)
		assert.False(t, resp.Success)
	})

	t.Run("Not author gets forbidden", func(t *testing.T) {
		resolver, postStore, _, _, _ := newTestResolver()

		created, err := postStore.CreatePost(createUserContext(123), "Test Post", "Test Text")
		require.NoError(t, err)

		resp, err := resolver.Mutation().DeletePost(createUserContext(456), created.ID)
		require.NoError(t, err)
		assert.Equal(t, 403, resp.Code)
		assert.False(t, resp.Success)

		// пост остался на месте
		_, err = postStore.GetPostById(created.ID)
		assert.NoError(t, err)
	})
}

func TestMutationResolver_Vote(t *testing.T) {
	t.Run("Upvote", func(t *testing.T) {
		resolver, postStore, _, _, _ := newTestResolver()
		ctx := createUserContext(123)

		created, err := postStore.CreatePost(ctx, "Test Post", "Test Text")
		require.NoError(t, err)

		resp, err := resolver.Mutation().Vote(ctx, 1, model.VoteTypeUp)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.Code)
		assert.True(t, resp.Success)
		require.NotNil(t, resp.Post)
		assert.Equal(t, created.ID, resp.Post.ID)
		assert.Equal(t, 1, resp.Post.Points)
	})

	t.Run("Downvote", func(t *testing.T) {
		resolver, postStore, _, _, _ := newTestResolver()
		ctx := createUserContext(123)

		_, err := postStore.CreatePost(ctx, "Test Post", "Test Text")
		require.NoError(t, err)

		resp, err := resolver.Mutation().Vote(ctx, 1, model.VoteTypeDown)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.Code)
		require.NotNil(t, resp.Post)
		assert.Equal(t, -1, resp.Post.Points)
	})

	t.Run("Duplicate vote is a conflict", func(t *testing.T) {
		resolver, postStore, _, _, _ := newTestResolver()
		ctx := createUserContext(123)

		_, err := postStore.CreatePost(ctx, "Test Post", "Test Text")
		require.NoError(t, err)

		_, err = resolver.Mutation().Vote(ctx, 1, model.VoteTypeUp)
		require.NoError(t, err)

		resp, err := resolver.Mutation().Vote(ctx, 1, model.VoteTypeUp)
		require.NoError(t, err)
		assert.Equal(t, 409, resp.Code)
		assert.False(t, resp.Success)
		assert.Nil(t, resp.Post)
	})

	t.Run("Flipping the vote", func(t *testing.T) {
		resolver, postStore, _, _, _ := newTestResolver()
		ctx := createUserContext(123)

		_, err := postStore.CreatePost(ctx, "Test Post", "Test Text")
		require.NoError(t, err)

		_, err = resolver.Mutation().Vote(ctx, 1, model.VoteTypeUp)
		require.NoError(t, err)

		resp, err := resolver.Mutation().Vote(ctx, 1, model.VoteTypeDown)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.Code)
		require.NotNil(t, resp.Post)
		assert.Equal(t, -1, resp.Post.Points)
	})

	t.Run("Anonymous vote is unauthorized", func(t *testing.T) {
		resolver, postStore, _, _, _ := newTestResolver()

		_, err := postStore.CreatePost(createUserContext(123), "Test Post", "Test Text")
		require.NoError(t, err)

		resp, err := resolver.Mutation().Vote(context.Background(), 1, model.VoteTypeUp)
		require.NoError(t, err)
		assert.Equal(t, 401, resp.Code)
		assert.False(t, resp.Success)
	})

	t.Run("Vote on not exist post", func(t *testing.T) {
		resolver, _, _, _, _ := newTestResolver()

		resp, err := resolver.Mutation().Vote(createUserContext(123), 999, model.VoteTypeUp)
		require.NoError(t, err)
		assert.Equal(t, 404, resp.Code)
		assert.False(t, resp.Success)
	})

	t.Run("Storage failure is not leaked to the client", func(t *testing.T) {
		resolver, postStore, voteStore, _, _ := newTestResolver()
		ctx := createUserContext(123)

		_, err := postStore.CreatePost(ctx, "Test Post", "Test Text")
		require.NoError(t, err)

		voteStore.ApplyErr = assert.AnError

		resp, err := resolver.Mutation().Vote(ctx, 1, model.VoteTypeUp)
		require.NoError(t, err)
		assert.Equal(t, 500, resp.Code)
		assert.False(t, resp.Success)
		require.NotNil(t, resp.Message)
		assert.Equal(t, "internal server error", *resp.Message)
	})
}

func TestQueryResolver_Me(t *testing.T) {
	t.Run("Authenticated user", func(t *testing.T) {
		resolver, _, _, userStore, _ := newTestResolver()

		registered, err := userStore.RegisterUser("meuser", "me@example.com", "password123")
		require.NoError(t, err)
		assert.Equal(t, "1", registered.ID)

		user, err := resolver.Query().Me(createUserContext(1))
		require.NoError(t, err)
		require.NotNil(t, user)
		assert.Equal(t, "meuser", user.Username)
	})

	t.Run("Anonymous request returns nil without error", func(t *testing.T) {
		resolver, _, _, _, _ := newTestResolver()

		user, err := resolver.Query().Me(context.Background())
		assert.NoError(t, err)
		assert.Nil(t, user)
	})

	t.Run("Stale session for deleted user returns nil", func(t *testing.T) {
		resolver, _, _, _, _ := newTestResolver()

		user, err := resolver.Query().Me(createUserContext(999))
		assert.NoError(t, err)
		assert.Nil(t, user)
	})
}

func TestQueryResolver_Posts(t *testing.T) {
	base := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)

	t.Run("First page without cursor", func(t *testing.T) {
		resolver, postStore, _, _, _ := newTestResolver()
		ctx := createUserContext(1)

		for i := 0; i < 12; i++ {
			_, err := postStore.CreatePostAt(ctx, "Post", "Text", base.Add(time.Duration(i)*time.Minute))
			require.NoError(t, err)
		}

		page, err := resolver.Query().Posts(context.Background(), 100, nil)
		require.NoError(t, err)
		assert.Equal(t, 12, page.TotalCount)
		assert.Len(t, page.PaginatedPosts, 10)
		assert.True(t, page.HasMore)
	})

	t.Run("Second page via cursor", func(t *testing.T) {
		resolver, postStore, _, _, _ := newTestResolver()
		ctx := createUserContext(1)

		for i := 0; i < 8; i++ {
			_, err := postStore.CreatePostAt(ctx, "Post", "Text", base.Add(time.Duration(i)*time.Minute))
			require.NoError(t, err)
		}

		first, err := resolver.Query().Posts(context.Background(), 5, nil)
		require.NoError(t, err)
		require.NotNil(t, first.Cursor)

		cursor := first.Cursor.Format(time.RFC3339Nano)
		second, err := resolver.Query().Posts(context.Background(), 5, &cursor)
		require.NoError(t, err)
		assert.Len(t, second.PaginatedPosts, 3)
		assert.False(t, second.HasMore)
	})

	t.Run("Malformed cursor is an error", func(t *testing.T) {
		resolver, _, _, _, _ := newTestResolver()

		cursor := "not-a-timestamp"
		page, err := resolver.Query().Posts(context.Background(), 5, &cursor)
		assert.Error(t, err)
		assert.Nil(t, page)
		assert.Contains(t, err.Error(), "invalid cursor")
	})

	t.Run("Storage failure is not leaked to the client", func(t *testing.T) {
		resolver, postStore, _, _, _ := newTestResolver()

		postStore.ListErr = assert.AnError

		page, err := resolver.Query().Posts(context.Background(), 5, nil)
		assert.Error(t, err)
		assert.Nil(t, page)
		assert.Equal(t, "internal server error", err.Error())
	})
}

func TestQueryResolver_Post(t *testing.T) {
	t.Run("Existing post", func(t *testing.T) {
		resolver, postStore, _, _, _ := newTestResolver()

		created, err := postStore.CreatePost(createUserContext(1), "Test Post", "Test Text")
		require.NoError(t, err)

		post, err := resolver.Query().Post(context.Background(), created.ID)
		require.NoError(t, err)
		require.NotNil(t, post)
		assert.Equal(t, "Test Post", post.Title)
	})

	t.Run("Not exist post returns nil without error", func(t *testing.T) {
		resolver, _, _, _, _ := newTestResolver()

		post, err := resolver.Query().Post(context.Background(), "999")
		assert.NoError(t, err)
		assert.Nil(t, post)
	})
}

func TestPostResolver_TextSnippet(t *testing.T) {
	resolver, _, _, _, _ := newTestResolver()

	t.Run("Short text is returned as is", func(t *testing.T) {
		snippet, err := resolver.Post().TextSnippet(context.Background(), &model.Post{Text: "short text"})
		require.NoError(t, err)
		assert.Equal(t, "short text", snippet)
	})

	t.Run("Long text is cut to the snippet length", func(t *testing.T) {
		long := ""
		for i := 0; i < 10; i++ {
			long += "0123456789"
		}

		snippet, err := resolver.Post().TextSnippet(context.Background(), &model.Post{Text: long})
		require.NoError(t, err)
		assert.Len(t, []rune(snippet), 50)
		assert.Equal(t, long[:50], snippet)
	})

	t.Run("Multibyte text is cut on rune boundary", func(t *testing.T) {
		long := ""
		for i := 0; i < 60; i++ {
			long += "ж"
		}

		snippet, err := resolver.Post().TextSnippet(context.Background(), &model.Post{Text: long})
		require.NoError(t, err)
		assert.Len(t, []rune(snippet), 50)
	})
}

func TestPostResolver_User(t *testing.T) {
	resolver, postStore, _, userStore, _ := newTestResolver()

	registered, err := userStore.RegisterUser("author", "author@example.com", "password123")
	require.NoError(t, err)

	created, err := postStore.CreatePost(createUserContext(1), "Test Post", "Test Text")
	require.NoError(t, err)

	user, err := resolver.Post().User(context.Background(), created)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, registered.ID, user.ID)
	assert.Equal(t, "author", user.Username)
}

func TestPostResolver_VoteType(t *testing.T) {
	t.Run("Viewer's own vote", func(t *testing.T) {
		resolver, postStore, voteStore, _, _ := newTestResolver()
		ctx := createUserContext(1)

		created, err := postStore.CreatePost(ctx, "Test Post", "Test Text")
		require.NoError(t, err)

		_, err = voteStore.ApplyVote(ctx, created.ID, 1)
		require.NoError(t, err)

		value, err := resolver.Post().VoteType(ctx, created)
		require.NoError(t, err)
		assert.Equal(t, 1, value)
	})

	t.Run("No vote means zero", func(t *testing.T) {
		resolver, postStore, _, _, _ := newTestResolver()
		ctx := createUserContext(1)

		created, err := postStore.CreatePost(ctx, "Test Post", "Test Text")
		require.NoError(t, err)

		value, err := resolver.Post().VoteType(ctx, created)
		require.NoError(t, err)
		assert.Equal(t, 0, value)
	})

	t.Run("Anonymous viewer means zero", func(t *testing.T) {
		resolver, postStore, voteStore, _, _ := newTestResolver()

		created, err := postStore.CreatePost(createUserContext(1), "Test Post", "Test Text")
		require.NoError(t, err)

		_, err = voteStore.ApplyVote(createUserContext(1), created.ID, 1)
		require.NoError(t, err)

		value, err := resolver.Post().VoteType(context.Background(), created)
		require.NoError(t, err)
		assert.Equal(t, 0, value)
	})
}
