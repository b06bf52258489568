package graph

// This file will be automatically regenerated based on the schema, any resolver implementations
// will be copied through when generating and any unknown code will be moved to the end.
// Code generated by github.com/99designs/gqlgen version v0.17.49

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/VitaminP8/goddit/graph/generated"
	"github.com/VitaminP8/goddit/graph/model"
	"github.com/VitaminP8/goddit/internal/apperrors"
	"github.com/VitaminP8/goddit/internal/auth"
	"github.com/VitaminP8/goddit/internal/config"
	"github.com/VitaminP8/goddit/internal/loader"
	"github.com/VitaminP8/goddit/internal/logger"
	"github.com/VitaminP8/goddit/internal/vote"
	"go.uber.org/zap"
)

// Register is the resolver for the register field.
func (r *mutationResolver) Register(ctx context.Context, registerInput model.RegisterInput) (*model.UserMutationResponse, error) {
	if err := validateRegisterInput(registerInput); err != nil {
		return &model.UserMutationResponse{
			Code:    400,
			Success: false,
			Message: strPtr(err.Error()),
		}, nil
	}

	newUser, err := r.UserStore.RegisterUser(registerInput.Username, registerInput.Email, registerInput.Password)
	if err != nil {
		logger.L.Debug("registration rejected", zap.Error(err))
		return &model.UserMutationResponse{
			Code:    400,
			Success: false,
			Message: strPtr("username or email already taken"),
		}, nil
	}

	// сразу логиним нового пользователя
	r.startSession(ctx, newUser.ID)

	return userSuccess("user registered successfully", newUser), nil
}

// Login is the resolver for the login field.
func (r *mutationResolver) Login(ctx context.Context, loginInput model.LoginInput) (*model.UserMutationResponse, error) {
	u, sessionToken, err := r.UserStore.LoginUser(loginInput.UsernameOrEmail, loginInput.Password)
	if err != nil {
		return userFailure("login", err), nil
	}

	if err := auth.SetSessionCookie(ctx, sessionToken); err != nil {
		logger.L.Warn("could not set session cookie", zap.Error(err))
	}

	return userSuccess("logged in successfully", u), nil
}

// Logout is the resolver for the logout field.
func (r *mutationResolver) Logout(ctx context.Context) (bool, error) {
	if err := auth.ClearSessionCookie(ctx); err != nil {
		logger.L.Warn("could not clear session cookie", zap.Error(err))
	}
	return true, nil
}

// ForgotPassword is the resolver for the forgotPassword field.
func (r *mutationResolver) ForgotPassword(ctx context.Context, email string) (bool, error) {
	u, err := r.UserStore.GetUserByEmail(email)
	if err != nil {
		// не раскрываем, существует ли аккаунт с таким email
		logger.L.Info("password reset requested for unknown email", zap.String("email", email))
		return true, nil
	}

	userID, err := strconv.ParseUint(u.ID, 10, 64)
	if err != nil {
		return false, fmt.Errorf("invalid user id %s: %w", u.ID, err)
	}

	resetToken, err := r.TokenStore.Create(ctx, uint(userID))
	if err != nil {
		logger.L.Error("could not create reset token", zap.Error(err))
		return false, errors.New("internal server error")
	}

	// отправка письма — заглушка: ссылка уходит в лог
	frontendURL := config.GetEnvOrDefault("FRONTEND_URL", "http://localhost:3000")
	logger.L.Info("password reset link issued",
		zap.String("email", email),
		zap.String("url", fmt.Sprintf("%s/change-password?token=%s&userId=%s", frontendURL, resetToken, u.ID)),
	)

	return true, nil
}

// ChangePassword is the resolver for the changePassword field.
func (r *mutationResolver) ChangePassword(ctx context.Context, userID string, token string, changePasswordInput model.ChangePasswordInput) (*model.UserMutationResponse, error) {
	if len(changePasswordInput.NewPassword) <= 2 {
		return &model.UserMutationResponse{
			Code:    400,
			Success: false,
			Message: strPtr("password must be longer than 2 characters"),
		}, nil
	}

	id, err := strconv.ParseUint(userID, 10, 64)
	if err != nil {
		return userFailure("changePassword", fmt.Errorf("invalid user id: %w", apperrors.ErrInvalidToken)), nil
	}

	if err := r.TokenStore.Verify(ctx, uint(id), token); err != nil {
		return userFailure("changePassword", err), nil
	}

	if err := r.UserStore.UpdatePassword(uint(id), changePasswordInput.NewPassword); err != nil {
		return userFailure("changePassword", err), nil
	}

	// токен одноразовый: удаляем после успешной смены пароля
	if err := r.TokenStore.Delete(ctx, uint(id)); err != nil {
		logger.L.Warn("could not delete used reset token", zap.Error(err))
	}

	u, err := r.UserStore.GetUserById(userID)
	if err != nil {
		return userFailure("changePassword", err), nil
	}

	// после смены пароля пользователь сразу залогинен
	r.startSession(ctx, u.ID)

	return userSuccess("password changed successfully", u), nil
}

// CreatePost is the resolver for the createPost field.
func (r *mutationResolver) CreatePost(ctx context.Context, createPostInput model.CreatePostInput) (*model.PostMutationResponse, error) {
	p, err := r.PostStore.CreatePost(ctx, createPostInput.Title, createPostInput.Text)
	if err != nil {
		return postFailure("createPost", err), nil
	}

	return postSuccess("post created successfully", p), nil
}

// UpdatePost is the resolver for the updatePost field.
func (r *mutationResolver) UpdatePost(ctx context.Context, updatePostInput model.UpdatePostInput) (*model.PostMutationResponse, error) {
	p, err := r.PostStore.UpdatePost(ctx, updatePostInput.ID, updatePostInput.Title, updatePostInput.Text)
	if err != nil {
		return postFailure("updatePost", err), nil
	}

	return postSuccess("post updated successfully", p), nil
}

// DeletePost is the resolver for the deletePost field.
func (r *mutationResolver) DeletePost(ctx context.Context, id string) (*model.PostMutationResponse, error) {
	p, err := r.PostStore.GetPostById(id)
	if err != nil {
		return postFailure("deletePost", err), nil
	}

	if err := r.PostStore.DeletePostById(ctx, id); err != nil {
		return postFailure("deletePost", err), nil
	}

	return postSuccess("post deleted successfully", p), nil
}

// Vote is the resolver for the vote field.
func (r *mutationResolver) Vote(ctx context.Context, postID int, voteType model.VoteType) (*model.PostMutationResponse, error) {
	value := vote.Up
	if voteType == model.VoteTypeDown {
		value = vote.Down
	}

	p, err := r.VoteStore.ApplyVote(ctx, strconv.Itoa(postID), value)
	if err != nil {
		return postFailure("vote", err), nil
	}

	return postSuccess("vote applied", p), nil
}

// TextSnippet is the resolver for the textSnippet field.
func (r *postResolver) TextSnippet(ctx context.Context, obj *model.Post) (string, error) {
	runes := []rune(obj.Text)
	if len(runes) <= snippetLength {
		return obj.Text, nil
	}
	return string(runes[:snippetLength]), nil
}

// VoteType is the resolver for the voteType field.
func (r *postResolver) VoteType(ctx context.Context, obj *model.Post) (int, error) {
	if l := loader.For(ctx); l != nil {
		return l.VoteValue(ctx, obj.ID)
	}

	viewerID, err := auth.GetUserIDFromContext(ctx)
	if err != nil {
		return 0, nil // у анонима голосов нет
	}

	votes, err := r.VoteStore.VotesForPosts([]string{obj.ID}, viewerID)
	if err != nil {
		return 0, err
	}

	return votes[obj.ID], nil
}

// User is the resolver for the user field.
func (r *postResolver) User(ctx context.Context, obj *model.Post) (*model.User, error) {
	if l := loader.For(ctx); l != nil {
		return l.User(ctx, obj.UserID)
	}
	return r.UserStore.GetUserById(obj.UserID)
}

// Me is the resolver for the me field.
func (r *queryResolver) Me(ctx context.Context) (*model.User, error) {
	userID, err := auth.GetUserIDFromContext(ctx)
	if err != nil {
		return nil, nil // аноним
	}

	u, err := r.UserStore.GetUserById(fmt.Sprint(userID))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return u, nil
}

// Posts is the resolver for the posts field.
func (r *queryResolver) Posts(ctx context.Context, limit int, cursor *string) (*model.PaginatedPosts, error) {
	var cursorTime *time.Time
	if cursor != nil && *cursor != "" {
		t, err := time.Parse(time.RFC3339Nano, *cursor)
		if err != nil {
			return nil, fmt.Errorf("invalid cursor: %w", err)
		}
		cursorTime = &t
	}

	page, err := r.PostStore.ListPosts(limit, cursorTime)
	if err != nil {
		logger.L.Error("could not list posts", zap.Error(err))
		return nil, errors.New("internal server error")
	}

	// прогреваем батч-кеш: авторы и голоса зрителя одним запросом на страницу
	if l := loader.For(ctx); l != nil {
		l.PrimePosts(ctx, page.PaginatedPosts)
	}

	return page, nil
}

// Post is the resolver for the post field.
func (r *queryResolver) Post(ctx context.Context, id string) (*model.Post, error) {
	p, err := r.PostStore.GetPostById(id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return p, nil
}

// Mutation returns generated.MutationResolver implementation.
func (r *Resolver) Mutation() generated.MutationResolver { return &mutationResolver{r} }

// Post returns generated.PostResolver implementation.
func (r *Resolver) Post() generated.PostResolver { return &postResolver{r} }

// Query returns generated.QueryResolver implementation.
func (r *Resolver) Query() generated.QueryResolver { return &queryResolver{r} }

type mutationResolver struct{ *Resolver }
type postResolver struct{ *Resolver }
type queryResolver struct{ *Resolver }

// !!! WARNING !!!
// The code below was going to be deleted when updating resolvers. It has been copied here so you have
// one last chance to move it out of harms way if you want. There are two reasons this happens:
//   - When renaming or deleting a resolver the old code will be put in here. You can safely delete
//     it when you're done.
//   - You have helper methods in this file. Move them out to keep these resolver files clean.
const snippetLength = 50
