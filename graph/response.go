package graph

import (
	"context"
	"strconv"

	"github.com/VitaminP8/goddit/graph/model"
	"github.com/VitaminP8/goddit/internal/apperrors"
	"github.com/VitaminP8/goddit/internal/auth"
	"github.com/VitaminP8/goddit/internal/logger"
	"go.uber.org/zap"
)

func strPtr(s string) *string {
	return &s
}

// responseMessage: доменные ошибки уходят клиенту как есть, внутренние —
// в лог, клиенту обезличенный текст (частичное состояние не раскрываем)
func responseMessage(op string, err error) string {
	if apperrors.IsInternal(err) {
		logger.L.Error("storage failure", zap.String("op", op), zap.Error(err))
		return "internal server error"
	}
	return err.Error()
}

func postFailure(op string, err error) *model.PostMutationResponse {
	return &model.PostMutationResponse{
		Code:    apperrors.CodeOf(err),
		Success: false,
		Message: strPtr(responseMessage(op, err)),
	}
}

func postSuccess(message string, p *model.Post) *model.PostMutationResponse {
	return &model.PostMutationResponse{
		Code:    200,
		Success: true,
		Message: strPtr(message),
		Post:    p,
	}
}

func userFailure(op string, err error) *model.UserMutationResponse {
	return &model.UserMutationResponse{
		Code:    apperrors.CodeOf(err),
		Success: false,
		Message: strPtr(responseMessage(op, err)),
	}
}

// startSession выдает токен сессии и выставляет cookie. Ошибки не фатальны:
// мутация уже выполнена, пользователь сможет залогиниться вручную.
func (r *Resolver) startSession(ctx context.Context, userID string) {
	id, err := strconv.ParseUint(userID, 10, 64)
	if err != nil {
		logger.L.Warn("could not parse user id for session", zap.String("userID", userID), zap.Error(err))
		return
	}

	token, err := auth.IssueToken(uint(id))
	if err != nil {
		logger.L.Warn("could not issue session token", zap.Error(err))
		return
	}

	if err := auth.SetSessionCookie(ctx, token); err != nil {
		logger.L.Warn("could not set session cookie", zap.Error(err))
	}
}

func userSuccess(message string, u *model.User) *model.UserMutationResponse {
	return &model.UserMutationResponse{
		Code:    200,
		Success: true,
		Message: strPtr(message),
		User:    u,
	}
}
