package user

import (
	"github.com/VitaminP8/goddit/graph/model"
)

type UserStorage interface {
	RegisterUser(username, email, password string) (*model.User, error)
	// LoginUser принимает username или email, возвращает пользователя и JWT сессии
	LoginUser(usernameOrEmail, password string) (*model.User, string, error)
	GetUserById(id string) (*model.User, error)
	// GetUsersByIds — батч-выборка для дата-лоадера (id -> user)
	GetUsersByIds(ids []string) (map[string]*model.User, error)
	GetUserByEmail(email string) (*model.User, error)
	UpdatePassword(userID uint, newPassword string) error
}
