package postgres

import (
	"fmt"

	"github.com/VitaminP8/goddit/graph/model"
	"github.com/VitaminP8/goddit/internal/apperrors"
	"github.com/VitaminP8/goddit/internal/auth"
	"github.com/VitaminP8/goddit/models"
	"github.com/jinzhu/gorm"

	"golang.org/x/crypto/bcrypt"
)

type UserPostgresStorage struct{}

func NewUserPostgresStorage() *UserPostgresStorage {
	return &UserPostgresStorage{}
}

func toGraphUser(u *models.User) *model.User {
	return &model.User{
		ID:       fmt.Sprint(u.ID),
		Username: u.Username,
		Email:    u.Email,
	}
}

func (s *UserPostgresStorage) RegisterUser(username, email, password string) (*model.User, error) {
	// проверка - существует ли такой пользователь
	var existUser models.User
	err := DB.Where("username = ? OR email = ?", username, email).First(&existUser).Error
	if err == nil {
		return nil, fmt.Errorf("user with username %s or email %s already exists", username, email)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username: username,
		Email:    email,
		Password: string(hashedPassword),
	}

	err = DB.Create(user).Error
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return toGraphUser(user), nil
}

func (s *UserPostgresStorage) LoginUser(usernameOrEmail, password string) (*model.User, string, error) {
	// пользователя не раскрываем: и "нет такого", и "не тот пароль" —
	// одна и та же ошибка ErrInvalidCredentials
	var user models.User
	err := DB.Where("username = ? OR email = ?", usernameOrEmail, usernameOrEmail).First(&user).Error
	if err != nil {
		return nil, "", fmt.Errorf("%w: user %s not found", apperrors.ErrInvalidCredentials, usernameOrEmail)
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password))
	if err != nil {
		return nil, "", fmt.Errorf("%w: wrong password", apperrors.ErrInvalidCredentials)
	}

	token, err := auth.IssueToken(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue session token: %w", err)
	}

	return toGraphUser(&user), token, nil
}

func (s *UserPostgresStorage) GetUserById(id string) (*model.User, error) {
	var user models.User
	err := DB.First(&user, id).Error
	if err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, fmt.Errorf("user %s: %w", id, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("could not get user by id: %w", err)
	}

	return toGraphUser(&user), nil
}

func (s *UserPostgresStorage) GetUsersByIds(ids []string) (map[string]*model.User, error) {
	result := make(map[string]*model.User, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	var users []models.User
	err := DB.Where("id IN (?)", ids).Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("could not get users: %w", err)
	}

	for i := range users {
		result[fmt.Sprint(users[i].ID)] = toGraphUser(&users[i])
	}

	return result, nil
}

func (s *UserPostgresStorage) GetUserByEmail(email string) (*model.User, error) {
	var user models.User
	err := DB.Where("email = ?", email).First(&user).Error
	if err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, fmt.Errorf("user with email %s: %w", email, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("could not get user by email: %w", err)
	}

	return toGraphUser(&user), nil
}

func (s *UserPostgresStorage) UpdatePassword(userID uint, newPassword string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	query := DB.Model(&models.User{}).Where("id = ?", userID).Update("password", string(hashedPassword))
	if query.Error != nil {
		return fmt.Errorf("failed to update password: %w", query.Error)
	}
	if query.RowsAffected == 0 {
		return fmt.Errorf("user %d: %w", userID, apperrors.ErrNotFound)
	}

	return nil
}
