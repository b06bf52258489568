package graph

import (
	"errors"
	"strings"

	"github.com/VitaminP8/goddit/graph/model"
)

// validateRegisterInput повторяет проверки формы регистрации:
// возвращается первая найденная проблема
func validateRegisterInput(input model.RegisterInput) error {
	if len(input.Username) <= 2 {
		return errors.New("username must be longer than 2 characters")
	}
	if strings.Contains(input.Username, "@") {
		return errors.New("username cannot include an @ sign")
	}
	if !strings.Contains(input.Email, "@") {
		return errors.New("invalid email address")
	}
	if len(input.Password) <= 2 {
		return errors.New("password must be longer than 2 characters")
	}
	return nil
}
