package graph

//go:generate go run github.com/99designs/gqlgen generate

import (
	"github.com/VitaminP8/goddit/internal/post"
	"github.com/VitaminP8/goddit/internal/token"
	"github.com/VitaminP8/goddit/internal/user"
	"github.com/VitaminP8/goddit/internal/vote"
)

// Resolver служит корневой точкой для всех резолверов.
// Здесь можно внедрять зависимости, например хранилище.
type Resolver struct {
	PostStore  post.PostStorage
	VoteStore  vote.VoteStorage
	UserStore  user.UserStorage
	TokenStore token.TokenStorage
}
