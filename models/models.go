package models

import (
	"time"

	"github.com/jinzhu/gorm"
)

type User struct {
	gorm.Model
	Username string `gorm:"unique"`
	Email    string `gorm:"unique"`
	Password string
	Posts    []Post `gorm:"foreignkey:UserID"`
}

type Post struct {
	gorm.Model
	Title  string
	Text   string   `gorm:"type:text"`
	Points int      `gorm:"not null;default:0"`
	UserID uint     `gorm:"index"`
	Votes  []Upvote `gorm:"foreignkey:PostID"`
}

// Upvote — составной первичный ключ (user_id, post_id) гарантирует
// не более одной записи голоса на пару пользователь/пост
type Upvote struct {
	UserID    uint `gorm:"primary_key;auto_increment:false"`
	PostID    uint `gorm:"primary_key;auto_increment:false"`
	Value     int  `gorm:"not null"` // +1 или -1
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ResetToken — документ в Mongo. На пользователя существует максимум
// одна активная запись: новый запрос сброса пароля замещает старую.
type ResetToken struct {
	UserID    uint      `bson:"user_id"`
	TokenHash string    `bson:"token_hash"`
	CreatedAt time.Time `bson:"created_at"`
	ExpiresAt time.Time `bson:"expires_at"`
}
