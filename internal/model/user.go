package model

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type User struct {
	ID           int64
	Email        string
	FirstName    string
	LastName     string
	PasswordHash string
	CreatedAt    time.Time
}

// ProfileUpdate - частичное обновление профиля, nil означает "не менять"
type ProfileUpdate struct {
	FirstName *string
	LastName  *string
}

func (p ProfileUpdate) IsEmpty() bool {
	return p.FirstName == nil && p.LastName == nil
}

// UserClaims - claims access токена: sub = ID пользователя
type UserClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Identity - личность вызывающего, которую AuthGate кладет в контекст запроса
type Identity struct {
	UserID int64
	Email  string
}

// NormalizeEmail - email сравниваются и хранятся в нижнем регистре без пробелов
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
