package model

import "time"

// Session - запись о refresh токене. ID совпадает с jti refresh токена,
// RefreshToken хранит только sha256 хэш
type Session struct {
	ID           string
	UserID       int64
	RefreshToken string
	ExpiresAt    time.Time
}

func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

type AuthData struct {
	AccessToken  string
	RefreshToken string
	SessionID    string
}
