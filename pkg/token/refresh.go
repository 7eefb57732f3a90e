package token

import (
	"cashflow/internal/model"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"time"
)

// GenerateRefreshToken - refresh токен тоже JWT, но подписан отдельным ключом,
// а его jti совпадает с ID сессии в БД
func GenerateRefreshToken(info *model.User, sessionID string, secretKey []byte, ttl time.Duration) (string, error) {
	return GenerateAccessToken(info, sessionID, secretKey, ttl)
}

func HashRefreshToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return hex.EncodeToString(h[:])
}

func VerifyRefreshToken(token string, hash string) bool {
	h := sha256.Sum256([]byte(token))
	return subtle.ConstantTimeCompare(
		[]byte(hex.EncodeToString(h[:])),
		[]byte(hash),
	) == 1
}
