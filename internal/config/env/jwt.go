package env

import (
	"cashflow/internal/config"
	"fmt"
	"os"
	"time"
)

const (
	refreshTokenKeyEnvName      = "REFRESH_TOKEN"
	refreshTokenDurationEnvName = "REFRESH_TOKEN_DURATION"
	accessTokenKeyEnvName       = "ACCESS_TOKEN"
	accessTokenDurationEnvName  = "ACCESS_TOKEN_DURATION"
)

type jwtConfig struct {
	refreshTokenSecretKey string
	refreshTokenDuration  time.Duration
	accessTokenSecretKey  string
	accessTokenDuration   time.Duration
}

func NewJWTConfig() (config.JWTConfig, error) {
	accessToken := os.Getenv(accessTokenKeyEnvName)
	if len(accessToken) == 0 {
		return nil, fmt.Errorf("access token secret key not found")
	}

	refreshToken := os.Getenv(refreshTokenKeyEnvName)
	if len(refreshToken) == 0 {
		return nil, fmt.Errorf("refresh token secret key not found")
	}
	if refreshToken == accessToken {
		return nil, fmt.Errorf("refresh token secret key must differ from access token secret key")
	}

	accessTokenDuration, err := durationFromEnv(accessTokenDurationEnvName)
	if err != nil {
		return nil, fmt.Errorf("access token duration: %w", err)
	}

	refreshTokenDuration, err := durationFromEnv(refreshTokenDurationEnvName)
	if err != nil {
		return nil, fmt.Errorf("refresh token duration: %w", err)
	}

	return &jwtConfig{
		accessTokenSecretKey:  accessToken,
		refreshTokenSecretKey: refreshToken,
		refreshTokenDuration:  refreshTokenDuration,
		accessTokenDuration:   accessTokenDuration,
	}, nil
}

func durationFromEnv(name string) (time.Duration, error) {
	raw := os.Getenv(name)
	if len(raw) == 0 {
		return 0, fmt.Errorf("%s not found", name)
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", name, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive", name)
	}

	return d, nil
}

func (j *jwtConfig) AccessTokenSecretKey() []byte {
	return []byte(j.accessTokenSecretKey)
}

func (j *jwtConfig) RefreshTokenSecretKey() []byte {
	return []byte(j.refreshTokenSecretKey)
}

func (j *jwtConfig) RefreshTokenDuration() time.Duration {
	return j.refreshTokenDuration
}

func (j *jwtConfig) AccessTokenDuration() time.Duration {
	return j.accessTokenDuration
}
