package token

import (
	"cashflow/internal/apperr"
	"cashflow/internal/model"
	"cashflow/internal/repository"
	"cashflow/internal/service"
	pkgtoken "cashflow/pkg/token"
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// IssueTokens - выпускает пару токенов и заменяет предыдущие сессии пользователя
// новой (одна активная сессия на пользователя)
func (s *serv) IssueTokens(ctx context.Context, userID int64) (*model.AuthData, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.ErrUserNotFound
		}
		return nil, service.StoreError(err)
	}

	sessionID := uuid.NewString()

	refreshToken, err := pkgtoken.GenerateRefreshToken(
		user,
		sessionID,
		s.jwtConfig.RefreshTokenSecretKey(),
		s.jwtConfig.RefreshTokenDuration())
	if err != nil {
		return nil, err
	}

	accessToken, err := pkgtoken.GenerateAccessToken(
		user,
		uuid.NewString(),
		s.jwtConfig.AccessTokenSecretKey(),
		s.jwtConfig.AccessTokenDuration())
	if err != nil {
		return nil, err
	}

	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		if err := s.authRepo.DeleteUserSessions(ctx, user.ID); err != nil {
			return err
		}

		return s.authRepo.CreateSession(ctx, &model.Session{
			ID:           sessionID,
			UserID:       user.ID,
			RefreshToken: pkgtoken.HashRefreshToken(refreshToken),
			ExpiresAt:    s.now().Add(s.jwtConfig.RefreshTokenDuration()),
		})
	})
	if err != nil {
		return nil, service.StoreError(err)
	}

	s.log.Debug("session opened", zap.Int64("user_id", user.ID), zap.String("session_id", sessionID))

	return &model.AuthData{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		SessionID:    sessionID,
	}, nil
}

// Revoke - закрывает все сессии пользователя
func (s *serv) Revoke(ctx context.Context, userID int64) error {
	if err := s.authRepo.DeleteUserSessions(ctx, userID); err != nil {
		return service.StoreError(err)
	}

	s.log.Debug("sessions revoked", zap.Int64("user_id", userID))

	return nil
}
