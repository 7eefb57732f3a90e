package token

import (
	"cashflow/internal/apperr"
	"cashflow/internal/model"
	"cashflow/internal/repository"
	"cashflow/internal/service"
	pkgtoken "cashflow/pkg/token"
	"context"
	"errors"
)

// ValidateAccessToken - проверка без обращения к хранилищу
func (s *serv) ValidateAccessToken(accessToken string) (*model.Identity, error) {
	claims, err := s.parse(accessToken, s.jwtConfig.AccessTokenSecretKey())
	if err != nil {
		return nil, err
	}

	userID, err := pkgtoken.UserID(claims)
	if err != nil {
		return nil, apperr.ErrInvalidToken
	}

	return &model.Identity{UserID: userID, Email: claims.Email}, nil
}

// ValidateRefreshToken - подпись и срок, затем сессия из jti должна существовать,
// не истечь и хранить хэш именно этого токена
func (s *serv) ValidateRefreshToken(ctx context.Context, refreshToken string) (*model.Session, error) {
	claims, err := s.parse(refreshToken, s.jwtConfig.RefreshTokenSecretKey())
	if err != nil {
		return nil, err
	}
	if claims.ID == "" {
		return nil, apperr.ErrInvalidToken
	}

	session, err := s.authRepo.GetSession(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.ErrSessionRevoked
		}
		return nil, service.StoreError(err)
	}

	userID, err := pkgtoken.UserID(claims)
	if err != nil || userID != session.UserID {
		return nil, apperr.ErrInvalidToken
	}
	if !pkgtoken.VerifyRefreshToken(refreshToken, session.RefreshToken) {
		return nil, apperr.ErrSessionRevoked
	}
	if session.Expired(s.now()) {
		return nil, apperr.ErrTokenExpired
	}

	return session, nil
}

// Refresh - меняет действующий refresh токен на новую пару. Предъявленная сессия
// удаляется в той же транзакции, что и выпуск новой: из двух одновременных
// обменов одного токена успешен только один
func (s *serv) Refresh(ctx context.Context, refreshToken string) (*model.AuthData, error) {
	session, err := s.ValidateRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	var data *model.AuthData
	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		if err := s.authRepo.DeleteSession(ctx, session.ID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return apperr.ErrSessionRevoked
			}
			return err
		}

		issued, err := s.IssueTokens(ctx, session.UserID)
		if err != nil {
			return err
		}
		data = issued

		return nil
	})
	if err != nil {
		return nil, service.StoreError(err)
	}

	return data, nil
}

func (s *serv) parse(raw string, key []byte) (*model.UserClaims, error) {
	if raw == "" {
		return nil, apperr.ErrUnauthorized
	}

	claims, err := pkgtoken.VerifyToken(raw, key)
	if err != nil {
		if errors.Is(err, pkgtoken.ErrExpired) {
			return nil, apperr.ErrTokenExpired
		}
		return nil, apperr.ErrInvalidToken.Wrap(err)
	}

	return claims, nil
}
