package auth

import (
	"cashflow/internal/apperr"
	"cashflow/internal/model"
	"context"
)

// Refresh выпускает новую пару токенов по действующему refresh токену
func (s *serv) Refresh(ctx context.Context, refreshToken string) (*model.AuthData, error) {
	data, err := s.tokens.Refresh(ctx, refreshToken)
	if err != nil {
		s.metrics.ObserveAuth("refresh", apperr.KindOf(err).String())
		return nil, err
	}

	s.metrics.ObserveAuth("refresh", "ok")

	return data, nil
}
