package auth

import (
	"cashflow/internal/apperr"
	"cashflow/internal/model"
	"cashflow/internal/repository"
	"cashflow/internal/service"
	"cashflow/pkg/pass"
	"context"
	"errors"
	"strings"
)

func (s *serv) CurrentUser(ctx context.Context, userID int64) (*model.User, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.ErrUserNotFound
		}
		return nil, service.StoreError(err)
	}

	return user, nil
}

// UpdateProfile - меняет только переданные имя и фамилию
func (s *serv) UpdateProfile(ctx context.Context, userID int64, upd model.ProfileUpdate) error {
	upd.FirstName = trimmedOrNil(upd.FirstName)
	upd.LastName = trimmedOrNil(upd.LastName)
	if upd.IsEmpty() {
		return apperr.Validation("no fields provided for update")
	}

	err := s.userRepo.UpdateProfile(ctx, userID, upd)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.ErrUserNotFound
		}
		return service.StoreError(err)
	}

	return nil
}

// UpdatePassword - старый пароль должен совпасть, сессии при этом не трогаются
func (s *serv) UpdatePassword(ctx context.Context, userID int64, oldPassword, newPassword string) error {
	if len(oldPassword) < pass.MinLength || len(newPassword) < pass.MinLength {
		return apperr.Validation("incorrect password format (must be at least 4 characters)")
	}

	user, err := s.CurrentUser(ctx, userID)
	if err != nil {
		return err
	}

	if !pass.VerifyPassword(user.PasswordHash, oldPassword) {
		return apperr.Validation("incorrect old password")
	}

	hash, err := pass.HashPassword(newPassword)
	if err != nil {
		return err
	}

	if err := s.userRepo.UpdatePasswordHash(ctx, userID, hash); err != nil {
		return service.StoreError(err)
	}

	return nil
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
