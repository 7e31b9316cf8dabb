package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"classroom_backend/internals/features/users/auth/dto"
	authHelper "classroom_backend/internals/features/users/auth/helper"
	authRepo "classroom_backend/internals/features/users/auth/repository"
	helper "classroom_backend/internals/helpers"
)

// ChangePassword: akun google-only boleh set password pertama tanpa current_password.
// Semua refresh token user di-revoke; access token yang sedang dipakai tetap
// berlaku sampai exp.
func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, req dto.ChangePasswordRequest) (helper.Result, error) {
	if !authHelper.IsStrongPassword(req.NewPassword) {
		return helper.Fail(MsgWeakPassword), nil
	}
	var res helper.Result
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		u, err := authRepo.FindUserByID(tx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUnauthorized
			}
			return err
		}
		if u.HasPassword() {
			if err := authHelper.CheckPasswordHash(u.Password, req.CurrentPassword); err != nil {
				res = helper.Fail(MsgCurrentPwInvalid)
				return nil
			}
		}
		hash, err := authHelper.HashPassword(req.NewPassword)
		if err != nil {
			return err
		}
		if err := authRepo.UpdateUserPassword(tx, u.ID, hash); err != nil {
			return err
		}
		if err := authRepo.RevokeUserRefreshTokens(tx, u.ID, s.now()); err != nil {
			return err
		}
		res = helper.Ok(MsgPasswordChanged)
		return nil
	})
	if err != nil {
		return helper.Result{}, err
	}
	return res, nil
}
