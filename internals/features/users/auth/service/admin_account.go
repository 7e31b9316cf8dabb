package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	peopleModel "classroom_backend/internals/features/school/people/model"
	"classroom_backend/internals/features/users/auth/dto"
	authHelper "classroom_backend/internals/features/users/auth/helper"
	authRepo "classroom_backend/internals/features/users/auth/repository"
	userModel "classroom_backend/internals/features/users/user/model"
	helper "classroom_backend/internals/helpers"
)

const MsgAdminCreated = "Admin account created."

// CreateAdminAccount: user + profil admin sekaligus (tanpa login)
func CreateAdminAccount(ctx context.Context, db *gorm.DB, req dto.CreateAdminAccountRequest) (*peopleModel.AdminModel, helper.Result, error) {
	if !authHelper.IsStrongPassword(req.Password) {
		return nil, helper.Fail(MsgWeakPassword), nil
	}
	person, err := req.PersonRequest.ToFields()
	if err != nil {
		return nil, helper.Result{}, err
	}
	hash, err := authHelper.HashPassword(req.Password)
	if err != nil {
		return nil, helper.Result{}, err
	}

	var (
		admin *peopleModel.AdminModel
		res   helper.Result
	)
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taken, err := authRepo.IsUserNameTaken(tx, req.UserName)
		if err != nil {
			return err
		}
		if taken {
			res = helper.Fail(MsgUserNameTaken)
			return nil
		}
		u := &userModel.UserModel{
			UserName: req.UserName,
			Email:    person.Email,
			Password: &hash,
			IsActive: true,
		}
		if err := authRepo.CreateUser(tx, u); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				res = helper.Fail(MsgEmailRegistered)
				return nil
			}
			return err
		}
		admin = &peopleModel.AdminModel{AdminUserID: &u.ID, PersonFields: person, AdminPosition: req.Position}
		if err := tx.Create(admin).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				res = helper.Fail(MsgEmailRegistered)
				return errRollback
			}
			return err
		}
		res = helper.Ok(MsgAdminCreated)
		return nil
	})
	if errors.Is(err, errRollback) {
		return nil, res, nil
	}
	if err != nil {
		return nil, helper.Result{}, err
	}
	return admin, res, nil
}
