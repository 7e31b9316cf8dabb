package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"classroom_backend/internals/constants"
	peopleDto "classroom_backend/internals/features/school/people/dto"
	"classroom_backend/internals/features/users/auth/dto"
)

func adminReq(userName, email string) dto.CreateAdminAccountRequest {
	return dto.CreateAdminAccountRequest{
		UserName: userName,
		Password: "rootpass1",
		Position: "Principal",
		PersonRequest: peopleDto.PersonRequest{
			FullName:    "Root Admin",
			DOB:         "1980-01-01",
			PhoneNumber: "0800000000",
			Email:       email,
			Address:     "School Office",
		},
	}
}

func TestCreateAdminAccountCanLogIn(t *testing.T) {
	svc, db, _ := newService(t)
	ctx := context.Background()

	admin, res, err := CreateAdminAccount(ctx, db, adminReq("root", "root@example.com"))
	require.NoError(t, err)
	require.True(t, res.OK(), res.Message)
	require.NotNil(t, admin.AdminUserID)
	assert.Equal(t, "Principal", admin.AdminPosition)

	sess, err := svc.Login(ctx, dto.LoginRequest{Identifier: "root", Password: "rootpass1"}, ClientMeta{})
	require.NoError(t, err)
	assert.Equal(t, constants.RoleAdmin, sess.Actor.Role)
	assert.Equal(t, admin.AdminID, sess.Actor.ProfileID)
}

func TestCreateAdminAccountConflicts(t *testing.T) {
	_, db, _ := newService(t)
	ctx := context.Background()

	_, res, err := CreateAdminAccount(ctx, db, adminReq("root", "root@example.com"))
	require.NoError(t, err)
	require.True(t, res.OK())

	_, res, err = CreateAdminAccount(ctx, db, adminReq("ROOT", "other@example.com"))
	require.NoError(t, err)
	assert.Equal(t, MsgUserNameTaken, res.Message)

	_, res, err = CreateAdminAccount(ctx, db, adminReq("root2", "root@example.com"))
	require.NoError(t, err)
	assert.Equal(t, MsgEmailRegistered, res.Message)

	weak := adminReq("root3", "root3@example.com")
	weak.Password = "onlyletters"
	_, res, err = CreateAdminAccount(ctx, db, weak)
	require.NoError(t, err)
	assert.Equal(t, MsgWeakPassword, res.Message)
}
