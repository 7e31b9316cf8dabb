package service

import (
	"context"
	"errors"
	"net/mail"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	peopleDto "classroom_backend/internals/features/school/people/dto"
	peopleModel "classroom_backend/internals/features/school/people/model"
	"classroom_backend/internals/features/users/auth/dto"
	authModel "classroom_backend/internals/features/users/auth/model"
	userModel "classroom_backend/internals/features/users/user/model"
	"classroom_backend/internals/constants"
	"classroom_backend/internals/helpers/mailer"
	"classroom_backend/internals/testutil"
)

var now = time.Date(2024, time.March, 4, 9, 0, 0, 0, time.UTC)

type fakeGoogle struct {
	ident *GoogleIdentity
	err   error
}

func (f *fakeGoogle) Verify(string) (*GoogleIdentity, error) { return f.ident, f.err }

func newService(t *testing.T) (*AuthService, *gorm.DB, *mailer.ConsoleMailer) {
	db := testutil.NewDB(t)
	console := mailer.NewConsoleMailer(mail.Address{Address: "school@example.com"}, zap.NewNop())
	dispatcher := mailer.NewDispatcher(console, zap.NewNop())
	svc := NewAuthService(db, NewTokenIssuer("access-secret", "refresh-secret"), &fakeGoogle{}, dispatcher)
	svc.Clock = testutil.FixedClock(now)
	return svc, db, console
}

func registerReq(userName, email string) dto.RegisterRequest {
	return dto.RegisterRequest{
		UserName:        userName,
		Password:        "secret123",
		PasswordConfirm: "secret123",
		PersonRequest: peopleDto.PersonRequest{
			FullName:    "Alice Student",
			DOB:         "2005-06-01",
			PhoneNumber: "0811111111",
			Email:       email,
			Address:     "1 School Road",
		},
	}
}

func fiberCode(t *testing.T, err error) int {
	t.Helper()
	var fe *fiber.Error
	require.True(t, errors.As(err, &fe), "expected *fiber.Error, got %v", err)
	return fe.Code
}

func TestRegisterCreatesUserStudentAndSession(t *testing.T) {
	svc, db, console := newService(t)
	ctx := context.Background()

	sess, res, err := svc.Register(ctx, registerReq("alice", "alice@example.com"), ClientMeta{IP: "127.0.0.1"})
	require.NoError(t, err)
	require.True(t, res.OK(), res.Message)
	assert.Equal(t, constants.RoleStudent, sess.Actor.Role)
	assert.Equal(t, "Alice Student", sess.Actor.FullName)
	assert.NotEmpty(t, sess.Tokens.AccessToken)

	var student peopleModel.StudentModel
	require.NoError(t, db.Where("student_user_id = ?", sess.User.ID).First(&student).Error)
	assert.Equal(t, sess.Actor.ProfileID, student.StudentID)

	var rt authModel.RefreshToken
	require.NoError(t, db.Where("user_id = ?", sess.User.ID).First(&rt).Error)
	assert.Len(t, rt.TokenHash, 64)

	svc.Mail.Wait()
	require.Len(t, console.Sent(), 1)
	assert.Equal(t, "alice@example.com", console.Sent()[0].To[0].Address)
}

func TestRegisterConflicts(t *testing.T) {
	svc, db, _ := newService(t)
	ctx := context.Background()

	_, res, err := svc.Register(ctx, registerReq("alice", "alice@example.com"), ClientMeta{})
	require.NoError(t, err)
	require.True(t, res.OK())

	_, res, err = svc.Register(ctx, registerReq("ALICE", "other@example.com"), ClientMeta{})
	require.NoError(t, err)
	assert.Equal(t, MsgUserNameTaken, res.Message)

	_, res, err = svc.Register(ctx, registerReq("bob", "Alice@Example.com"), ClientMeta{})
	require.NoError(t, err)
	assert.Equal(t, MsgEmailRegistered, res.Message)

	// email bentrok di tabel students → user juga batal dibuat
	testutil.CreateStudent(t, db, "Walk In", nil)
	var walkIn peopleModel.StudentModel
	require.NoError(t, db.Where("student_full_name = ?", "Walk In").First(&walkIn).Error)
	_, res, err = svc.Register(ctx, registerReq("carol", walkIn.Email), ClientMeta{})
	require.NoError(t, err)
	assert.False(t, res.OK())
	var n int64
	require.NoError(t, db.Model(&userModel.UserModel{}).Where("user_name = ?", "carol").Count(&n).Error)
	assert.Zero(t, n)

	weak := registerReq("dave", "dave@example.com")
	weak.Password, weak.PasswordConfirm = "onlyletters", "onlyletters"
	_, res, err = svc.Register(ctx, weak, ClientMeta{})
	require.NoError(t, err)
	assert.Equal(t, MsgWeakPassword, res.Message)
}

func TestLoginByEmailOrUserName(t *testing.T) {
	svc, db, _ := newService(t)
	ctx := context.Background()
	_, _, err := svc.Register(ctx, registerReq("alice", "alice@example.com"), ClientMeta{})
	require.NoError(t, err)

	for _, id := range []string{"alice", "ALICE@example.com"} {
		sess, err := svc.Login(ctx, dto.LoginRequest{Identifier: id, Password: "secret123"}, ClientMeta{})
		require.NoError(t, err, id)
		require.NotNil(t, sess.User.LastLoginAt)
		assert.True(t, sess.User.LastLoginAt.Equal(now))
	}

	_, err = svc.Login(ctx, dto.LoginRequest{Identifier: "alice", Password: "wrong1234"}, ClientMeta{})
	assert.Equal(t, fiber.StatusUnauthorized, fiberCode(t, err))
	_, err = svc.Login(ctx, dto.LoginRequest{Identifier: "nobody", Password: "secret123"}, ClientMeta{})
	assert.Equal(t, fiber.StatusUnauthorized, fiberCode(t, err))

	require.NoError(t, db.Model(&userModel.UserModel{}).Where("user_name = ?", "alice").Update("is_active", false).Error)
	_, err = svc.Login(ctx, dto.LoginRequest{Identifier: "alice", Password: "secret123"}, ClientMeta{})
	assert.Equal(t, fiber.StatusForbidden, fiberCode(t, err))
}

func TestRefreshRotatesToken(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()
	sess, _, err := svc.Register(ctx, registerReq("alice", "alice@example.com"), ClientMeta{})
	require.NoError(t, err)

	next, err := svc.Refresh(ctx, sess.Tokens.RefreshToken, ClientMeta{})
	require.NoError(t, err)
	assert.NotEqual(t, sess.Tokens.RefreshToken, next.Tokens.RefreshToken)

	// token lama sudah dirotasi
	_, err = svc.Refresh(ctx, sess.Tokens.RefreshToken, ClientMeta{})
	assert.Equal(t, fiber.StatusUnauthorized, fiberCode(t, err))

	// access token tidak bisa dipakai sebagai refresh
	_, err = svc.Refresh(ctx, next.Tokens.AccessToken, ClientMeta{})
	assert.Equal(t, fiber.StatusUnauthorized, fiberCode(t, err))

	_, err = svc.Refresh(ctx, next.Tokens.RefreshToken, ClientMeta{})
	require.NoError(t, err)
}

func TestLogoutBlacklistsAccessToken(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()
	sess, _, err := svc.Register(ctx, registerReq("alice", "alice@example.com"), ClientMeta{})
	require.NoError(t, err)

	_, actor, err := svc.Authenticate(ctx, sess.Tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, constants.RoleStudent, actor.Role)

	require.NoError(t, svc.Logout(ctx, sess.Tokens.AccessToken, sess.Tokens.RefreshToken))
	// idempotent
	require.NoError(t, svc.Logout(ctx, sess.Tokens.AccessToken, sess.Tokens.RefreshToken))

	_, _, err = svc.Authenticate(ctx, sess.Tokens.AccessToken)
	assert.Equal(t, fiber.StatusUnauthorized, fiberCode(t, err))
	_, err = svc.Refresh(ctx, sess.Tokens.RefreshToken, ClientMeta{})
	assert.Equal(t, fiber.StatusUnauthorized, fiberCode(t, err))
}

func TestAuthenticateRejectsExpiredAndForeignTokens(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()
	sess, _, err := svc.Register(ctx, registerReq("alice", "alice@example.com"), ClientMeta{})
	require.NoError(t, err)

	svc.Clock = testutil.FixedClock(now.Add(25 * time.Hour))
	_, _, err = svc.Authenticate(ctx, sess.Tokens.AccessToken)
	assert.Equal(t, fiber.StatusUnauthorized, fiberCode(t, err))

	svc.Clock = testutil.FixedClock(now)
	other := NewTokenIssuer("another-secret", "x")
	pair, err := other.Issue(sess.User, now)
	require.NoError(t, err)
	_, _, err = svc.Authenticate(ctx, pair.AccessToken)
	assert.Equal(t, fiber.StatusUnauthorized, fiberCode(t, err))
}

func TestResolveActorPriority(t *testing.T) {
	svc, db, _ := newService(t)
	ctx := context.Background()

	u := testutil.CreateUser(t, db, "multi")
	a, err := ResolveActor(ctx, db, u)
	require.NoError(t, err)
	assert.Equal(t, constants.RoleUnassigned, a.Role)

	testutil.CreateStudent(t, db, "Multi Student", &u.ID)
	a, err = ResolveActor(ctx, db, u)
	require.NoError(t, err)
	assert.Equal(t, constants.RoleStudent, a.Role)

	teacher := testutil.CreateTeacher(t, db, "Multi Teacher", &u.ID)
	a, err = ResolveActor(ctx, db, u)
	require.NoError(t, err)
	assert.Equal(t, constants.RoleTeacher, a.Role)
	assert.Equal(t, teacher.TeacherID, a.ProfileID)

	testutil.CreateAdmin(t, db, "Multi Admin", &u.ID)
	_, a, err = svc.Me(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.RoleAdmin, a.Role)
	assert.Equal(t, "Multi Admin", a.FullName)
}

func TestChangePasswordRevokesRefreshTokens(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()
	sess, _, err := svc.Register(ctx, registerReq("alice", "alice@example.com"), ClientMeta{})
	require.NoError(t, err)

	res, err := svc.ChangePassword(ctx, sess.User.ID, dto.ChangePasswordRequest{
		CurrentPassword: "wrong1234", NewPassword: "newpass99", NewPasswordConfirm: "newpass99",
	})
	require.NoError(t, err)
	assert.Equal(t, MsgCurrentPwInvalid, res.Message)

	res, err = svc.ChangePassword(ctx, sess.User.ID, dto.ChangePasswordRequest{
		CurrentPassword: "secret123", NewPassword: "newpass99", NewPasswordConfirm: "newpass99",
	})
	require.NoError(t, err)
	require.True(t, res.OK(), res.Message)

	_, err = svc.Refresh(ctx, sess.Tokens.RefreshToken, ClientMeta{})
	assert.Equal(t, fiber.StatusUnauthorized, fiberCode(t, err))

	_, err = svc.Login(ctx, dto.LoginRequest{Identifier: "alice", Password: "secret123"}, ClientMeta{})
	assert.Error(t, err)
	_, err = svc.Login(ctx, dto.LoginRequest{Identifier: "alice", Password: "newpass99"}, ClientMeta{})
	assert.NoError(t, err)
}

func TestLoginGoogle(t *testing.T) {
	svc, db, _ := newService(t)
	ctx := context.Background()

	svc.Google = &fakeGoogle{ident: &GoogleIdentity{Sub: "g-1", Email: "new.person@gmail.com", Name: "New Person"}}
	sess, err := svc.LoginGoogle(ctx, "token", ClientMeta{})
	require.NoError(t, err)
	assert.Equal(t, "newperson", sess.User.UserName)
	assert.False(t, sess.User.HasPassword())
	assert.Equal(t, constants.RoleUnassigned, sess.Actor.Role)

	again, err := svc.LoginGoogle(ctx, "token", ClientMeta{})
	require.NoError(t, err)
	assert.Equal(t, sess.User.ID, again.User.ID)

	// akun lama dengan email sama ditautkan
	_, _, err = svc.Register(ctx, registerReq("alice", "alice@example.com"), ClientMeta{})
	require.NoError(t, err)
	svc.Google = &fakeGoogle{ident: &GoogleIdentity{Sub: "g-2", Email: "alice@example.com"}}
	linked, err := svc.LoginGoogle(ctx, "token", ClientMeta{})
	require.NoError(t, err)
	assert.Equal(t, "alice", linked.User.UserName)
	assert.Equal(t, constants.RoleStudent, linked.Actor.Role)

	var n int64
	require.NoError(t, db.Model(&userModel.UserModel{}).Count(&n).Error)
	assert.EqualValues(t, 2, n)

	svc.Google = &fakeGoogle{err: errors.New("bad signature")}
	_, err = svc.LoginGoogle(ctx, "token", ClientMeta{})
	assert.Equal(t, fiber.StatusUnauthorized, fiberCode(t, err))
}
