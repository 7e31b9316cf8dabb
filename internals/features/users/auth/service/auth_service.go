package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	peopleModel "classroom_backend/internals/features/school/people/model"
	"classroom_backend/internals/features/users/auth/dto"
	authHelper "classroom_backend/internals/features/users/auth/helper"
	authModel "classroom_backend/internals/features/users/auth/model"
	authRepo "classroom_backend/internals/features/users/auth/repository"
	userModel "classroom_backend/internals/features/users/user/model"
	"classroom_backend/internals/configs"
	helper "classroom_backend/internals/helpers"
	helperAuth "classroom_backend/internals/helpers/auth"
	"classroom_backend/internals/helpers/dbtime"
	"classroom_backend/internals/helpers/mailer"
)

const (
	MsgRegistered       = "Registration successful."
	MsgUserNameTaken    = "User name is already taken."
	MsgEmailRegistered  = "Email is already registered."
	MsgWeakPassword     = "Password must contain letters and numbers."
	MsgPasswordChanged  = "Password changed."
	MsgCurrentPwInvalid = "Current password is incorrect."
)

var (
	ErrBadCredentials = fiber.NewError(fiber.StatusUnauthorized, "Invalid identifier or password")
	ErrUnauthorized   = fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
	ErrSessionRevoked = fiber.NewError(fiber.StatusUnauthorized, "Session has ended, please log in again")
	ErrAccountBlocked = fiber.NewError(fiber.StatusForbidden, "Your account has been deactivated. Contact the administrator.")
	ErrGoogleToken    = fiber.NewError(fiber.StatusUnauthorized, "Invalid Google ID token")
)

// ClientMeta: dicatat di refresh token
type ClientMeta struct {
	UserAgent string
	IP        string
}

// Session = hasil login/register/refresh
type Session struct {
	User   *userModel.UserModel
	Actor  helperAuth.Actor
	Tokens TokenPair
}

type AuthService struct {
	DB     *gorm.DB
	Tokens *TokenIssuer
	Google GoogleVerifier
	Mail   *mailer.Dispatcher
	Clock  dbtime.Clock
}

func NewAuthService(db *gorm.DB, tokens *TokenIssuer, google GoogleVerifier, m *mailer.Dispatcher) *AuthService {
	return &AuthService{DB: db, Tokens: tokens, Google: google, Mail: m, Clock: dbtime.SystemClock}
}

func (s *AuthService) now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock().UTC()
}

func strptr(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}

// issueSession: token baru + simpan hash refresh + last_login_at
func (s *AuthService) issueSession(ctx context.Context, tx *gorm.DB, u *userModel.UserModel, meta ClientMeta) (*Session, error) {
	now := s.now()
	pair, err := s.Tokens.Issue(u, now)
	if err != nil {
		return nil, err
	}
	if err := authRepo.CreateRefreshToken(tx, &authModel.RefreshToken{
		UserID:    u.ID,
		TokenHash: s.Tokens.RefreshHash(pair.RefreshToken),
		ExpiresAt: pair.RefreshExpiresAt,
		UserAgent: strptr(meta.UserAgent),
		IP:        strptr(meta.IP),
	}); err != nil {
		return nil, err
	}
	if err := authRepo.TouchLastLogin(tx, u.ID, now); err != nil {
		return nil, err
	}
	u.LastLoginAt = &now

	actor, err := ResolveActor(ctx, tx, u)
	if err != nil {
		return nil, err
	}
	return &Session{User: u, Actor: actor, Tokens: pair}, nil
}

/* ==========================
   REGISTER
========================== */

// Register: user + profil student dalam satu transaksi, lalu langsung login
func (s *AuthService) Register(ctx context.Context, req dto.RegisterRequest, meta ClientMeta) (*Session, helper.Result, error) {
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
		sess *Session
		res  helper.Result
	)
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taken, err := authRepo.IsUserNameTaken(tx, req.UserName)
		if err != nil {
			return err
		}
		if taken {
			res = helper.Fail(MsgUserNameTaken)
			return nil
		}
		if _, err := authRepo.FindUserByEmail(tx, person.Email); err == nil {
			res = helper.Fail(MsgEmailRegistered)
			return nil
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
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
		student := &peopleModel.StudentModel{StudentUserID: &u.ID, PersonFields: person}
		if err := tx.Create(student).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				// email profil student sudah dipakai profil lain
				res = helper.Fail(MsgEmailRegistered)
				return errRollback
			}
			return err
		}

		sess, err = s.issueSession(ctx, tx, u, meta)
		if err != nil {
			return err
		}
		res = helper.Ok(MsgRegistered)
		return nil
	})
	if errors.Is(err, errRollback) {
		return nil, res, nil
	}
	if err != nil {
		return nil, helper.Result{}, err
	}
	if res.OK() {
		s.Mail.SendAsync(welcomeMail(sess.User, person.FullName))
	}
	return sess, res, nil
}

// errRollback: batalkan transaksi tanpa dianggap error infrastruktur
var errRollback = errors.New("rollback")

func welcomeMail(u *userModel.UserModel, fullName string) mailer.Message {
	return mailer.Message{
		To:      mailer.Addresses(fullName, u.Email),
		Subject: "Welcome to " + configs.MailFromName,
		TextContent: fmt.Sprintf(
			"Hi %s,\n\nYour account %q is ready. You can now browse classes and request enrollment.\n",
			fullName, u.UserName,
		),
	}
}

/* ==========================
   LOGIN
========================== */

func (s *AuthService) Login(ctx context.Context, req dto.LoginRequest, meta ClientMeta) (*Session, error) {
	db := s.DB.WithContext(ctx)
	u, err := authRepo.FindUserByIdentifier(db, req.Identifier)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBadCredentials
		}
		return nil, err
	}
	if err := authHelper.CheckPasswordHash(u.Password, req.Password); err != nil {
		return nil, ErrBadCredentials
	}
	if !u.IsActive {
		return nil, ErrAccountBlocked
	}

	var sess *Session
	err = db.Transaction(func(tx *gorm.DB) error {
		var err error
		sess, err = s.issueSession(ctx, tx, u, meta)
		return err
	})
	return sess, err
}

/* ==========================
   LOGIN GOOGLE
========================== */

var reNonUserName = regexp.MustCompile(`[^a-z0-9_]+`)

// googleUserName: dari local-part email, ditambah angka kalau bentrok
func googleUserName(tx *gorm.DB, email string) (string, error) {
	base := strings.ToLower(strings.SplitN(email, "@", 2)[0])
	base = reNonUserName.ReplaceAllString(base, "")
	if len(base) < 3 {
		base = "user" + base
	}
	if len(base) > 40 {
		base = base[:40]
	}
	name := base
	for i := 0; i < 5; i++ {
		taken, err := authRepo.IsUserNameTaken(tx, name)
		if err != nil {
			return "", err
		}
		if !taken {
			return name, nil
		}
		suffix, err := helper.RandomDigits(4)
		if err != nil {
			return "", err
		}
		name = base + suffix
	}
	return "", fiber.NewError(fiber.StatusConflict, MsgUserNameTaken)
}

// LoginGoogle: cari by google_id → tautkan by email → buat akun baru (tanpa profil)
func (s *AuthService) LoginGoogle(ctx context.Context, idToken string, meta ClientMeta) (*Session, error) {
	if s.Google == nil {
		return nil, fiber.NewError(fiber.StatusServiceUnavailable, ErrGoogleNotConfigured.Error())
	}
	ident, err := s.Google.Verify(idToken)
	if err != nil {
		if errors.Is(err, ErrGoogleNotConfigured) {
			return nil, fiber.NewError(fiber.StatusServiceUnavailable, err.Error())
		}
		configs.Log().Info("google id token rejected", zap.Error(err))
		return nil, ErrGoogleToken
	}
	if ident.Sub == "" || ident.Email == "" {
		return nil, ErrGoogleToken
	}

	var sess *Session
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		u, err := authRepo.FindUserByGoogleID(tx, ident.Sub)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			u, err = authRepo.FindUserByEmail(tx, ident.Email)
			switch {
			case err == nil:
				if u.GoogleID != nil && *u.GoogleID != ident.Sub {
					return fiber.NewError(fiber.StatusConflict, MsgEmailRegistered)
				}
				sub := ident.Sub
				u.GoogleID = &sub
				if err := tx.Model(u).Update("google_id", sub).Error; err != nil {
					return err
				}
			case errors.Is(err, gorm.ErrRecordNotFound):
				name, err := googleUserName(tx, ident.Email)
				if err != nil {
					return err
				}
				sub := ident.Sub
				u = &userModel.UserModel{
					UserName: name,
					Email:    strings.ToLower(ident.Email),
					GoogleID: &sub,
					IsActive: true,
				}
				if err := authRepo.CreateUser(tx, u); err != nil {
					return err
				}
			default:
				return err
			}
		} else if err != nil {
			return err
		}
		if !u.IsActive {
			return ErrAccountBlocked
		}
		sess, err = s.issueSession(ctx, tx, u, meta)
		return err
	})
	return sess, err
}

/* ==========================
   REFRESH (rotate)
========================== */

func (s *AuthService) Refresh(ctx context.Context, raw string, meta ClientMeta) (*Session, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Refresh token is missing")
	}
	claims, err := s.Tokens.ParseRefresh(raw, s.now())
	if err != nil {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Refresh token is invalid or expired")
	}

	var sess *Session
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		hash := s.Tokens.RefreshHash(raw)
		rt, err := authRepo.FindRefreshTokenByHash(tx, hash)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSessionRevoked
		}
		if err != nil {
			return err
		}
		if !rt.Usable(s.now()) || rt.UserID != claims.UserID {
			return ErrSessionRevoked
		}
		u, err := authRepo.FindUserByID(tx, rt.UserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSessionRevoked
			}
			return err
		}
		if !u.IsActive {
			return ErrAccountBlocked
		}
		// rotasi: token lama tidak bisa dipakai lagi
		if err := authRepo.DeleteRefreshTokenByHash(tx, hash); err != nil {
			return err
		}
		sess, err = s.issueSession(ctx, tx, u, meta)
		return err
	})
	return sess, err
}

/* ==========================
   LOGOUT
========================== */

// Logout: idempotent. Access token masuk blacklist sampai exp-nya lewat.
func (s *AuthService) Logout(ctx context.Context, accessRaw, refreshRaw string) error {
	db := s.DB.WithContext(ctx)
	if accessRaw != "" {
		claims, err := s.Tokens.ParseAccess(accessRaw, s.now())
		switch {
		case err == nil:
			if err := authRepo.BlacklistToken(db, s.Tokens.AccessHash(accessRaw), claims.ExpiresAt.Add(time.Minute)); err != nil {
				return err
			}
		case errors.Is(err, ErrExpiredToken):
			// sudah tidak berlaku, tidak perlu blacklist
		default:
			configs.Log().Debug("logout with unparseable access token", zap.Error(err))
		}
	}
	if refreshRaw != "" {
		if err := authRepo.DeleteRefreshTokenByHash(db, s.Tokens.RefreshHash(refreshRaw)); err != nil {
			return err
		}
	}
	return nil
}

/* ==========================
   AUTHENTICATE (middleware)
========================== */

// Authenticate: raw access token → user aktif + actor
func (s *AuthService) Authenticate(ctx context.Context, raw string) (*userModel.UserModel, helperAuth.Actor, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, helperAuth.Actor{}, ErrUnauthorized
	}
	now := s.now()
	claims, err := s.Tokens.ParseAccess(raw, now)
	if err != nil {
		if errors.Is(err, ErrExpiredToken) {
			return nil, helperAuth.Actor{}, fiber.NewError(fiber.StatusUnauthorized, "Token has expired")
		}
		return nil, helperAuth.Actor{}, fiber.NewError(fiber.StatusUnauthorized, "Invalid token")
	}
	db := s.DB.WithContext(ctx)
	blacklisted, err := authRepo.IsTokenBlacklisted(db, s.Tokens.AccessHash(raw), now)
	if err != nil {
		return nil, helperAuth.Actor{}, err
	}
	if blacklisted {
		return nil, helperAuth.Actor{}, ErrSessionRevoked
	}
	u, err := authRepo.FindUserByID(db, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, helperAuth.Actor{}, ErrUnauthorized
		}
		return nil, helperAuth.Actor{}, err
	}
	if !u.IsActive {
		return nil, helperAuth.Actor{}, ErrAccountBlocked
	}
	a, err := ResolveActor(ctx, s.DB, u)
	if err != nil {
		return nil, helperAuth.Actor{}, err
	}
	return u, a, nil
}

/* ==========================
   ME
========================== */

func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*userModel.UserModel, helperAuth.Actor, error) {
	u, err := authRepo.FindUserByID(s.DB.WithContext(ctx), userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, helperAuth.Actor{}, ErrUnauthorized
		}
		return nil, helperAuth.Actor{}, err
	}
	a, err := ResolveActor(ctx, s.DB, u)
	return u, a, err
}
