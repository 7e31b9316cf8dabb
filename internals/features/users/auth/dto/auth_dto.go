package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"classroom_backend/internals/constants"
	peopleDto "classroom_backend/internals/features/school/people/dto"
	userModel "classroom_backend/internals/features/users/user/model"
	helperAuth "classroom_backend/internals/helpers/auth"
)

/* ===================== REQUEST ===================== */

// RegisterRequest: akun + profil student sekaligus
type RegisterRequest struct {
	UserName        string `json:"user_name"        validate:"required,min=3,max=50"`
	Password        string `json:"password"         validate:"required,min=8,max=72"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
	peopleDto.PersonRequest
}

func (r *RegisterRequest) Normalize() {
	r.UserName = strings.TrimSpace(r.UserName)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.FullName = strings.TrimSpace(r.FullName)
}

type LoginRequest struct {
	Identifier string `json:"identifier" validate:"required,max=255"`
	Password   string `json:"password"   validate:"required"`
}

func (r *LoginRequest) Normalize() {
	r.Identifier = strings.TrimSpace(r.Identifier)
}

type GoogleLoginRequest struct {
	IDToken string `json:"id_token" validate:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword    string `json:"current_password"`
	NewPassword        string `json:"new_password"         validate:"required,min=8,max=72"`
	NewPasswordConfirm string `json:"new_password_confirm" validate:"required,eqfield=NewPassword"`
}

/* ===================== RESPONSE ===================== */

type MeResponse struct {
	ID           uuid.UUID      `json:"id"`
	UserName     string         `json:"user_name"`
	Email        string         `json:"email"`
	Role         constants.Role `json:"role"`
	ProfileID    *uuid.UUID     `json:"profile_id,omitempty"`
	FullName     string         `json:"full_name,omitempty"`
	HasPassword  bool           `json:"has_password"`
	GoogleLinked bool           `json:"google_linked"`
	LastLoginAt  *time.Time     `json:"last_login_at,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
}

func NewMeResponse(u *userModel.UserModel, a helperAuth.Actor) MeResponse {
	out := MeResponse{
		ID:           u.ID,
		UserName:     u.UserName,
		Email:        u.Email,
		Role:         a.Role,
		FullName:     a.FullName,
		HasPassword:  u.HasPassword(),
		GoogleLinked: u.GoogleID != nil && *u.GoogleID != "",
		LastLoginAt:  u.LastLoginAt,
		CreatedAt:    u.CreatedAt,
	}
	if a.ProfileID != uuid.Nil {
		id := a.ProfileID
		out.ProfileID = &id
	}
	return out
}

type SessionResponse struct {
	User             MeResponse `json:"user"`
	AccessToken      string     `json:"access_token"`
	RefreshToken     string     `json:"refresh_token"`
	AccessExpiresAt  time.Time  `json:"access_expires_at"`
	RefreshExpiresAt time.Time  `json:"refresh_expires_at"`
}

// CreateAdminAccountRequest: dipakai CLI create-admin (bootstrap admin pertama)
type CreateAdminAccountRequest struct {
	UserName string `json:"user_name" validate:"required,min=3,max=50"`
	Password string `json:"password"  validate:"required,min=8,max=72"`
	Position string `json:"position"  validate:"omitempty,max=100"`
	peopleDto.PersonRequest
}

func (r *CreateAdminAccountRequest) Normalize() {
	r.UserName = strings.TrimSpace(r.UserName)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.FullName = strings.TrimSpace(r.FullName)
	r.Position = strings.TrimSpace(r.Position)
}
