package controller

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"classroom_backend/internals/configs"
	"classroom_backend/internals/features/users/auth/dto"
	"classroom_backend/internals/features/users/auth/service"
	helper "classroom_backend/internals/helpers"
	helperAuth "classroom_backend/internals/helpers/auth"
)

var validateAuth = helper.NewValidator()

type AuthController struct {
	DB  *gorm.DB
	Svc *service.AuthService
}

func NewAuthController(db *gorm.DB, svc *service.AuthService) *AuthController {
	return &AuthController{DB: db, Svc: svc}
}

func clientMeta(c *fiber.Ctx) service.ClientMeta {
	return service.ClientMeta{UserAgent: c.Get(fiber.HeaderUserAgent), IP: c.IP()}
}

func cookie(name, value string, expires time.Time) *fiber.Cookie {
	ck := &fiber.Cookie{
		Name:     name,
		Value:    value,
		HTTPOnly: true,
		Path:     "/",
		Expires:  expires,
		SameSite: fiber.CookieSameSiteLaxMode,
	}
	if configs.IsProduction() {
		ck.Secure = true
		ck.SameSite = fiber.CookieSameSiteNoneMode
	}
	return ck
}

func setAuthCookies(c *fiber.Ctx, t service.TokenPair) {
	c.Cookie(cookie("access_token", t.AccessToken, t.AccessExpiresAt))
	c.Cookie(cookie("refresh_token", t.RefreshToken, t.RefreshExpiresAt))
}

func clearAuthCookies(c *fiber.Ctx) {
	expired := time.Now().Add(-time.Hour)
	for _, name := range []string{"access_token", "refresh_token"} {
		ck := cookie(name, "", expired)
		ck.MaxAge = -1
		c.Cookie(ck)
	}
}

func sessionResponse(c *fiber.Ctx, s *service.Session) dto.SessionResponse {
	setAuthCookies(c, s.Tokens)
	return dto.SessionResponse{
		User:             dto.NewMeResponse(s.User, s.Actor),
		AccessToken:      s.Tokens.AccessToken,
		RefreshToken:     s.Tokens.RefreshToken,
		AccessExpiresAt:  s.Tokens.AccessExpiresAt,
		RefreshExpiresAt: s.Tokens.RefreshExpiresAt,
	}
}

// POST /api/auth/register
func (ac *AuthController) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	req.Normalize()
	if err := validateAuth.Struct(&req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrors(err))
	}
	sess, res, err := ac.Svc.Register(c.UserContext(), req, clientMeta(c))
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if !res.OK() {
		return helper.JsonResult(c, res, nil)
	}
	return helper.JsonCreated(c, res.Message, sessionResponse(c, sess))
}

// POST /api/auth/login
func (ac *AuthController) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	req.Normalize()
	if err := validateAuth.Struct(&req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrors(err))
	}
	sess, err := ac.Svc.Login(c.UserContext(), req, clientMeta(c))
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "Login successful", sessionResponse(c, sess))
}

// POST /api/auth/login-google
func (ac *AuthController) LoginGoogle(c *fiber.Ctx) error {
	var req dto.GoogleLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := validateAuth.Struct(&req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrors(err))
	}
	sess, err := ac.Svc.LoginGoogle(c.UserContext(), req.IDToken, clientMeta(c))
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "Login successful", sessionResponse(c, sess))
}

// POST /api/auth/refresh-token
func (ac *AuthController) RefreshToken(c *fiber.Ctx) error {
	sess, err := ac.Svc.Refresh(c.UserContext(), helper.GetRefreshToken(c), clientMeta(c))
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "Token refreshed", sessionResponse(c, sess))
}

// POST /api/auth/logout
func (ac *AuthController) Logout(c *fiber.Ctx) error {
	if err := ac.Svc.Logout(c.UserContext(), helper.GetRawAccessToken(c), helper.GetRefreshToken(c)); err != nil {
		return helper.FromFiberError(c, err)
	}
	clearAuthCookies(c)
	return helper.JsonOK(c, "Logout successful", nil)
}

// GET /api/auth/me
func (ac *AuthController) Me(c *fiber.Ctx) error {
	a, err := helperAuth.GetActor(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	u, actor, err := ac.Svc.Me(c.UserContext(), a.UserID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "ok", dto.NewMeResponse(u, actor))
}

// POST /api/auth/change-password
func (ac *AuthController) ChangePassword(c *fiber.Ctx) error {
	a, err := helperAuth.GetActor(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var req dto.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := validateAuth.Struct(&req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrors(err))
	}
	res, err := ac.Svc.ChangePassword(c.UserContext(), a.UserID, req)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonResult(c, res, nil)
}
