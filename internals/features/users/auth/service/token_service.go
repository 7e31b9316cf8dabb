package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	userModel "classroom_backend/internals/features/users/user/model"
)

const (
	accessTTLDefault  = 24 * time.Hour
	refreshTTLDefault = 7 * 24 * time.Hour

	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrExpiredToken  = errors.New("token expired")
	ErrMissingSecret = errors.New("jwt secret is not configured")
)

// TokenIssuer menandatangani & memverifikasi access/refresh JWT (HS256)
type TokenIssuer struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

func NewTokenIssuer(accessSecret, refreshSecret string) *TokenIssuer {
	if refreshSecret == "" {
		refreshSecret = accessSecret
	}
	return &TokenIssuer{
		AccessSecret:  accessSecret,
		RefreshSecret: refreshSecret,
		AccessTTL:     accessTTLDefault,
		RefreshTTL:    refreshTTLDefault,
	}
}

type TokenPair struct {
	AccessToken      string    `json:"access_token"`
	RefreshToken     string    `json:"refresh_token"`
	AccessExpiresAt  time.Time `json:"access_expires_at"`
	RefreshExpiresAt time.Time `json:"refresh_expires_at"`
}

// Claims hasil parse
type Claims struct {
	Type      string
	UserID    uuid.UUID
	UserName  string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

func buildAccessClaims(u *userModel.UserModel, now time.Time, ttl time.Duration) jwt.MapClaims {
	return jwt.MapClaims{
		"typ":       TokenTypeAccess,
		"sub":       u.ID.String(),
		"id":        u.ID.String(),
		"user_name": u.UserName,
		"iat":       now.Unix(),
		"exp":       now.Add(ttl).Unix(),
	}
}

func buildRefreshClaims(userID uuid.UUID, now time.Time, ttl time.Duration) jwt.MapClaims {
	return jwt.MapClaims{
		"typ": TokenTypeRefresh,
		"sub": userID.String(),
		"id":  userID.String(),
		// jti membuat dua refresh yang diterbitkan di detik yang sama tetap beda hash
		"jti": uuid.NewString(),
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	}
}

func sign(claims jwt.MapClaims, secret string) (string, error) {
	if secret == "" {
		return "", ErrMissingSecret
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// Issue: pasangan token baru untuk user
func (ti *TokenIssuer) Issue(u *userModel.UserModel, now time.Time) (TokenPair, error) {
	now = now.UTC()
	access, err := sign(buildAccessClaims(u, now, ti.AccessTTL), ti.AccessSecret)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := sign(buildRefreshClaims(u.ID, now, ti.RefreshTTL), ti.RefreshSecret)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{
		AccessToken:      access,
		RefreshToken:     refresh,
		AccessExpiresAt:  time.Unix(now.Add(ti.AccessTTL).Unix(), 0).UTC(),
		RefreshExpiresAt: time.Unix(now.Add(ti.RefreshTTL).Unix(), 0).UTC(),
	}, nil
}

// parse: exp dicek manual terhadap now supaya bisa pakai jam test
func parse(raw, secret, wantType string, now time.Time) (*Claims, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	tok, err := parser.Parse(raw, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return nil, ErrInvalidToken
	}
	mc, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	if typ, _ := mc["typ"].(string); typ != wantType {
		return nil, ErrInvalidToken
	}
	sub, _ := mc["sub"].(string)
	userID, err := uuid.Parse(sub)
	if err != nil {
		return nil, ErrInvalidToken
	}
	exp, ok := mc["exp"].(float64)
	if !ok {
		return nil, ErrInvalidToken
	}
	out := &Claims{
		Type:      wantType,
		UserID:    userID,
		ExpiresAt: time.Unix(int64(exp), 0).UTC(),
	}
	if iat, ok := mc["iat"].(float64); ok {
		out.IssuedAt = time.Unix(int64(iat), 0).UTC()
	}
	out.UserName, _ = mc["user_name"].(string)
	if !now.Before(out.ExpiresAt) {
		return out, ErrExpiredToken
	}
	return out, nil
}

func (ti *TokenIssuer) ParseAccess(raw string, now time.Time) (*Claims, error) {
	return parse(raw, ti.AccessSecret, TokenTypeAccess, now)
}

func (ti *TokenIssuer) ParseRefresh(raw string, now time.Time) (*Claims, error) {
	return parse(raw, ti.RefreshSecret, TokenTypeRefresh, now)
}

func hmacHex(msg, secret string) string {
	m := hmac.New(sha256.New, []byte(secret))
	_, _ = m.Write([]byte(msg))
	return hex.EncodeToString(m.Sum(nil))
}

// RefreshHash: yang disimpan di refresh_tokens.token_hash (64 hex)
func (ti *TokenIssuer) RefreshHash(raw string) string {
	return hmacHex(raw, ti.RefreshSecret)
}

// AccessHash: yang disimpan di token_blacklist.token
func (ti *TokenIssuer) AccessHash(raw string) string {
	return hmacHex(raw, ti.AccessSecret)
}
