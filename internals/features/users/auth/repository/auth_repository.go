package repository

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	authModel "classroom_backend/internals/features/users/auth/model"
	userModel "classroom_backend/internals/features/users/user/model"
)

/* ====================== USER ====================== */

// FindUserByIdentifier: email atau user_name, case-insensitive
func FindUserByIdentifier(db *gorm.DB, identifier string) (*userModel.UserModel, error) {
	id := strings.ToLower(strings.TrimSpace(identifier))
	var user userModel.UserModel
	if err := db.Where("LOWER(email) = ? OR LOWER(user_name) = ?", id, id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func FindUserByGoogleID(db *gorm.DB, googleID string) (*userModel.UserModel, error) {
	var user userModel.UserModel
	if err := db.Where("google_id = ?", googleID).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func FindUserByID(db *gorm.DB, userID uuid.UUID) (*userModel.UserModel, error) {
	var user userModel.UserModel
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func FindUserByEmail(db *gorm.DB, email string) (*userModel.UserModel, error) {
	var user userModel.UserModel
	if err := db.Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func IsUserNameTaken(db *gorm.DB, userName string) (bool, error) {
	var n int64
	err := db.Model(&userModel.UserModel{}).
		Where("LOWER(user_name) = ?", strings.ToLower(strings.TrimSpace(userName))).
		Count(&n).Error
	return n > 0, err
}

func CreateUser(db *gorm.DB, user *userModel.UserModel) error {
	return db.Create(user).Error
}

func UpdateUserPassword(db *gorm.DB, userID uuid.UUID, hash string) error {
	return db.Model(&userModel.UserModel{}).Where("id = ?", userID).Update("password", hash).Error
}

func TouchLastLogin(db *gorm.DB, userID uuid.UUID, at time.Time) error {
	return db.Model(&userModel.UserModel{}).Where("id = ?", userID).Update("last_login_at", at).Error
}

/* ====================== REFRESH TOKEN ====================== */

func CreateRefreshToken(db *gorm.DB, rt *authModel.RefreshToken) error {
	return db.Create(rt).Error
}

// FindRefreshTokenByHash: baris apa pun (revoked/expired dicek pemanggil via Usable)
func FindRefreshTokenByHash(db *gorm.DB, hash string) (*authModel.RefreshToken, error) {
	var rt authModel.RefreshToken
	if err := db.Where("token_hash = ?", hash).First(&rt).Error; err != nil {
		return nil, err
	}
	return &rt, nil
}

func DeleteRefreshTokenByHash(db *gorm.DB, hash string) error {
	return db.Where("token_hash = ?", hash).Delete(&authModel.RefreshToken{}).Error
}

// RevokeUserRefreshTokens: dipakai setelah ganti password
func RevokeUserRefreshTokens(db *gorm.DB, userID uuid.UUID, at time.Time) error {
	return db.Model(&authModel.RefreshToken{}).
		Where("user_id = ? AND revoked_at IS NULL", userID).
		Update("revoked_at", at).Error
}

func DeleteExpiredRefreshTokens(db *gorm.DB, before time.Time) (int64, error) {
	res := db.Where("expires_at < ?", before).Delete(&authModel.RefreshToken{})
	return res.RowsAffected, res.Error
}

/* ====================== BLACKLIST TOKEN ====================== */

// BlacklistToken: idempotent; token = HMAC hex dari access token
func BlacklistToken(db *gorm.DB, tokenHash string, expiredAt time.Time) error {
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "token"}},
		DoUpdates: clause.AssignmentColumns([]string{"expired_at"}),
	}).Create(&authModel.TokenBlacklist{
		Token:     tokenHash,
		ExpiredAt: expiredAt.UTC(),
	}).Error
}

func IsTokenBlacklisted(db *gorm.DB, tokenHash string, now time.Time) (bool, error) {
	var n int64
	err := db.Model(&authModel.TokenBlacklist{}).
		Where("token = ? AND expired_at > ?", tokenHash, now.UTC()).
		Count(&n).Error
	return n > 0, err
}

func CleanupExpiredBlacklist(db *gorm.DB, before time.Time) (int64, error) {
	res := db.Where("expired_at < ?", before.UTC()).Delete(&authModel.TokenBlacklist{})
	return res.RowsAffected, res.Error
}
