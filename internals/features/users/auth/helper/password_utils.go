package helper

import (
	"errors"
	"regexp"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

var ErrPasswordMismatch = errors.New("password mismatch")

var (
	reLetter = regexp.MustCompile(`[A-Za-z]`)
	reDigit  = regexp.MustCompile(`[0-9]`)
)

// IsStrongPassword: minimal ada huruf dan angka (panjang dicek validator)
func IsStrongPassword(s string) bool {
	return reLetter.MatchString(s) && reDigit.MatchString(s)
}

func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CheckPasswordHash: hash kosong (akun google-only) selalu gagal
func CheckPasswordHash(hash *string, password string) error {
	if hash == nil || strings.TrimSpace(*hash) == "" {
		return ErrPasswordMismatch
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*hash), []byte(password)); err != nil {
		return ErrPasswordMismatch
	}
	return nil
}
