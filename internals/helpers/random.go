package helper

import (
	"crypto/rand"
	"encoding/base64"
	"math/big"
	"strings"
)

const digits = "0123456789"

// RandomCode: n karakter acak dari alphabet (crypto/rand)
func RandomCode(alphabet string, n int) (string, error) {
	var b strings.Builder
	b.Grow(n)
	for i := 0; i < n; i++ {
		x, err := rand.Int(rand.Reader, big.NewInt(int64(len(alphabet))))
		if err != nil {
			return "", err
		}
		b.WriteByte(alphabet[x.Int64()])
	}
	return b.String(), nil
}

func RandomDigits(n int) (string, error) {
	return RandomCode(digits, n)
}

// RandomURLToken: nBytes byte acak, base64 url-safe tanpa padding
func RandomURLToken(nBytes int) (string, error) {
	buf := make([]byte, nBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
