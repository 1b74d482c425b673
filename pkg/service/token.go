package service

import (
	"crypto/rand"
	"math/big"
	"regexp"
	"strings"
)

// tokenBytes is the entropy of a share token (128 bits).
const tokenBytes = 16

const base62Chars = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

var tokenRegex = regexp.MustCompile(`^[0-9A-Za-z]{1,64}$`)

// TokenGenerator produces share tokens. Swappable in tests.
type TokenGenerator func() string

// GenerateToken returns a URL-safe base62 token drawn from crypto/rand.
func GenerateToken() string {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		panic("share token entropy unavailable: " + err.Error())
	}
	return toBase62(b)
}

func toBase62(b []byte) string {
	n := new(big.Int).SetBytes(b)
	if n.Sign() == 0 {
		return "0"
	}
	base := big.NewInt(62)
	mod := new(big.Int)
	var result strings.Builder
	for n.Sign() > 0 {
		n.DivMod(n, base, mod)
		result.WriteByte(base62Chars[mod.Int64()])
	}
	return reverse(result.String())
}

func reverse(s string) string {
	runes := []rune(s)
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		runes[i], runes[j] = runes[j], runes[i]
	}
	return string(runes)
}

// ValidateToken reports whether token has the shape of an issued token.
// Anything else cannot resolve and is rejected before touching storage.
func ValidateToken(token string) bool {
	return tokenRegex.MatchString(token)
}
