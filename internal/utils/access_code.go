package utils

import (
	"crypto/rand"
	"math/big"
	"strings"
)

// AccessCodeLength is the number of characters in a guest access code.
const AccessCodeLength = 6

// accessAlphabet leaves out 0/O and 1/I/L so codes survive being read aloud.
const accessAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

// NewAccessCode draws a random guest access code.
func NewAccessCode() (string, error) {
	var b strings.Builder
	max := big.NewInt(int64(len(accessAlphabet)))
	for i := 0; i < AccessCodeLength; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b.WriteByte(accessAlphabet[n.Int64()])
	}
	return b.String(), nil
}

// NormalizeAccessCode upper-cases a code typed by a guest and drops
// separators.
func NormalizeAccessCode(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	return strings.NewReplacer("-", "", " ", "").Replace(code)
}

// ValidAccessCode reports whether code is a well-formed normalized code.
func ValidAccessCode(code string) bool {
	if len(code) != AccessCodeLength {
		return false
	}
	for i := 0; i < len(code); i++ {
		if !strings.ContainsRune(accessAlphabet, rune(code[i])) {
			return false
		}
	}
	return true
}
