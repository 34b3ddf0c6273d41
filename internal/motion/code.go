package motion

import (
	"crypto/rand"
	"math/big"
	"strings"
)

// CodeLength is the length of a pairing code.
const CodeLength = 6

// codeChars leaves out characters that are easy to confuse on a phone keyboard.
const codeChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

func generateCode(n int) string {
	b := make([]byte, n)
	limit := big.NewInt(int64(len(codeChars)))
	for i := range b {
		idx, _ := rand.Int(rand.Reader, limit)
		b[i] = codeChars[idx.Int64()]
	}
	return string(b)
}

// NormalizeCode upper-cases and trims a code typed by a player.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// ValidCode reports whether code has the right length and alphabet.
func ValidCode(code string) bool {
	if len(code) != CodeLength {
		return false
	}
	for _, r := range code {
		if !strings.ContainsRune(codeChars, r) {
			return false
		}
	}
	return true
}
