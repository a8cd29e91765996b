package crypto

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
)

var nonDigits = regexp.MustCompile(`[^0-9]`)

// NormalizeDNI strips everything that is not a digit ("12.345.678" -> "12345678").
func NormalizeDNI(dni string) string {
	return nonDigits.ReplaceAllString(dni, "")
}

// ValidDNI accepts 7 or 8 digit documents (after normalizing).
func ValidDNI(dniNormalized string) bool {
	n := len(dniNormalized)
	return n == 7 || n == 8
}

// DNIHash returns the SHA-256 of the normalized DNI in hex, for equality
// lookups without decrypting.
func DNIHash(dniNormalized string) string {
	h := sha256.Sum256([]byte(dniNormalized))
	return hex.EncodeToString(h[:])
}
