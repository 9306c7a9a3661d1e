package util

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// NormalizeText canonicalizes text for hashing: trim, then lowercase.
func NormalizeText(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// HashContent returns the hex SHA-256 digest of the normalized text.
// Inputs differing only in surrounding whitespace or case hash equal.
func HashContent(s string) string {
	sum := sha256.Sum256([]byte(NormalizeText(s)))
	return hex.EncodeToString(sum[:])
}

// HashUserKey returns a filesystem-safe identifier for a user ID.
func HashUserKey(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
