package entities

import (
	"regexp"
	"strings"
)

var (
	addressRegexp = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)
	hashRegexp    = regexp.MustCompile(`^0x[0-9a-f]{64}$`)
)

// IsAddress checks if s is a well-formed wallet address.
func IsAddress(s string) bool {
	return addressRegexp.MatchString(s)
}

// NormalizeAddress returns canonical lower-case form of the address.
// Hex addresses are case-insensitive, so every stored or compared address is normalized.
func NormalizeAddress(s string) string {
	return strings.ToLower(s)
}

// IsHash checks if s is a well-formed content-hash.
func IsHash(s string) bool {
	return hashRegexp.MatchString(s)
}

// IsRefKind checks if k is a known reference kind.
func IsRefKind(k RefKind) bool {
	return k == PostRefKind || k == CommentRefKind
}
