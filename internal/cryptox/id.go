// Package cryptox derives stable identifiers from user input.
package cryptox

import (
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/blake2b"
)

// LocalUserPrefix marks identities synthesized on the device.
const LocalUserPrefix = "local-user-"

// LocalUserID derives the fallback identity for an email address. The same
// email (compared case-insensitively, surrounding spaces ignored) always maps
// to the same id. It is an identifier, not a credential.
func LocalUserID(email string) string {
	norm := strings.ToLower(strings.TrimSpace(email))
	sum := blake2b.Sum256([]byte(norm))
	return LocalUserPrefix + hex.EncodeToString(sum[:8])
}

// IsLocalUserID reports whether id was produced by LocalUserID.
func IsLocalUserID(id string) bool {
	return strings.HasPrefix(id, LocalUserPrefix)
}
