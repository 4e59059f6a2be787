package auth

import (
	"crypto/sha256"
	"encoding/base64"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// pseudonymSalt versions the derivation; changing it rotates
	// every derived pseudonym at once.
	pseudonymSalt  = "forms.v1"
	pseudonymIters = 150000
	pseudonymBytes = 32
)

// DerivePseudonym turns a passphrase into a stable pseudonym using
// PBKDF2-SHA256, returned base64url without padding. Clients derive
// the same value locally; this server-side copy exists for tooling
// and tests.
func DerivePseudonym(passphrase string) string {
	key := pbkdf2.Key([]byte(passphrase), []byte(pseudonymSalt), pseudonymIters, pseudonymBytes, sha256.New)
	return base64.RawURLEncoding.EncodeToString(key)
}
