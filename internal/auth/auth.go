// Package auth covers admin identity checks and pseudonym hashing.
// Admin accounts are a small whitelist of gameId/uid pairs supplied
// through the environment; everything else is anonymous.
package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/rs/zerolog/log"
)

// Whitelist maps admin game nicknames to their uid secret.
type Whitelist map[string]string

// ParseWhitelist decodes the ADMIN_WHITELIST env value. A malformed
// value yields an empty whitelist rather than a startup failure.
func ParseWhitelist(raw string) Whitelist {
	if raw == "" {
		return Whitelist{}
	}
	var wl Whitelist
	if err := json.Unmarshal([]byte(raw), &wl); err != nil {
		log.Warn().Str("module", "auth").Err(err).Msg("ADMIN_WHITELIST parse failed, using empty whitelist")
		return Whitelist{}
	}
	return wl
}

// IsAdmin reports whether gameID belongs to a whitelisted admin,
// without checking credentials.
func (w Whitelist) IsAdmin(gameID string) bool {
	_, ok := w[gameID]
	return ok
}

// Verify checks an admin login attempt.
func (w Whitelist) Verify(gameID, uid string) bool {
	want, ok := w[gameID]
	return ok && want == uid
}

// Hasher produces the server-side pseudonym hashes stored alongside
// edits and roster submissions. The raw pseudonym never hits disk.
type Hasher struct {
	salt []byte
}

func NewHasher(salt string) *Hasher {
	if salt == "" {
		salt = "dev-fallback-salt"
	}
	return &Hasher{salt: []byte(salt)}
}

// Hash returns hex(HMAC-SHA256(salt, pseudonym)).
func (h *Hasher) Hash(pseudonym string) string {
	mac := hmac.New(sha256.New, h.salt)
	mac.Write([]byte(pseudonym))
	return hex.EncodeToString(mac.Sum(nil))
}
