package domain

import (
	"errors"
	"regexp"
	"strings"
)

const MaxDisplayNameLen = 40

var (
	ErrNameEmpty   = errors.New("display name empty")
	ErrNameInvalid = errors.New("display name invalid")
)

var (
	emailLikeRe  = regexp.MustCompile(`[^\x20-\x7F]*[\w.+-]+@[\w-]+\.[\w.-]+`)
	domainLikeRe = regexp.MustCompile(`(?i)\.(?:com|net|org|io|app|dev)$`)
	allowedRe    = regexp.MustCompile(`^[\p{L}\p{N} _-]+$`)
)

// SanitizeDisplayName trims and strips angle brackets. It does not
// validate; call ValidateDisplayName on the result.
func SanitizeDisplayName(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.ReplaceAll(s, "<", "")
	return strings.ReplaceAll(s, ">", "")
}

// ValidateDisplayName rejects empty, overlong, email-like and
// domain-suffixed names. Letters, digits, spaces, underscores and
// dashes are allowed.
func ValidateDisplayName(name string) error {
	s := strings.TrimSpace(name)
	if len(s) == 0 {
		return ErrNameEmpty
	}
	if len([]rune(s)) > MaxDisplayNameLen {
		return ErrNameInvalid
	}
	if emailLikeRe.MatchString(s) || domainLikeRe.MatchString(s) {
		return ErrNameInvalid
	}
	if !allowedRe.MatchString(s) {
		return ErrNameInvalid
	}
	return nil
}
