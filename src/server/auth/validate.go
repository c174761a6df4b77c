package auth

import (
	"regexp"
	"strings"
)

// Password length bounds in bytes. bcrypt ignores or rejects input past 72 bytes.
const (
	MinPasswordLength = 5
	MaxPasswordLength = 72
)

var emailPattern = regexp.MustCompile(`^[a-z0-9.!#$%&'*+/=?^_` + "`" + `{|}~-]+@[a-z0-9](?:[a-z0-9-]{0,61}[a-z0-9])?(?:\.[a-z0-9](?:[a-z0-9-]{0,61}[a-z0-9])?)+$`)

// ValidEmail reports whether username looks like an email address. Matching
// is case-insensitive.
func ValidEmail(username string) bool {
	return emailPattern.MatchString(strings.ToLower(username))
}

func ValidPassword(password string) bool {
	return len(password) >= MinPasswordLength && len(password) <= MaxPasswordLength
}
