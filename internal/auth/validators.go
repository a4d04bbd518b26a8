// AngelaMos | 2026
// validators.go

package auth

import (
	"regexp"
	"strings"
)

// Bounded email grammar: single '@', local part up to 64 chars, each domain
// label up to 63 chars, whole domain up to 255 chars.
var emailRegex = regexp.MustCompile(
	"^[-!#$%&'*+/0-9=?A-Z^_a-z`{|}~](\\.?[-!#$%&'*+/0-9=?A-Z^_a-z`{|}~])*" +
		"@[a-zA-Z0-9](-*\\.?[a-zA-Z0-9])*\\.[a-zA-Z](-?[a-zA-Z0-9])+$",
)

func ValidEmail(email string) bool {
	if email == "" {
		return false
	}

	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return false
	}

	account, address := parts[0], parts[1]

	if len(account) > 64 {
		return false
	}
	if len(address) > 255 {
		return false
	}

	for _, label := range strings.Split(address, ".") {
		if len(label) > 63 {
			return false
		}
	}

	return emailRegex.MatchString(email)
}

const (
	passwordMinLen  = 12
	passwordMaxLen  = 22
	passwordSymbols = "@$!%*?&"
)

// ValidPassword enforces the composition policy: 12-22 chars drawn from
// letters, digits and the symbol set, with at least one lower, one upper,
// one digit and one symbol.
func ValidPassword(password string) bool {
	if len(password) < passwordMinLen || len(password) > passwordMaxLen {
		return false
	}

	var hasLower, hasUpper, hasDigit, hasSymbol bool

	for _, c := range password {
		switch {
		case c >= 'a' && c <= 'z':
			hasLower = true
		case c >= 'A' && c <= 'Z':
			hasUpper = true
		case c >= '0' && c <= '9':
			hasDigit = true
		case strings.ContainsRune(passwordSymbols, c):
			hasSymbol = true
		default:
			return false
		}
	}

	return hasLower && hasUpper && hasDigit && hasSymbol
}
