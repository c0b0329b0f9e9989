package password

import "strings"

const minLength = 8

// specials are the symbols accepted by the strength policy.
const specials = "@$!%*?&"

// IsStrong requires at least 8 characters with an upper case letter, a lower
// case letter, a digit and one of @$!%*?&. No other characters are allowed.
func IsStrong(p string) bool {
	if len(p) < minLength {
		return false
	}

	var upper, lower, digit, special bool
	for _, r := range p {
		switch {
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(specials, r):
			special = true
		default:
			return false
		}
	}
	return upper && lower && digit && special
}
