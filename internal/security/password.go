package security

import (
	"strings"
	"unicode"

	"github.com/AlexZinkM/evm-wallet/internal/errs"
)

const (
	minPasswordLength = 8
	requiredClasses   = 4
)

// ValidatePassword accepts a password meeting at least 4 of: length >= 8,
// an uppercase letter, a lowercase letter, a digit, a special character.
func ValidatePassword(password []byte) error {
	var hasLength, hasUpper, hasLower, hasDigit, hasSpecial bool

	hasLength = len([]rune(string(password))) >= minPasswordLength
	for _, ch := range string(password) {
		switch {
		case unicode.IsUpper(ch):
			hasUpper = true
		case unicode.IsLower(ch):
			hasLower = true
		case unicode.IsDigit(ch):
			hasDigit = true
		case unicode.IsSpace(ch):
			// Spaces are allowed but not counted as special
		case unicode.IsPunct(ch) || unicode.IsSymbol(ch):
			hasSpecial = true
		}
	}

	var missing []string
	met := 0
	for _, c := range []struct {
		ok   bool
		name string
	}{
		{hasLength, "at least 8 characters"},
		{hasUpper, "an uppercase letter"},
		{hasLower, "a lowercase letter"},
		{hasDigit, "a digit"},
		{hasSpecial, "a special character"},
	} {
		if c.ok {
			met++
		} else {
			missing = append(missing, c.name)
		}
	}

	if met < requiredClasses {
		return errs.Validation("password too weak: add %s", strings.Join(missing, ", "))
	}
	return nil
}
