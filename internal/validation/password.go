// Package validation provides input validation for user-supplied fields.
package validation

import (
	"fmt"
	"regexp"
	"unicode"
)

const (
	minPasswordLen = 12
	maxPasswordLen = 128
	maxEmailLen    = 254
)

var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_-]{1,28}[a-zA-Z0-9]$`)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9\-]+(\.[a-zA-Z0-9\-]+)*\.[a-zA-Z]{2,}$`)

// ValidatePassword enforces length and character-class requirements.
func ValidatePassword(password string) error {
	runes := []rune(password)
	if len(runes) < minPasswordLen {
		return fmt.Errorf("password must be at least %d characters", minPasswordLen)
	}
	if len(runes) > maxPasswordLen {
		return fmt.Errorf("password must be at most %d characters", maxPasswordLen)
	}

	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range runes {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasSpecial = true
		}
	}

	if !hasUpper {
		return fmt.Errorf("password must contain an uppercase letter")
	}
	if !hasLower {
		return fmt.Errorf("password must contain a lowercase letter")
	}
	if !hasDigit {
		return fmt.Errorf("password must contain a digit")
	}
	if !hasSpecial {
		return fmt.Errorf("password must contain a special character")
	}

	return nil
}

// ValidateUsername enforces format: 3-30 characters, letters, digits,
// underscores and hyphens, and the first and last characters must be
// alphanumeric.
func ValidateUsername(username string) error {
	if !usernameRegex.MatchString(username) {
		return fmt.Errorf("username must be 3-30 characters, contain only letters, digits, underscores, and hyphens, and start and end with a letter or digit")
	}
	return nil
}

// ValidateEmail enforces a basic email shape and the RFC length cap.
func ValidateEmail(email string) error {
	if len(email) > maxEmailLen {
		return fmt.Errorf("email must be at most %d characters", maxEmailLen)
	}
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("invalid email format")
	}
	return nil
}
