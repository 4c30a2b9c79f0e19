// Package utils provides utility functions.
package utils

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode"
)

// Slugify returns a URL-safe slug derived from the given name. Letters and
// digits are lower-cased and kept, underscores are kept, and runs of
// spaces and hyphens collapse into a single hyphen.
func Slugify(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))

	var b strings.Builder
	dash := false
	for _, r := range name {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_':
			b.WriteRune(r)
			dash = false
		case r == ' ' || r == '-':
			if !dash && b.Len() > 0 {
				b.WriteRune('-')
				dash = true
			}
		}
	}

	return strings.TrimRight(b.String(), "-")
}

// ValidateEmail returns an error if the given email address is invalid.
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return fmt.Errorf("email cannot be empty")
	}

	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return fmt.Errorf("invalid email address %q", email)
	}

	return nil
}
