package utils

import (
	"regexp"
	"strings"
)

var uuidPattern = regexp.MustCompile(`^(?i)[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

// Request bodies decode optional fields into pointers so that an absent
// field is distinguishable from an empty one.

func IsUndefined[T any](v *T) bool {
	return v == nil
}

func IsNotValidString(v *string) bool {
	return v == nil || strings.TrimSpace(*v) == ""
}

func IsNotValidInteger(v *int) bool {
	return v == nil || *v < 0
}

// IsNotValidUUID accepts only the canonical 8-4-4-4-12 form,
// case-insensitive.
func IsNotValidUUID(v string) bool {
	return !uuidPattern.MatchString(v)
}

// IsValidPassword reports whether v is 8-16 characters long and contains
// at least one digit, one lowercase and one uppercase letter.
func IsValidPassword(v string) bool {
	if len(v) < 8 || len(v) > 16 {
		return false
	}
	var hasDigit, hasLower, hasUpper bool
	for _, r := range v {
		switch {
		case r >= '0' && r <= '9':
			hasDigit = true
		case r >= 'a' && r <= 'z':
			hasLower = true
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		}
	}
	return hasDigit && hasLower && hasUpper
}
