package utils

import (
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	MinAge            = 13
	MaxAge            = 25
	MinNameLength     = 2
	MaxNameLength     = 50
	MinPasswordLength = 8
)

var (
	emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRegex = regexp.MustCompile(`^\+?[\d\s\-()]{10,}$`)
)

// ValidateEmail reports whether email looks like a deliverable address.
func ValidateEmail(email string) bool {
	return validation.Validate(email, validation.Required, validation.Match(emailRegex)) == nil
}

// ValidatePhone accepts an optional leading + and at least ten digits,
// spaces, dashes or parentheses.
func ValidatePhone(phone string) bool {
	return validation.Validate(phone, validation.Required, validation.Match(phoneRegex)) == nil
}

// ValidateName checks the trimmed name is between 2 and 50 characters.
func ValidateName(name string) bool {
	return validation.Validate(strings.TrimSpace(name),
		validation.Required, validation.RuneLength(MinNameLength, MaxNameLength)) == nil
}

// ValidateAge accepts ages 13 through 25 inclusive.
func ValidateAge(age int) bool {
	return age >= MinAge && age <= MaxAge
}

func ValidatePassword(password string) bool {
	return validation.Validate(password,
		validation.Required, validation.RuneLength(MinPasswordLength, 0)) == nil
}
