// Package validation holds the pure field validators shared by the enrollment
// and waiting-list submission pipelines. Validators are stateless and
// order-independent; callers run them in a fixed sequence and stop at the
// first failure, so the returned error text is what the client sees.
package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/nyaruka/phonenumbers"
)

const (
	maxNameLength   = 100
	minNameLength   = 2
	maxEmailLength  = 254
	maxPhoneLength  = 20
	maxFieldLength  = 1000
	minReflectChars = 20
)

var (
	namePattern = regexp.MustCompile(`^[a-zA-Z\s'-]+$`)
	validate    = validator.New()
)

// Name checks a person-name field. fieldName is used verbatim in error
// messages ("First name", "Last name", "Child name").
func Name(name, fieldName string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%s is required", fieldName)
	}
	if len(strings.TrimSpace(name)) < minNameLength {
		return fmt.Errorf("%s must be at least %d characters", fieldName, minNameLength)
	}
	if len(name) > maxNameLength {
		return fmt.Errorf("%s is too long", fieldName)
	}
	if !namePattern.MatchString(name) {
		return fmt.Errorf("%s can only contain letters, spaces, hyphens, and apostrophes", fieldName)
	}
	return nil
}

// Email checks address syntax and length.
func Email(email string) error {
	if email == "" {
		return errors.New("Email is required")
	}
	if err := validate.Var(email, "email"); err != nil {
		return errors.New("Invalid email format")
	}
	if len(email) > maxEmailLength {
		return errors.New("Email is too long")
	}
	return nil
}

// Phone checks that the value parses as a valid international number. The
// country code is mandatory: numbers are parsed without a default region, so
// anything not starting with "+" fails the format check. A parse failure is
// an invalid-format result, never a fault.
func Phone(phone string) error {
	if phone == "" {
		return errors.New("Phone number is required")
	}
	num, err := phonenumbers.Parse(phone, "")
	if err != nil {
		return errors.New("Invalid phone number format. Please include country code (e.g., +234)")
	}
	if !phonenumbers.IsValidNumber(num) {
		return errors.New("Invalid phone number")
	}
	if len(phonenumbers.Format(num, phonenumbers.E164)) > maxPhoneLength {
		return errors.New("Phone number is too long")
	}
	return nil
}

// MinLength checks a free-text reflection field against the 20-character
// floor. message is the full client-facing error for the field.
func MinLength(value, message string) error {
	if len(value) < minReflectChars {
		return errors.New(message)
	}
	return nil
}

// Sanitize trims surrounding whitespace and caps the value at 1000
// characters. Applied to every string field after validation, immediately
// before persistence. Idempotent.
func Sanitize(s string) string {
	s = strings.TrimSpace(s)
	if runes := []rune(s); len(runes) > maxFieldLength {
		s = string(runes[:maxFieldLength])
	}
	return s
}

// SanitizeAll maps Sanitize over a list field.
func SanitizeAll(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = Sanitize(v)
	}
	return out
}
