package domain

import (
	"fmt"
	"regexp"
	"strings"
)

// Validation constants
const (
	MinFullNameLength = 2
	MaxFullNameLength = 255
	MaxEmailLength    = 254
	MaxReasonLength   = 500
	MaxPageSize       = 1000
	DefaultPageSize   = 50
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	phoneRegex = regexp.MustCompile(`^\+?[1-9]\d{1,14}$`)

	phoneSeparators = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "")
)

// NormalizeFullName trims and validates a customer's full name.
func NormalizeFullName(name string) (string, error) {
	name = strings.TrimSpace(name)

	if len(name) < MinFullNameLength {
		return "", fmt.Errorf("%w: full name must be at least %d characters", ErrValidation, MinFullNameLength)
	}
	if len(name) > MaxFullNameLength {
		return "", fmt.Errorf("%w: full name exceeds %d characters", ErrValidation, MaxFullNameLength)
	}

	return name, nil
}

// NormalizeEmail lowercases and validates an email address.
func NormalizeEmail(email string) (string, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	if len(email) > MaxEmailLength || !emailRegex.MatchString(email) {
		return "", fmt.Errorf("%w: invalid email %q", ErrValidation, email)
	}

	return email, nil
}

// NormalizePhone strips separators and validates an E.164-like number.
func NormalizePhone(phone string) (string, error) {
	cleaned := phoneSeparators.Replace(strings.TrimSpace(phone))

	if !phoneRegex.MatchString(cleaned) {
		return "", fmt.Errorf("%w: invalid phone number %q", ErrValidation, phone)
	}

	return cleaned, nil
}

// ValidateReason checks a free-text wallet reason.
func ValidateReason(reason string) error {
	if _, err := normalizeReason(reason); err != nil {
		return err
	}
	if len(reason) > MaxReasonLength {
		return fmt.Errorf("%w: reason exceeds %d characters", ErrValidation, MaxReasonLength)
	}
	return nil
}

// ValidatePagination validates and limits pagination parameters
func ValidatePagination(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultPageSize
	}

	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset
}
