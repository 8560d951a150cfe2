package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Validation errors
var (
	ErrInvalidCustomerName = errors.New("invalid customer name")
	ErrInvalidEmail        = errors.New("invalid email format")
	ErrDescriptionTooLong  = errors.New("description exceeds maximum length")
	ErrInvalidIDFormat     = errors.New("invalid ID format")
)

// Validation constants
const (
	MaxCustomerNameLength = 255
	MinCustomerNameLength = 1
	MaxDescriptionLength  = 512
	ulidLength            = 26
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	ulidRegex  = regexp.MustCompile(`^[0-9A-HJKMNP-TV-Z]{26}$`)
)

// ValidateCustomerName validates the customer display name.
func ValidateCustomerName(name string) error {
	name = strings.TrimSpace(name)

	if len(name) < MinCustomerNameLength {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidCustomerName)
	}

	if len(name) > MaxCustomerNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidCustomerName, MaxCustomerNameLength)
	}

	return nil
}

// ValidateEmail validates email format.
func ValidateEmail(email string) error {
	email = strings.TrimSpace(strings.ToLower(email))

	if !emailRegex.MatchString(email) {
		return ErrInvalidEmail
	}

	return nil
}

// ValidateDescription validates an operation or transfer description.
// Empty descriptions are allowed.
func ValidateDescription(description string) error {
	if len(description) > MaxDescriptionLength {
		return fmt.Errorf("%w: %d > %d", ErrDescriptionTooLong, len(description), MaxDescriptionLength)
	}

	return nil
}

// ValidateID checks that an identifier looks like a ULID.
func ValidateID(id string) error {
	if len(id) != ulidLength || !ulidRegex.MatchString(id) {
		return fmt.Errorf("%w: %q", ErrInvalidIDFormat, id)
	}

	return nil
}

// ValidatePagination clamps pagination parameters to safe bounds.
func ValidatePagination(limit, offset int) (int, int) {
	const maxPageSize = 1000
	const defaultPageSize = 50

	if limit <= 0 {
		limit = defaultPageSize
	}

	if limit > maxPageSize {
		limit = maxPageSize
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset
}
