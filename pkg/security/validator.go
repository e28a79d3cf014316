package security

import (
	"errors"
	"unicode"
	"unicode/utf8"
)

const (
	// MaxFilterValueLength bounds exact-match filter values (longest legal email address)
	MaxFilterValueLength = 320
)

var (
	errFilterTooLong     = errors.New("filter value too long")
	errFilterInvalidUTF8 = errors.New("filter value is not valid UTF-8")
	errFilterControlChar = errors.New("filter value contains control characters")
)

// ValidateFilterValue checks an exact-match filter value (email, company name).
// Values are bound as query parameters on both backends, so only inputs that
// would make the drivers fail are rejected: oversized values, broken UTF-8 and
// control characters such as NUL, which PostgreSQL refuses in text columns.
func ValidateFilterValue(value string) error {
	if value == "" {
		return nil
	}

	if len(value) > MaxFilterValueLength {
		return errFilterTooLong
	}

	if !utf8.ValidString(value) {
		return errFilterInvalidUTF8
	}

	for _, char := range value {
		if unicode.IsControl(char) {
			return errFilterControlChar
		}
	}

	return nil
}
