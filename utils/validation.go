package utils

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Validation constants
const (
	MaxNameLength     = 256
	MaxIdentityLength = 4096
	MaxCiphertextSize = 64 * 1024 // 64KB per metric
	MaxProofSize      = 1024
)

// ValidateConsumerName validates a consumer display name
func ValidateConsumerName(name string) error {
	name = SanitizeString(name)
	if name == "" {
		return fmt.Errorf("name is required")
	}
	if len(name) > MaxNameLength {
		return fmt.Errorf("name exceeds maximum length of %d bytes", MaxNameLength)
	}
	if !utf8.ValidString(name) {
		return fmt.Errorf("name is not valid UTF-8")
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return fmt.Errorf("name contains control characters")
		}
	}
	return nil
}

// ValidateIdentity validates a principal identity passed as an argument
func ValidateIdentity(kind, id string) error {
	if id == "" {
		return fmt.Errorf("%s ID is required", kind)
	}
	if len(id) > MaxIdentityLength {
		return fmt.Errorf("%s ID exceeds maximum length of %d bytes", kind, MaxIdentityLength)
	}
	// composite keys use U+0000 as separator
	if strings.ContainsRune(id, 0) {
		return fmt.Errorf("%s ID contains a NUL character", kind)
	}
	if !utf8.ValidString(id) {
		return fmt.Errorf("%s ID is not valid UTF-8", kind)
	}
	return nil
}

// SanitizeString trims surrounding whitespace
func SanitizeString(input string) string {
	return strings.TrimSpace(input)
}
