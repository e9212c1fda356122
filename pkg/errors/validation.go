package errors

import (
	"regexp"
	"strings"
)

// MaxNetNameLength is the longest accepted net signal name.
const MaxNetNameLength = 32

// netNameRegex matches the characters allowed in circuit identifiers.
var netNameRegex = regexp.MustCompile(`^[-a-zA-Z0-9_+/!?@#$]+$`)

// ValidateNetName validates a net signal name.
//
// The rules follow circuit identifiers of schematic editors:
//   - No empty names
//   - Maximum length of 32 characters
//   - Only letters, digits and -_+/!?@#$ (no whitespace)
func ValidateNetName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidNetName, "net name cannot be empty")
	}

	if len(name) > MaxNetNameLength {
		return New(ErrCodeInvalidNetName, "net name too long (max %d characters)", MaxNetNameLength)
	}

	if !netNameRegex.MatchString(name) {
		return New(ErrCodeInvalidNetName, "invalid net name: %q", name)
	}

	return nil
}

// ValidateNamePrefix validates the prefix used for auto-generated net names.
// The prefix must itself be a valid net name without trailing digits, so
// that generated names never collide with the numbering.
func ValidateNamePrefix(prefix string) error {
	if err := ValidateNetName(prefix); err != nil {
		return Wrap(ErrCodeInvalidInput, err, "invalid auto-name prefix")
	}
	if strings.IndexAny(prefix[len(prefix)-1:], "0123456789") == 0 {
		return New(ErrCodeInvalidInput, "auto-name prefix %q must not end with a digit", prefix)
	}
	return nil
}
