package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidateStationID validates a station identifier.
//
// The validation rules are intentionally conservative:
//   - No empty ids
//   - No control characters
//   - No whitespace (ids end up in SVG attributes and cache keys)
//   - Maximum length of 128 characters
func ValidateStationID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidTopology, "station id cannot be empty")
	}

	if len(id) > 128 {
		return New(ErrCodeInvalidTopology, "station id too long (max 128 characters)")
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidTopology, "station id %q contains invalid control characters", id)
		}
		if unicode.IsSpace(r) {
			return New(ErrCodeInvalidTopology, "station id %q contains whitespace", id)
		}
	}

	return nil
}

// ValidatePath validates an output file path.
// It rejects empty paths, null bytes and control characters.
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidInput, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidInput, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "path contains invalid characters")
		}
	}

	return nil
}

// colourRegex matches #rgb and #rrggbb hex colours.
var colourRegex = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// ValidateColour validates a line colour. Only hex colours are accepted so the
// value can be embedded in SVG attributes without escaping.
func ValidateColour(c string) error {
	if !colourRegex.MatchString(strings.TrimSpace(c)) {
		return New(ErrCodeInvalidParams, "invalid colour %q (want #rgb or #rrggbb)", c)
	}
	return nil
}
