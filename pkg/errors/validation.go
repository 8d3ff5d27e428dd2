package errors

import (
	"strings"
	"unicode"
)

// MaxDimension bounds ranks and elements. The sizing drill is quadratic in
// each dimension, so larger flights are rejected up front.
const MaxDimension = 1000

// MaxTrials bounds the number of trials in a single simulation.
const MaxTrials = 10_000_000

// ValidateDimensions checks flight dimensions before a grid is built.
// Both ranks and elements must be positive and no larger than MaxDimension.
func ValidateDimensions(ranks, elements int) error {
	if ranks <= 0 {
		return New(ErrCodeInvalidDimensions, "ranks must be positive, got %d", ranks)
	}
	if elements <= 0 {
		return New(ErrCodeInvalidDimensions, "elements must be positive, got %d", elements)
	}
	if ranks > MaxDimension || elements > MaxDimension {
		return New(ErrCodeInvalidDimensions, "flight too large: %d ranks x %d elements (max %d each)", ranks, elements, MaxDimension)
	}
	return nil
}

// ValidateTrials checks a trial count against the given ceiling.
// A ceiling of zero or less means MaxTrials.
func ValidateTrials(trials, ceiling int) error {
	if ceiling <= 0 {
		ceiling = MaxTrials
	}
	if trials <= 0 {
		return New(ErrCodeInvalidInput, "trials must be positive, got %d", trials)
	}
	if trials > ceiling {
		return New(ErrCodeInvalidInput, "too many trials: %d (max %d)", trials, ceiling)
	}
	return nil
}

// ValidateFormat checks that format is one of the allowed values.
func ValidateFormat(format string, allowed ...string) error {
	for _, a := range allowed {
		if format == a {
			return nil
		}
	}
	return New(ErrCodeInvalidFormat, "invalid format: %q (must be one of: %s)", format, strings.Join(allowed, ", "))
}

// ValidatePath validates an output or input file path supplied by a user.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	return nil
}
