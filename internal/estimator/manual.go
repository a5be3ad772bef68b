package estimator

import "errors"

// ErrInvalidPageCount rejects manual entries that are not positive.
var ErrInvalidPageCount = errors.New("page count must be greater than 0")

// ValidateManualPageCount accepts a typed-in page count as-is when positive.
// Invalid counts are rejected rather than clamped.
func ValidateManualPageCount(n int) error {
	if n <= 0 {
		return ErrInvalidPageCount
	}
	return nil
}

// Manual wraps an accepted manual page count as an Estimate.
func Manual(n int) (Estimate, error) {
	if err := ValidateManualPageCount(n); err != nil {
		return Estimate{}, err
	}
	return Estimate{Pages: n, Format: FormatUnknown, Method: MethodManual}, nil
}
