package show

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FormatRuntime renders seconds as "m:ss". Minutes are unbounded and unpadded; the
// fractional second is truncated, so FormatRuntime(42.5) is "0:42". Negative and NaN
// inputs render as "0:00", and +Inf (an overflowed total) as the largest finite runtime.
func FormatRuntime(seconds float64) string {
	switch {
	case math.IsNaN(seconds) || seconds < 0:
		seconds = 0
	case math.IsInf(seconds, 1):
		seconds = math.MaxFloat64
	}

	whole := math.Floor(seconds)
	if whole < math.MaxInt64 {
		w := int64(whole)
		return fmt.Sprintf("%d:%02d", w/60, w%60)
	}

	// beyond int64 every float64 is a whole number
	minutes := strconv.FormatFloat(math.Floor(whole/60), 'f', 0, 64)
	return fmt.Sprintf("%s:%02d", minutes, int(math.Mod(whole, 60)))
}

// ParseRuntime is the inverse of FormatRuntime. It only recovers whole seconds when the
// string came from FormatRuntime.
func ParseRuntime(display string) (float64, error) {
	parts := strings.Split(display, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("%w: run time %q is not in m:ss form", ErrFormat, display)
	}

	minutes, err := parseTimePart(parts[0])
	if err != nil {
		return 0, fmt.Errorf("%w: minutes in %q: %v", ErrFormat, display, err)
	}
	seconds, err := parseTimePart(parts[1])
	if err != nil {
		return 0, fmt.Errorf("%w: seconds in %q: %v", ErrFormat, display, err)
	}

	return minutes*60 + seconds, nil
}

func parseTimePart(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, fmt.Errorf("%q is not a non-negative number", s)
	}
	return v, nil
}

// ParseSeconds validates raw operator input for a cue runtime in seconds.
func ParseSeconds(raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, fmt.Errorf("%w: run time is required", ErrValidation)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: run time must be a number, got %q", ErrValidation, raw)
	}
	if err := validateRuntime(v); err != nil {
		return 0, err
	}
	return v, nil
}

func validateRuntime(seconds float64) error {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return fmt.Errorf("%w: run time must be a finite number", ErrValidation)
	}
	if seconds < 0 {
		return fmt.Errorf("%w: run time must not be negative, got %g", ErrValidation, seconds)
	}
	return nil
}
