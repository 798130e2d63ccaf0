package config

import (
	"fmt"
	"time"
)

// ValidatePositiveDuration validates that a duration is positive (greater than zero).
//
// This is commonly used for timeout, interval, and sweep schedule validation
// where a non-zero, positive value is required.
//
// Example:
//
//	if err := ValidatePositiveDuration(timeout); err != nil {
//	    return fmt.Errorf("invalid timeout: %w", err)
//	}
func ValidatePositiveDuration(d time.Duration) error {
	if d <= 0 {
		return fmt.Errorf("duration must be positive, got %v", d)
	}
	return nil
}

// ValidateDurationRange validates that a duration is within a specified range.
// The duration must be >= min and <= max (inclusive).
//
// Example:
//
//	// Cache sweep interval between 1 minute and 24 hours
//	if err := ValidateDurationRange(interval, time.Minute, 24*time.Hour); err != nil {
//	    return fmt.Errorf("invalid sweep interval: %w", err)
//	}
func ValidateDurationRange(d, min, max time.Duration) error {
	if min > max {
		return fmt.Errorf("invalid range: min %v greater than max %v", min, max)
	}
	if d < min || d > max {
		return fmt.Errorf("duration %v outside allowed range [%v, %v]", d, min, max)
	}
	return nil
}
