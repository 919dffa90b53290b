package validation

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

var ErrValidationFailed = fmt.Errorf("validation failed")

const (
	DefaultMaxStringLength = 255
	MaxCategoryLength      = 50
	MaxDescriptionLength   = 1024
	MaxGoalNameLength      = 100
)

// ValidateStringNotEmpty checks if a string is not empty after trimming.
func ValidateStringNotEmpty(s, fieldName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s cannot be empty", ErrValidationFailed, fieldName)
	}
	return nil
}

// ValidateStringMaxLength checks if a string's UTF-8 character count is within max bounds.
func ValidateStringMaxLength(s string, maxLength int, fieldName string) error {
	if utf8.RuneCountInString(s) > maxLength {
		return fmt.Errorf("%w: %s exceeds maximum length of %d characters", ErrValidationFailed, fieldName, maxLength)
	}
	return nil
}

// ValidatePositiveAmount checks that a monetary amount is strictly positive.
// Direction is carried by the transaction type, never by sign.
func ValidatePositiveAmount(v float64, fieldName string) error {
	if v <= 0 {
		return fmt.Errorf("%w: %s must be greater than zero", ErrValidationFailed, fieldName)
	}
	return nil
}

// ValidateTransactionType checks the type is one of the two supported values.
func ValidateTransactionType(s string) error {
	if s != "income" && s != "expense" {
		return fmt.Errorf("%w: transaction_type must be 'income' or 'expense', got '%s'", ErrValidationFailed, s)
	}
	return nil
}

// ValidateAlertThreshold checks the budget alert threshold is a fraction in (0,1].
func ValidateAlertThreshold(v float64) error {
	if v <= 0 || v > 1 {
		return fmt.Errorf("%w: alert_threshold must be in (0,1], got %.2f", ErrValidationFailed, v)
	}
	return nil
}

// ValidateDateString checks if a string is a valid date in "YYYY-MM-DD" format.
func ValidateDateString(s, fieldName string) (time.Time, error) {
	trimmed := strings.TrimSpace(s)
	if err := ValidateStringNotEmpty(trimmed, fieldName); err != nil {
		return time.Time{}, err
	}
	t, err := time.Parse("2006-01-02", trimmed)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s ('%s') is not a valid date (expected YYYY-MM-DD): %v", ErrValidationFailed, fieldName, s, err)
	}
	if t.Format("2006-01-02") != trimmed {
		return time.Time{}, fmt.Errorf("%w: %s ('%s') is an invalid date (e.g., day/month mismatch)", ErrValidationFailed, fieldName, s)
	}
	return t, nil
}
