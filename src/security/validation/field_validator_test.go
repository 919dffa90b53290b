package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateStringNotEmpty(t *testing.T) {
	assert.NoError(t, ValidateStringNotEmpty("hello", "field"))
	assert.ErrorIs(t, ValidateStringNotEmpty("", "field"), ErrValidationFailed)
	assert.ErrorIs(t, ValidateStringNotEmpty("   \t", "field"), ErrValidationFailed)
}

func TestValidateStringMaxLength(t *testing.T) {
	assert.NoError(t, ValidateStringMaxLength("abc", 3, "field"))
	assert.ErrorIs(t, ValidateStringMaxLength("abcd", 3, "field"), ErrValidationFailed)
	// Rune count, not byte count.
	assert.NoError(t, ValidateStringMaxLength(strings.Repeat("é", 3), 3, "field"))
}

func TestValidatePositiveAmount(t *testing.T) {
	assert.NoError(t, ValidatePositiveAmount(0.01, "amount"))
	assert.ErrorIs(t, ValidatePositiveAmount(0, "amount"), ErrValidationFailed)
	assert.ErrorIs(t, ValidatePositiveAmount(-5, "amount"), ErrValidationFailed)
}

func TestValidateTransactionType(t *testing.T) {
	assert.NoError(t, ValidateTransactionType("income"))
	assert.NoError(t, ValidateTransactionType("expense"))
	assert.ErrorIs(t, ValidateTransactionType("transfer"), ErrValidationFailed)
	assert.ErrorIs(t, ValidateTransactionType("Income"), ErrValidationFailed)
}

func TestValidateAlertThreshold(t *testing.T) {
	assert.NoError(t, ValidateAlertThreshold(0.5))
	assert.NoError(t, ValidateAlertThreshold(1))
	assert.ErrorIs(t, ValidateAlertThreshold(0), ErrValidationFailed)
	assert.ErrorIs(t, ValidateAlertThreshold(1.01), ErrValidationFailed)
}

func TestValidateDateString(t *testing.T) {
	date, err := ValidateDateString("2026-03-15", "transaction_date")
	require.NoError(t, err)
	assert.Equal(t, "2026-03-15", date.Format("2006-01-02"))

	_, err = ValidateDateString("", "transaction_date")
	assert.ErrorIs(t, err, ErrValidationFailed)

	_, err = ValidateDateString("15-03-2026", "transaction_date")
	assert.ErrorIs(t, err, ErrValidationFailed)

	// Calendar-invalid dates are rejected, not normalized.
	_, err = ValidateDateString("2026-02-30", "transaction_date")
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestSanitizeText(t *testing.T) {
	assert.Equal(t, "hello", SanitizeText("<script>alert(1)</script>hello"))
	assert.Equal(t, "plain text", SanitizeText("plain text"))
}

func TestStripUnprintable(t *testing.T) {
	assert.Equal(t, "abc\n", StripUnprintable("a\x00b\x1bc\n"))
}
