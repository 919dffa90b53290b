package csvimport

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walidBc-blip/finance-dashboard/src/logger"
)

func TestMain(m *testing.M) {
	logger.InitLogger("error")
	os.Exit(m.Run())
}

func TestParseValidFile(t *testing.T) {
	input := strings.Join([]string{
		"date,amount,type,category,description",
		"2026-03-01,49.99,expense,Groceries,walmart shopping",
		"2026-03-02,2500.00,income,Salary,march payroll",
	}, "\n")

	result, err := NewParser().Parse(strings.NewReader(input))
	require.NoError(t, err)

	require.Len(t, result.Transactions, 2)
	assert.Zero(t, result.SkippedRows)

	tx := result.Transactions[0]
	assert.Equal(t, 49.99, tx.Amount)
	assert.Equal(t, "expense", tx.Type)
	assert.Equal(t, "Groceries", tx.Category)
	assert.Equal(t, "walmart shopping", tx.Description)
	assert.Equal(t, "2026-03-01", tx.Date.Format("2006-01-02"))
}

func TestParseHeaderCaseInsensitive(t *testing.T) {
	input := "Date,AMOUNT,Type\n2026-03-01,10,expense"

	result, err := NewParser().Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, result.Transactions, 1)
}

func TestParseMissingRequiredColumn(t *testing.T) {
	input := "date,amount,category\n2026-03-01,10,Food"

	_, err := NewParser().Parse(strings.NewReader(input))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "type")
}

func TestParseAlternateDateFormats(t *testing.T) {
	input := strings.Join([]string{
		"date,amount,type",
		"15-03-2026,10,expense",
		"16/03/2026,20,expense",
	}, "\n")

	result, err := NewParser().Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, result.Transactions, 2)
	assert.Equal(t, "2026-03-15", result.Transactions[0].Date.Format("2006-01-02"))
	assert.Equal(t, "2026-03-16", result.Transactions[1].Date.Format("2006-01-02"))
}

func TestParseCommaDecimalAmount(t *testing.T) {
	input := "date,amount,type\n2026-03-01,\"12,50\",expense"

	result, err := NewParser().Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, result.Transactions, 1)
	assert.Equal(t, 12.5, result.Transactions[0].Amount)
}

func TestParseSkipsInvalidRows(t *testing.T) {
	input := strings.Join([]string{
		"date,amount,type",
		"2026-03-01,10,expense",
		"not-a-date,10,expense",
		"2026-03-03,-5,expense",
		"2026-03-04,10,transfer",
		"2026-03-05,20,income",
	}, "\n")

	result, err := NewParser().Parse(strings.NewReader(input))
	require.NoError(t, err)

	assert.Len(t, result.Transactions, 2)
	assert.Equal(t, 3, result.SkippedRows)
}

func TestParseEmptyFile(t *testing.T) {
	_, err := NewParser().Parse(strings.NewReader(""))
	require.Error(t, err)
}
