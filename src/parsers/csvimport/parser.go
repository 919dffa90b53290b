// Package csvimport converts uploaded bank-statement CSV files into
// transaction rows. The expected layout is a header line naming at least
// date, amount and type columns; rows that fail validation are skipped, not
// fatal, so one bad line never rejects a whole statement.
package csvimport

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/walidBc-blip/finance-dashboard/src/logger"
	"github.com/walidBc-blip/finance-dashboard/src/models"
	"github.com/walidBc-blip/finance-dashboard/src/security/validation"
)

// Parser reads transaction CSV exports.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

// Result carries the parsed rows plus how many lines were dropped.
type Result struct {
	Transactions []models.Transaction
	SkippedRows  int
}

var dateLayouts = []string{"2006-01-02", "02-01-2006", "02/01/2006"}

// Parse reads the whole CSV and maps each row to a Transaction. Column order
// is taken from the header, case-insensitively.
func (p *Parser) Parse(file io.Reader) (*Result, error) {
	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // Allow variable number of fields per record

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("csv import: failed to read header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"date", "amount", "type"} {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("csv import: missing required column %q", required)
		}
	}

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("csv import: failed to read records: %w", err)
	}

	result := &Result{}
	for i, record := range records {
		tx, err := rowToTransaction(record, columns)
		if err != nil {
			logger.L.Warn("Skipping CSV row", "line", i+2, "error", err)
			result.SkippedRows++
			continue
		}
		result.Transactions = append(result.Transactions, tx)
	}
	return result, nil
}

func rowToTransaction(record []string, columns map[string]int) (models.Transaction, error) {
	field := func(name string) string {
		idx, ok := columns[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	date, err := parseDate(field("date"))
	if err != nil {
		return models.Transaction{}, err
	}

	amountStr := strings.ReplaceAll(field("amount"), ",", ".")
	amount, err := strconv.ParseFloat(amountStr, 64)
	if err != nil {
		return models.Transaction{}, fmt.Errorf("invalid amount %q", field("amount"))
	}
	if err := validation.ValidatePositiveAmount(amount, "amount"); err != nil {
		return models.Transaction{}, err
	}

	txType := strings.ToLower(field("type"))
	if err := validation.ValidateTransactionType(txType); err != nil {
		return models.Transaction{}, err
	}

	category := validation.SanitizeText(field("category"))
	description := validation.SanitizeText(field("description"))
	if err := validation.ValidateStringMaxLength(category, validation.MaxCategoryLength, "category"); err != nil {
		return models.Transaction{}, err
	}
	if err := validation.ValidateStringMaxLength(description, validation.MaxDescriptionLength, "description"); err != nil {
		return models.Transaction{}, err
	}

	return models.Transaction{
		Amount:      amount,
		Category:    category,
		Description: description,
		Date:        date,
		Type:        txType,
	}, nil
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}
