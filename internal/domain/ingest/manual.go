package ingest

import (
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/gustavoln/financeiro-client/internal/domain/model"
	"github.com/gustavoln/financeiro-client/internal/fault"
)

// NewManualEntry builds one transaction input from manually entered
// fields. The magnitude is unsigned; the expense flag decides the sign.
// Each entry gets a freshly generated unique id.
func NewManualEntry(description string, magnitude float64, isExpense bool, date model.Date) (model.TransactionInput, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return model.TransactionInput{}, fault.NewFieldValidation("description", "is required")
	}
	if math.IsNaN(magnitude) || math.IsInf(magnitude, 0) {
		return model.TransactionInput{}, fault.NewFieldValidation("amount", "is not a finite number")
	}
	if magnitude < 0 {
		return model.TransactionInput{}, fault.NewFieldValidation("amount", "magnitude must not be negative")
	}
	if date.IsZero() {
		return model.TransactionInput{}, fault.NewFieldValidation("date", "is required")
	}

	amount := magnitude
	if isExpense {
		amount = -magnitude
	}

	return model.TransactionInput{
		ID:          "txn_" + uuid.NewString(),
		Date:        date,
		Description: description,
		Amount:      amount,
		Currency:    model.DefaultCurrency,
	}, nil
}

// ParseAmount parses a user-entered monetary magnitude, accepting both the
// Brazilian convention (1.234,56) and the dot-decimal one (1,234.56 or
// 1234.56). The returned value is always unsigned.
func ParseAmount(s string) (float64, error) {
	cleaned := strings.TrimSpace(s)
	cleaned = strings.TrimPrefix(cleaned, "R$")
	cleaned = strings.TrimSpace(cleaned)
	cleaned = strings.TrimPrefix(cleaned, "-")
	if cleaned == "" {
		return 0, fault.NewFieldValidation("amount", "is required")
	}

	lastComma := strings.LastIndex(cleaned, ",")
	lastDot := strings.LastIndex(cleaned, ".")
	switch {
	case lastComma >= 0 && lastDot >= 0:
		// Whichever separator appears last is the decimal mark.
		if lastComma > lastDot {
			cleaned = strings.ReplaceAll(cleaned, ".", "")
			cleaned = strings.Replace(cleaned, ",", ".", 1)
		} else {
			cleaned = strings.ReplaceAll(cleaned, ",", "")
		}
	case lastComma >= 0:
		if separatorLooksDecimal(cleaned, lastComma) {
			cleaned = strings.Replace(cleaned, ",", ".", 1)
		} else {
			cleaned = strings.ReplaceAll(cleaned, ",", "")
		}
	case lastDot >= 0:
		if !separatorLooksDecimal(cleaned, lastDot) && strings.Count(cleaned, ".") > 1 {
			cleaned = strings.ReplaceAll(cleaned, ".", "")
		}
	}

	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, fault.NewFieldValidation("amount", "malformed numeric value "+s)
	}
	return value, nil
}

// separatorLooksDecimal reports whether the separator at idx is followed by
// a one- or two-digit fraction, the shape of a decimal mark rather than a
// thousands separator.
func separatorLooksDecimal(s string, idx int) bool {
	frac := len(s) - idx - 1
	return frac >= 1 && frac <= 2
}
