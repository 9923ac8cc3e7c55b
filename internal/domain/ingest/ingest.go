// Package ingest converts each supported import source into the canonical
// analysis request shape: raw CSV text is forwarded opaque (the service
// owns CSV parsing), JSON documents and manual entries become validated
// transaction batches, and spreadsheet share links are rewritten to their
// CSV-export form and fetched.
package ingest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/gustavoln/financeiro-client/internal/domain/model"
	"github.com/gustavoln/financeiro-client/internal/fault"
)

// FromCSV decodes selected file bytes as UTF-8 text. The content is not
// parsed client-side; the analysis service owns the CSV format.
func FromCSV(data []byte) (string, error) {
	if len(data) == 0 {
		return "", &fault.DecodeError{Message: "no bytes selected"}
	}
	if !utf8.Valid(data) {
		return "", &fault.DecodeError{Message: "content is not valid UTF-8"}
	}
	return string(data), nil
}

// jsonTransaction mirrors one element of the `transactions` array with
// every field optional, so validation can tell an absent field from a
// present-but-invalid one.
type jsonTransaction struct {
	ID          *string  `json:"id"`
	Date        *string  `json:"date"`
	Description *string  `json:"description"`
	Amount      *float64 `json:"amount"`
	Currency    *string  `json:"currency"`
	Raw         *string  `json:"raw"`
}

type jsonDocument struct {
	UserID         *string           `json:"user_id"`
	Transactions   []jsonTransaction `json:"transactions"`
	HistoricalData []map[string]any  `json:"historical_data"`
}

// FromJSON validates a JSON import document and normalizes it into a
// batch. The document must carry a `transactions` array whose elements
// each supply id, date, description and a numeric amount; currency
// defaults to BRL. A top-level user_id and historical_data pass through.
func FromJSON(data []byte) (model.Batch, error) {
	if len(data) == 0 {
		return model.Batch{}, &fault.DecodeError{Message: "no bytes selected"}
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	var doc jsonDocument
	if err := dec.Decode(&doc); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return model.Batch{}, fault.NewFieldValidation(typeErr.Field,
				fmt.Sprintf("expected %s, got %s", typeErr.Type, typeErr.Value))
		}
		return model.Batch{}, fault.NewValidation("document is not valid JSON: " + err.Error())
	}
	if doc.Transactions == nil {
		return model.Batch{}, fault.NewFieldValidation("transactions", "array is required")
	}
	if len(doc.Transactions) == 0 {
		return model.Batch{}, fault.NewFieldValidation("transactions", "array is empty")
	}

	inputs := make([]model.TransactionInput, 0, len(doc.Transactions))
	seen := make(map[string]bool, len(doc.Transactions))
	for i, txn := range doc.Transactions {
		input, err := normalizeJSONTransaction(i, txn)
		if err != nil {
			return model.Batch{}, err
		}
		if seen[input.ID] {
			return model.Batch{}, fault.NewFieldValidation(
				fmt.Sprintf("transactions[%d].id", i), "duplicate id "+input.ID)
		}
		seen[input.ID] = true
		inputs = append(inputs, input)
	}

	return model.Batch{
		UserID:         doc.UserID,
		Transactions:   inputs,
		HistoricalData: doc.HistoricalData,
	}, nil
}

func normalizeJSONTransaction(i int, txn jsonTransaction) (model.TransactionInput, error) {
	field := func(name string) string { return fmt.Sprintf("transactions[%d].%s", i, name) }

	if txn.ID == nil || *txn.ID == "" {
		return model.TransactionInput{}, fault.NewFieldValidation(field("id"), "is required")
	}
	if txn.Date == nil {
		return model.TransactionInput{}, fault.NewFieldValidation(field("date"), "is required")
	}
	if txn.Description == nil {
		return model.TransactionInput{}, fault.NewFieldValidation(field("description"), "is required")
	}
	if txn.Amount == nil {
		return model.TransactionInput{}, fault.NewFieldValidation(field("amount"), "numeric value is required")
	}

	date, err := model.ParseDate(*txn.Date)
	if err != nil {
		return model.TransactionInput{}, fault.NewFieldValidation(field("date"), err.Error())
	}

	currency := model.DefaultCurrency
	if txn.Currency != nil && *txn.Currency != "" {
		currency = *txn.Currency
	}

	return model.TransactionInput{
		ID:          *txn.ID,
		Date:        date,
		Description: *txn.Description,
		Amount:      *txn.Amount,
		Currency:    currency,
		Raw:         txn.Raw,
	}, nil
}
