package analysis

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gustavoln/financeiro-client/internal/domain/model"
	"github.com/gustavoln/financeiro-client/internal/fault"
)

// errorEnvelope is the service's structured failure shape. Its presence in
// a body takes precedence over the HTTP status.
type errorEnvelope struct {
	Error *struct {
		Message string `json:"message"`
		Code    int    `json:"code"`
		Hint    string `json:"hint"`
	} `json:"error"`
}

// timestampLayouts accepted for processed_at. The service emits bare ISO
// timestamps without a zone offset.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// Wire shapes use pointers throughout so validation can tell an absent
// field from a present-but-invalid one.

type wireTransaction struct {
	ID                    *string     `json:"id"`
	Date                  *model.Date `json:"date"`
	Description           *string     `json:"description"`
	Amount                *float64    `json:"amount"`
	Currency              *string     `json:"currency"`
	Category              *string     `json:"category"`
	Subcategory           *string     `json:"subcategory"`
	Confidence            *float64    `json:"confidence"`
	NormalizedDescription *string     `json:"normalized_description"`
	Explanation           *string     `json:"explanation"`
}

type wireTrend struct {
	CategoryTrends map[string]model.TrendInfo `json:"category_trends"`
}

type wireSummary struct {
	PeriodStart          *model.Date            `json:"period_start"`
	PeriodEnd            *model.Date            `json:"period_end"`
	TotalIncome          *float64               `json:"total_income"`
	TotalExpenses        *float64               `json:"total_expenses"`
	ByCategory           map[string]float64     `json:"by_category"`
	TopExpenseCategories []string               `json:"top_3_expense_categories"`
	Trend                wireTrend              `json:"trend"`
	Alerts               []model.Alert          `json:"alerts"`
	Recommendations      []model.Recommendation `json:"recommendations"`
}

type wireResult struct {
	UserID          *string           `json:"user_id"`
	ProcessedAt     *string           `json:"processed_at"`
	Transactions    []wireTransaction `json:"transactions"`
	Summary         *wireSummary      `json:"summary"`
	ModelVersion    *string           `json:"model_version"`
	ProcessingNotes *string           `json:"processing_notes"`
}

// MapAnalysisResponse validates a raw analyze response and maps it into
// the typed result model. Validation order: a structured error body wins
// over everything (even HTTP 200), then a non-200 status, then the
// structural decode. Either a complete AnalysisResult is produced or an
// error; nothing is partially applied.
func MapAnalysisResponse(statusCode int, body []byte) (*model.AnalysisResult, error) {
	var envelope errorEnvelope
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error != nil {
		return nil, &fault.ApplicationError{
			Code:    envelope.Error.Code,
			Message: envelope.Error.Message,
			Hint:    envelope.Error.Hint,
		}
	}

	if statusCode != http.StatusOK {
		return nil, &fault.TransportError{StatusCode: statusCode}
	}

	var wire wireResult
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, &fault.ParseError{Message: "response is not a valid analysis result", Err: err}
	}
	return mapResult(wire)
}

func mapResult(wire wireResult) (*model.AnalysisResult, error) {
	if wire.Summary == nil {
		return nil, &fault.ParseError{Message: "summary is required"}
	}
	if wire.ModelVersion == nil {
		return nil, &fault.ParseError{Message: "model_version is required"}
	}
	if wire.ProcessedAt == nil {
		return nil, &fault.ParseError{Message: "processed_at is required"}
	}
	processedAt, err := parseTimestamp(*wire.ProcessedAt)
	if err != nil {
		return nil, &fault.ParseError{Message: "processed_at is invalid", Err: err}
	}

	summary, err := mapSummary(*wire.Summary)
	if err != nil {
		return nil, err
	}

	transactions := make([]model.Transaction, 0, len(wire.Transactions))
	for i, txn := range wire.Transactions {
		mapped, err := mapTransaction(i, txn)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, mapped)
	}

	return &model.AnalysisResult{
		UserID:          wire.UserID,
		ProcessedAt:     processedAt,
		Transactions:    transactions,
		Summary:         summary,
		ModelVersion:    *wire.ModelVersion,
		ProcessingNotes: wire.ProcessingNotes,
	}, nil
}

func mapTransaction(i int, wire wireTransaction) (model.Transaction, error) {
	missing := func(name string) (model.Transaction, error) {
		return model.Transaction{}, &fault.ParseError{
			Message: fmt.Sprintf("transactions[%d].%s is required", i, name),
		}
	}
	switch {
	case wire.ID == nil:
		return missing("id")
	case wire.Date == nil:
		return missing("date")
	case wire.Description == nil:
		return missing("description")
	case wire.Amount == nil:
		return missing("amount")
	case wire.Category == nil:
		return missing("category")
	case wire.Confidence == nil:
		return missing("confidence")
	}
	if *wire.Confidence < 0 || *wire.Confidence > 1 {
		return model.Transaction{}, &fault.ParseError{
			Message: fmt.Sprintf("transactions[%d].confidence %v is outside [0,1]", i, *wire.Confidence),
		}
	}

	currency := model.DefaultCurrency
	if wire.Currency != nil && *wire.Currency != "" {
		currency = *wire.Currency
	}
	normalized := *wire.Description
	if wire.NormalizedDescription != nil {
		normalized = *wire.NormalizedDescription
	}

	return model.Transaction{
		ID:                    *wire.ID,
		Date:                  *wire.Date,
		Description:           *wire.Description,
		Amount:                *wire.Amount,
		Currency:              currency,
		Category:              *wire.Category,
		Subcategory:           wire.Subcategory,
		Confidence:            *wire.Confidence,
		NormalizedDescription: normalized,
		Explanation:           wire.Explanation,
	}, nil
}

func mapSummary(wire wireSummary) (model.Summary, error) {
	missing := func(name string) (model.Summary, error) {
		return model.Summary{}, &fault.ParseError{Message: "summary." + name + " is required"}
	}
	switch {
	case wire.PeriodStart == nil:
		return missing("period_start")
	case wire.PeriodEnd == nil:
		return missing("period_end")
	case wire.TotalIncome == nil:
		return missing("total_income")
	case wire.TotalExpenses == nil:
		return missing("total_expenses")
	}
	if wire.PeriodEnd.Before(*wire.PeriodStart) {
		return model.Summary{}, &fault.ParseError{Message: "summary period_end precedes period_start"}
	}
	if *wire.TotalIncome < 0 || *wire.TotalExpenses < 0 {
		return model.Summary{}, &fault.ParseError{Message: "summary totals must not be negative"}
	}

	byCategory := wire.ByCategory
	if byCategory == nil {
		byCategory = map[string]float64{}
	}
	trends := wire.Trend.CategoryTrends
	if trends == nil {
		trends = map[string]model.TrendInfo{}
	}

	return model.Summary{
		PeriodStart:          *wire.PeriodStart,
		PeriodEnd:            *wire.PeriodEnd,
		TotalIncome:          *wire.TotalIncome,
		TotalExpenses:        *wire.TotalExpenses,
		ByCategory:           byCategory,
		TopExpenseCategories: wire.TopExpenseCategories,
		Trend:                model.Trend{CategoryTrends: trends},
		Alerts:               wire.Alerts,
		Recommendations:      wire.Recommendations,
	}, nil
}

func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}
