// Package model holds the typed result model exchanged with the analysis
// service. All values are immutable once constructed from a validated
// source; re-analysis replaces them wholesale.
package model

import (
	"encoding/json"
	"strings"
	"time"
)

// Default currency applied when an imported record omits one.
const DefaultCurrency = "BRL"

// TransactionInput is a not-yet-categorized record submitted for analysis.
// Negative amounts are outflows, positive amounts inflows.
type TransactionInput struct {
	ID          string  `json:"id"`
	Date        Date    `json:"date"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency"`
	Raw         *string `json:"raw,omitempty"`
}

// Batch is an ordered sequence of inputs submitted together for one
// analysis call, the canonical JSON request shape.
type Batch struct {
	UserID         *string            `json:"user_id,omitempty"`
	Transactions   []TransactionInput `json:"transactions"`
	HistoricalData []map[string]any   `json:"historical_data,omitempty"`
}

// Transaction is a categorized record returned by the service.
type Transaction struct {
	ID                    string  `json:"id"`
	Date                  Date    `json:"date"`
	Description           string  `json:"description"`
	Amount                float64 `json:"amount"`
	Currency              string  `json:"currency"`
	Category              string  `json:"category"`
	Subcategory           *string `json:"subcategory,omitempty"`
	Confidence            float64 `json:"confidence"`
	NormalizedDescription string  `json:"normalized_description"`
	Explanation           *string `json:"explanation,omitempty"`
}

// CategoryName returns the display name for the transaction's category.
func (t Transaction) CategoryName() string {
	return CategoryDisplayName(t.Category)
}

// IsExpense reports whether the transaction is an outflow.
func (t Transaction) IsExpense() bool { return t.Amount < 0 }

// TrendDirection describes the direction of a category's spending change.
type TrendDirection string

const (
	TrendUp   TrendDirection = "up"
	TrendDown TrendDirection = "down"
	TrendFlat TrendDirection = "flat"
)

// NormalizeTrendDirection maps a wire direction onto the known vocabulary.
// The server's legacy "stable", and anything else unrecognized, is flat.
func NormalizeTrendDirection(raw string) TrendDirection {
	switch TrendDirection(strings.ToLower(strings.TrimSpace(raw))) {
	case TrendUp:
		return TrendUp
	case TrendDown:
		return TrendDown
	default:
		return TrendFlat
	}
}

// UnmarshalJSON decodes a direction, normalizing unknown values to flat.
func (d *TrendDirection) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*d = NormalizeTrendDirection(raw)
	return nil
}

// TrendInfo carries the direction and magnitude of a category change.
type TrendInfo struct {
	ChangePct float64        `json:"change_pct"`
	Direction TrendDirection `json:"direction"`
}

// AlertType classifies a flagged condition in the summary.
type AlertType string

const (
	AlertHighSpend         AlertType = "high_spend"
	AlertLowBalance        AlertType = "low_balance"
	AlertUnusualCategory   AlertType = "unusual_category"
	AlertPossibleDuplicate AlertType = "possible_duplicate"
	AlertOther             AlertType = "other"
)

// NormalizeAlertType maps a wire alert type onto the known vocabulary,
// falling back to the generic variant for unrecognized codes.
func NormalizeAlertType(raw string) AlertType {
	switch AlertType(strings.ToLower(strings.TrimSpace(raw))) {
	case AlertHighSpend:
		return AlertHighSpend
	case AlertLowBalance:
		return AlertLowBalance
	case AlertUnusualCategory:
		return AlertUnusualCategory
	case AlertPossibleDuplicate:
		return AlertPossibleDuplicate
	default:
		return AlertOther
	}
}

// UnmarshalJSON decodes an alert type, normalizing unknown values.
func (a *AlertType) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*a = NormalizeAlertType(raw)
	return nil
}

// Alert is a flagged condition in the summary.
type Alert struct {
	Type            AlertType `json:"type"`
	Message         string    `json:"message"`
	RelatedCategory *string   `json:"related_category,omitempty"`
}

// Recommendation is a suggested action with an optional impact estimate.
type Recommendation struct {
	ID                string   `json:"id"`
	Text              string   `json:"text"`
	ImpactEstimatePct *float64 `json:"impact_estimate_pct,omitempty"`
}

// Trend wraps the per-category trend map the way the service nests it.
type Trend struct {
	CategoryTrends map[string]TrendInfo `json:"category_trends"`
}

// Summary is the aggregated financial view over the analyzed period.
// Balance and savings rate are derived client-side, never transmitted.
type Summary struct {
	PeriodStart          Date               `json:"period_start"`
	PeriodEnd            Date               `json:"period_end"`
	TotalIncome          float64            `json:"total_income"`
	TotalExpenses        float64            `json:"total_expenses"`
	ByCategory           map[string]float64 `json:"by_category"`
	TopExpenseCategories []string           `json:"top_3_expense_categories"`
	Trend                Trend              `json:"trend"`
	Alerts               []Alert            `json:"alerts"`
	Recommendations      []Recommendation   `json:"recommendations"`
}

// Balance is total income minus total expenses.
func (s Summary) Balance() float64 {
	return s.TotalIncome - s.TotalExpenses
}

// SavingsRate is the balance as a percentage of income, zero when there is
// no income.
func (s Summary) SavingsRate() float64 {
	if s.TotalIncome <= 0 {
		return 0
	}
	return s.Balance() / s.TotalIncome * 100
}

// AnalysisResult is the top-level service response. The transaction list
// may be empty; the summary is always present.
type AnalysisResult struct {
	UserID          *string       `json:"user_id,omitempty"`
	ProcessedAt     time.Time     `json:"processed_at"`
	Transactions    []Transaction `json:"transactions"`
	Summary         Summary       `json:"summary"`
	ModelVersion    string        `json:"model_version"`
	ProcessingNotes *string       `json:"processing_notes,omitempty"`
}
