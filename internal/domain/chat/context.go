// Package chat assembles the bounded financial snapshot attached to chat
// requests and models the assistant's replies.
package chat

import (
	"sort"

	"github.com/gustavoln/financeiro-client/internal/domain/model"
)

// maxContextTransactions bounds the transaction snapshot sent with a chat
// request; only the most recent records are included.
const maxContextTransactions = 50

// ContextTransaction is the per-record excerpt included in a snapshot.
type ContextTransaction struct {
	Date        model.Date `json:"date"`
	Description string     `json:"description"`
	Amount      float64    `json:"amount"`
	Category    string     `json:"category"`
	Subcategory *string    `json:"subcategory,omitempty"`
}

// ContextSummary carries the summary aggregates, including the derived
// balance and savings rate, with the server's snake-case field names.
type ContextSummary struct {
	TotalIncome   float64            `json:"total_income"`
	TotalExpenses float64            `json:"total_expenses"`
	Balance       float64            `json:"balance"`
	SavingsRate   float64            `json:"savings_rate"`
	ByCategory    map[string]float64 `json:"by_category,omitempty"`
}

// ContextAlert is the insight excerpt for one alert.
type ContextAlert struct {
	Type            model.AlertType `json:"type"`
	Message         string          `json:"message"`
	RelatedCategory *string         `json:"related_category,omitempty"`
}

// ContextRecommendation is the insight excerpt for one recommendation.
type ContextRecommendation struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// ContextInsights bundles alert and recommendation excerpts.
type ContextInsights struct {
	Alerts          []ContextAlert          `json:"alerts,omitempty"`
	Recommendations []ContextRecommendation `json:"recommendations,omitempty"`
}

// Context is the snapshot bundled into a chat request. A nil Context means
// the request carries no context field at all; it is never serialized as
// an empty-but-present object.
type Context struct {
	Transactions []ContextTransaction `json:"transactions,omitempty"`
	Summary      *ContextSummary      `json:"summary,omitempty"`
	Insights     *ContextInsights     `json:"insights,omitempty"`
}

// Insights pairs the alerts and recommendations extracted from a summary
// for snapshot building.
type Insights struct {
	Alerts          []model.Alert
	Recommendations []model.Recommendation
}

// InsightsFromSummary pulls the insight inputs out of a mapped summary.
func InsightsFromSummary(s model.Summary) Insights {
	return Insights{Alerts: s.Alerts, Recommendations: s.Recommendations}
}

// BuildContext packages whichever of the three inputs are available into a
// snapshot. It returns nil when none of them carry data.
func BuildContext(transactions []model.Transaction, summary *model.Summary, insights *Insights) *Context {
	hasInsights := insights != nil && (len(insights.Alerts) > 0 || len(insights.Recommendations) > 0)
	if len(transactions) == 0 && summary == nil && !hasInsights {
		return nil
	}

	ctx := &Context{}

	if len(transactions) > 0 {
		recent := mostRecent(transactions, maxContextTransactions)
		ctx.Transactions = make([]ContextTransaction, 0, len(recent))
		for _, txn := range recent {
			ctx.Transactions = append(ctx.Transactions, ContextTransaction{
				Date:        txn.Date,
				Description: txn.Description,
				Amount:      txn.Amount,
				Category:    txn.Category,
				Subcategory: txn.Subcategory,
			})
		}
	}

	if summary != nil {
		ctx.Summary = &ContextSummary{
			TotalIncome:   summary.TotalIncome,
			TotalExpenses: summary.TotalExpenses,
			Balance:       summary.Balance(),
			SavingsRate:   summary.SavingsRate(),
			ByCategory:    summary.ByCategory,
		}
	}

	if hasInsights {
		ci := &ContextInsights{}
		for _, a := range insights.Alerts {
			ci.Alerts = append(ci.Alerts, ContextAlert{
				Type:            a.Type,
				Message:         a.Message,
				RelatedCategory: a.RelatedCategory,
			})
		}
		for _, r := range insights.Recommendations {
			ci.Recommendations = append(ci.Recommendations, ContextRecommendation{
				ID:   r.ID,
				Text: r.Text,
			})
		}
		ctx.Insights = ci
	}

	return ctx
}

// mostRecent returns up to limit transactions ordered most recent first.
func mostRecent(transactions []model.Transaction, limit int) []model.Transaction {
	sorted := make([]model.Transaction, len(transactions))
	copy(sorted, transactions)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.After(sorted[j].Date)
	})
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}

// Reply is the assistant's answer to one chat message.
type Reply struct {
	Message     string   `json:"message"`
	Suggestions []string `json:"suggestions,omitempty"`
}
