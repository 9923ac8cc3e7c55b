package chat

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gustavoln/financeiro-client/internal/domain/model"
)

func TestBuildContext_NilWhenEmpty(t *testing.T) {
	assert.Nil(t, BuildContext(nil, nil, nil))
	assert.Nil(t, BuildContext([]model.Transaction{}, nil, &Insights{}))
}

func TestBuildContext_OmitsEmptyContextFromRequest(t *testing.T) {
	// A nil snapshot must serialize to no context field at all, never an
	// empty-but-present object.
	payload := struct {
		Message string   `json:"message"`
		Context *Context `json:"context,omitempty"`
	}{Message: "oi"}

	data, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"message": "oi"}`, string(data))
}

func TestBuildContext_SummaryCarriesDerivedFields(t *testing.T) {
	summary := model.Summary{
		TotalIncome:   5000,
		TotalExpenses: 3500,
		ByCategory:    map[string]float64{model.CategoryFood: -1200},
	}

	ctx := BuildContext(nil, &summary, nil)

	require.NotNil(t, ctx)
	require.NotNil(t, ctx.Summary)
	assert.InDelta(t, 1500.0, ctx.Summary.Balance, 1e-9)
	assert.InDelta(t, 30.0, ctx.Summary.SavingsRate, 1e-9)
	assert.Nil(t, ctx.Transactions)
	assert.Nil(t, ctx.Insights)
}

func TestBuildContext_BoundsTransactions(t *testing.T) {
	start := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	transactions := make([]model.Transaction, 60)
	for i := range transactions {
		transactions[i] = model.Transaction{
			ID:          fmt.Sprintf("txn_%d", i),
			Description: fmt.Sprintf("record %d", i),
			Date:        model.DateOf(start.AddDate(0, 0, i)),
			Amount:      -float64(i),
			Category:    model.CategoryFood,
		}
	}

	ctx := BuildContext(transactions, nil, nil)

	require.NotNil(t, ctx)
	require.Len(t, ctx.Transactions, 50, "snapshot is capped at the most recent records")
	assert.Equal(t, "record 59", ctx.Transactions[0].Description, "most recent first")
	assert.Equal(t, "record 10", ctx.Transactions[49].Description, "oldest ten dropped")
}

func TestBuildContext_InsightsExcerpts(t *testing.T) {
	related := model.CategoryFood
	insights := Insights{
		Alerts: []model.Alert{{
			Type:            model.AlertHighSpend,
			Message:         "Alimentação takes 45% of total spending",
			RelatedCategory: &related,
		}},
		Recommendations: []model.Recommendation{{ID: "rec_savings", Text: "save more"}},
	}

	ctx := BuildContext(nil, nil, &insights)

	require.NotNil(t, ctx)
	require.NotNil(t, ctx.Insights)
	require.Len(t, ctx.Insights.Alerts, 1)
	assert.Equal(t, model.AlertHighSpend, ctx.Insights.Alerts[0].Type)
	require.Len(t, ctx.Insights.Recommendations, 1)
	assert.Equal(t, "rec_savings", ctx.Insights.Recommendations[0].ID)
}

func TestInsightsFromSummary(t *testing.T) {
	summary := model.Summary{
		Alerts:          []model.Alert{{Type: model.AlertLowBalance, Message: "low"}},
		Recommendations: []model.Recommendation{{ID: "r1", Text: "t"}},
	}

	insights := InsightsFromSummary(summary)

	assert.Len(t, insights.Alerts, 1)
	assert.Len(t, insights.Recommendations, 1)
}
