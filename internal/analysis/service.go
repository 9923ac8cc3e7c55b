// Package analysis talks to the remote transaction-categorization service.
// It owns the HTTP client, the response mapper that turns wire JSON into
// the validated result model, and a deterministic mock used offline and in
// tests. Both implementations satisfy the same Service contract.
package analysis

import (
	"context"
	"encoding/json"

	"github.com/gustavoln/financeiro-client/internal/domain/chat"
	"github.com/gustavoln/financeiro-client/internal/domain/model"
)

// Service is the full capability set of the analysis backend. Two
// implementations exist: the HTTP Client and the deterministic Mock.
type Service interface {
	// Analyze submits a normalized JSON batch for categorization.
	Analyze(ctx context.Context, batch model.Batch) (*model.AnalysisResult, error)

	// AnalyzeCSV submits raw CSV text; the service owns CSV parsing.
	AnalyzeCSV(ctx context.Context, content string) (*model.AnalysisResult, error)

	// HealthCheck probes the service with a short timeout. It never
	// returns an error; any failure degrades to false.
	HealthCheck(ctx context.Context) bool

	// SendChatMessage sends a free-text message with an optional bounded
	// financial snapshot.
	SendChatMessage(ctx context.Context, message string, snapshot *chat.Context) (*chat.Reply, error)

	// QuickInsights fetches opaque insight JSON for the presentation layer.
	QuickInsights(ctx context.Context) (json.RawMessage, error)

	// BudgetOptimization fetches opaque budget-optimization JSON.
	BudgetOptimization(ctx context.Context) (json.RawMessage, error)
}
