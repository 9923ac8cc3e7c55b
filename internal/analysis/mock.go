package analysis

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gustavoln/financeiro-client/internal/domain/chat"
	"github.com/gustavoln/financeiro-client/internal/domain/model"
	"github.com/gustavoln/financeiro-client/internal/fault"
)

// MockModelVersion identifies results produced by the offline mock.
const MockModelVersion = "mock-v1.0"

// DefaultMockLatency simulates a network round trip.
const DefaultMockLatency = 400 * time.Millisecond

// mockRule classifies a description by case-insensitive substring match.
// Rules are checked in order; the first hit wins.
type mockRule struct {
	category   string
	confidence float64
	terms      []string
}

var mockRules = []mockRule{
	{model.CategoryFood, 0.92, []string{
		"supermercado", "mercado", "padaria", "restaurante", "lanchonete",
		"ifood", "pizzaria", "grocery", "restaurant",
	}},
	{model.CategoryTransport, 0.88, []string{
		"posto", "gasolina", "combustivel", "uber", "taxi", "99app",
		"estacionamento", "fuel",
	}},
	{model.CategoryIncome, 0.98, []string{
		"salario", "deposito", "pagamento", "recebimento", "payroll", "deposit",
	}},
}

const (
	mockFallbackCategory   = model.CategoryOther
	mockFallbackConfidence = 0.5
)

// Mock is the deterministic offline implementation of Service. Given the
// same input batch it produces the same result, so the whole client stack
// can be exercised without a live network. It remembers the last computed
// summary to answer the insight endpoints the way the service would.
type Mock struct {
	latency time.Duration
	now     func() time.Time

	mu          sync.Mutex
	lastSummary *model.Summary
}

var _ Service = (*Mock)(nil)

// MockOption customizes a Mock.
type MockOption func(*Mock)

// WithMockLatency overrides the simulated round-trip delay.
func WithMockLatency(d time.Duration) MockOption {
	return func(m *Mock) { m.latency = d }
}

// WithMockClock injects the clock used for processed_at, letting tests
// pin timestamps.
func WithMockClock(now func() time.Time) MockOption {
	return func(m *Mock) { m.now = now }
}

// NewMock creates a deterministic mock service.
func NewMock(opts ...MockOption) *Mock {
	m := &Mock{latency: DefaultMockLatency, now: time.Now}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Analyze classifies the batch by keyword rules and synthesizes the full
// result, summary included.
func (m *Mock) Analyze(ctx context.Context, batch model.Batch) (*model.AnalysisResult, error) {
	if err := m.sleep(ctx); err != nil {
		return nil, err
	}
	if len(batch.Transactions) == 0 {
		return nil, &fault.ApplicationError{
			Code:    400,
			Message: "transactions array is empty",
			Hint:    "submit at least one transaction",
		}
	}

	transactions := make([]model.Transaction, 0, len(batch.Transactions))
	for _, input := range batch.Transactions {
		transactions = append(transactions, classify(input))
	}
	summary := synthesizeSummary(transactions, m.now)

	m.mu.Lock()
	m.lastSummary = &summary
	m.mu.Unlock()

	return &model.AnalysisResult{
		UserID:       batch.UserID,
		ProcessedAt:  m.now(),
		Transactions: transactions,
		Summary:      summary,
		ModelVersion: MockModelVersion,
	}, nil
}

// AnalyzeCSV parses the minimal id,date,description,amount[,currency] CSV
// shape the service accepts and feeds it through Analyze.
func (m *Mock) AnalyzeCSV(ctx context.Context, content string) (*model.AnalysisResult, error) {
	batch, err := parseMockCSV(content)
	if err != nil {
		return nil, err
	}
	return m.Analyze(ctx, batch)
}

// HealthCheck always reports healthy.
func (m *Mock) HealthCheck(ctx context.Context) bool { return ctx.Err() == nil }

// SendChatMessage produces a deterministic reply summarizing whatever
// snapshot accompanies the message.
func (m *Mock) SendChatMessage(ctx context.Context, message string, snapshot *chat.Context) (*chat.Reply, error) {
	if err := m.sleep(ctx); err != nil {
		return nil, err
	}
	if strings.TrimSpace(message) == "" {
		return nil, &fault.ApplicationError{Code: 400, Message: "message must not be empty"}
	}

	if snapshot == nil || snapshot.Summary == nil {
		return &chat.Reply{
			Message:     "I don't have your financial data yet. Import transactions and I can help with spending, savings and budgets.",
			Suggestions: []string{"How do I import transactions?"},
		}, nil
	}

	s := snapshot.Summary
	return &chat.Reply{
		Message: fmt.Sprintf(
			"Your balance is %.2f: income %.2f against expenses %.2f, a savings rate of %.1f%%.",
			s.Balance, s.TotalIncome, s.TotalExpenses, s.SavingsRate),
		Suggestions: []string{
			"Which category costs me the most?",
			"How can I save more?",
		},
	}, nil
}

// mockQuickInsights mirrors the service's quick-insight shape.
type mockQuickInsights struct {
	Success             bool    `json:"success"`
	Message             string  `json:"message,omitempty"`
	BalanceStatus       string  `json:"balance_status,omitempty"`
	Balance             float64 `json:"balance"`
	SavingsRate         float64 `json:"savings_rate"`
	TopExpenseCategory  string  `json:"top_expense_category,omitempty"`
	AlertCount          int     `json:"alert_count"`
	RecommendationCount int     `json:"recommendation_count"`
}

// QuickInsights reports on the last analyzed summary, or a no-data notice
// when nothing was analyzed yet.
func (m *Mock) QuickInsights(ctx context.Context) (json.RawMessage, error) {
	if err := m.sleep(ctx); err != nil {
		return nil, &fault.TransportError{Err: err}
	}

	m.mu.Lock()
	summary := m.lastSummary
	m.mu.Unlock()

	if summary == nil {
		return json.Marshal(mockQuickInsights{
			Success: false,
			Message: "no financial data available; import transactions first",
		})
	}

	status := "negative"
	if summary.Balance() > 0 {
		status = "positive"
	}
	top := ""
	if len(summary.TopExpenseCategories) > 0 {
		top = summary.TopExpenseCategories[0]
	}
	return json.Marshal(mockQuickInsights{
		Success:             true,
		BalanceStatus:       status,
		Balance:             summary.Balance(),
		SavingsRate:         summary.SavingsRate(),
		TopExpenseCategory:  top,
		AlertCount:          len(summary.Alerts),
		RecommendationCount: len(summary.Recommendations),
	})
}

type mockOptimization struct {
	Category         string  `json:"category"`
	CurrentAmount    float64 `json:"current_amount"`
	PotentialSavings float64 `json:"potential_savings"`
	Tip              string  `json:"tip"`
}

type mockOptimizationReply struct {
	Success               bool               `json:"success"`
	Message               string             `json:"message,omitempty"`
	Optimizations         []mockOptimization `json:"optimizations"`
	TotalPotentialSavings float64            `json:"total_potential_savings"`
}

// optimizationTargets caps the share of total expenses a category should
// take before the mock suggests trimming it.
var optimizationTargets = map[string]float64{
	model.CategoryFood:      0.25,
	model.CategoryLeisure:   0.10,
	model.CategoryTransport: 0.15,
}

// BudgetOptimization suggests per-category cuts from the last summary.
func (m *Mock) BudgetOptimization(ctx context.Context) (json.RawMessage, error) {
	if err := m.sleep(ctx); err != nil {
		return nil, &fault.TransportError{Err: err}
	}

	m.mu.Lock()
	summary := m.lastSummary
	m.mu.Unlock()

	if summary == nil || summary.TotalExpenses <= 0 {
		return json.Marshal(mockOptimizationReply{
			Success:       false,
			Message:       "import transactions to receive optimization suggestions",
			Optimizations: []mockOptimization{},
		})
	}

	reply := mockOptimizationReply{Success: true, Optimizations: []mockOptimization{}}
	for _, category := range sortedCategories(summary.ByCategory) {
		total := summary.ByCategory[category]
		if total >= 0 {
			continue
		}
		target, ok := optimizationTargets[category]
		if !ok {
			continue
		}
		spent := -total
		if spent/summary.TotalExpenses <= target {
			continue
		}
		saving := spent - summary.TotalExpenses*target
		reply.Optimizations = append(reply.Optimizations, mockOptimization{
			Category:         category,
			CurrentAmount:    spent,
			PotentialSavings: round2(saving),
			Tip:              fmt.Sprintf("spending on %s is above %.0f%% of expenses; look for cuts here", category, target*100),
		})
		reply.TotalPotentialSavings += round2(saving)
	}
	return json.Marshal(reply)
}

func (m *Mock) sleep(ctx context.Context) error {
	if m.latency <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(m.latency)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return &fault.NetworkError{Op: "mock latency", Err: ctx.Err()}
	case <-timer.C:
		return nil
	}
}

// classify assigns a category by the first rule whose term appears in the
// description, preserving the amount sign.
func classify(input model.TransactionInput) model.Transaction {
	normalized := normalizeDescription(input.Description)
	lower := strings.ToLower(input.Description)

	category := mockFallbackCategory
	confidence := mockFallbackConfidence
	var explanation *string
	for _, rule := range mockRules {
		if term, ok := matchTerm(lower, rule.terms); ok {
			category = rule.category
			confidence = rule.confidence
			text := fmt.Sprintf("matched %q", term)
			explanation = &text
			break
		}
	}

	return model.Transaction{
		ID:                    input.ID,
		Date:                  input.Date,
		Description:           input.Description,
		Amount:                input.Amount,
		Currency:              input.Currency,
		Category:              category,
		Confidence:            confidence,
		NormalizedDescription: normalized,
		Explanation:           explanation,
	}
}

func matchTerm(lowerDescription string, terms []string) (string, bool) {
	for _, term := range terms {
		if strings.Contains(lowerDescription, term) {
			return term, true
		}
	}
	return "", false
}

// normalizeDescription collapses whitespace and title-cases the text.
func normalizeDescription(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		r := []rune(w)
		r[0] = []rune(strings.ToUpper(string(r[0])))[0]
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

// synthesizeSummary derives the aggregate view the way the service does:
// signed per-category totals, top-3 expense categories, flat trends (the
// mock has no historical data), high-spend alerts past 30% of expenses and
// a low-savings-rate recommendation.
func synthesizeSummary(transactions []model.Transaction, now func() time.Time) model.Summary {
	byCategory := make(map[string]float64)
	var totalIncome, totalExpenses float64
	periodStart := transactions[0].Date
	periodEnd := transactions[0].Date

	for _, txn := range transactions {
		byCategory[txn.Category] = round2(byCategory[txn.Category] + txn.Amount)
		if txn.Amount > 0 {
			totalIncome += txn.Amount
		} else {
			totalExpenses += -txn.Amount
		}
		if txn.Date.Before(periodStart) {
			periodStart = txn.Date
		}
		if txn.Date.After(periodEnd) {
			periodEnd = txn.Date
		}
	}
	totalIncome = round2(totalIncome)
	totalExpenses = round2(totalExpenses)

	var expenseCategories []string
	for _, category := range sortedCategories(byCategory) {
		if byCategory[category] < 0 {
			expenseCategories = append(expenseCategories, category)
		}
	}
	sort.SliceStable(expenseCategories, func(i, j int) bool {
		return -byCategory[expenseCategories[i]] > -byCategory[expenseCategories[j]]
	})
	if len(expenseCategories) > 3 {
		expenseCategories = expenseCategories[:3]
	}

	trends := make(map[string]model.TrendInfo, len(byCategory))
	for category := range byCategory {
		trends[category] = model.TrendInfo{ChangePct: 0, Direction: model.TrendFlat}
	}

	var alerts []model.Alert
	if totalExpenses > 0 {
		for _, category := range sortedCategories(byCategory) {
			total := byCategory[category]
			if total >= 0 {
				continue
			}
			share := -total / totalExpenses * 100
			if share > 30 {
				cat := category
				alerts = append(alerts, model.Alert{
					Type:            model.AlertHighSpend,
					Message:         fmt.Sprintf("%s takes %.0f%% of total spending", model.CategoryDisplayName(category), share),
					RelatedCategory: &cat,
				})
			}
		}
	}
	alerts = append(alerts, duplicateAlerts(transactions)...)

	var recommendations []model.Recommendation
	if totalIncome > 0 {
		savingsRate := (totalIncome - totalExpenses) / totalIncome * 100
		if savingsRate < 10 {
			impact := 10.0
			recommendations = append(recommendations, model.Recommendation{
				ID:                "rec_savings",
				Text:              "Your savings rate is below 10%. Try to set aside at least 10-20% of monthly income.",
				ImpactEstimatePct: &impact,
			})
		}
	}

	return model.Summary{
		PeriodStart:          periodStart,
		PeriodEnd:            periodEnd,
		TotalIncome:          totalIncome,
		TotalExpenses:        totalExpenses,
		ByCategory:           byCategory,
		TopExpenseCategories: expenseCategories,
		Trend:                model.Trend{CategoryTrends: trends},
		Alerts:               alerts,
		Recommendations:      recommendations,
	}
}

// duplicateAlerts flags pairs with the same date, amount and description
// prefix.
func duplicateAlerts(transactions []model.Transaction) []model.Alert {
	var alerts []model.Alert
	for i, a := range transactions {
		for _, b := range transactions[i+1:] {
			if a.Amount == b.Amount && a.Date.Equal(b.Date) && prefix20(a.Description) == prefix20(b.Description) {
				alerts = append(alerts, model.Alert{
					Type:    model.AlertPossibleDuplicate,
					Message: fmt.Sprintf("%s and %s look like the same transaction", a.ID, b.ID),
				})
			}
		}
	}
	return alerts
}

func prefix20(s string) string {
	if len(s) > 20 {
		return s[:20]
	}
	return s
}

// sortedCategories returns the category keys in a stable order.
func sortedCategories(byCategory map[string]float64) []string {
	keys := make([]string, 0, len(byCategory))
	for k := range byCategory {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// parseMockCSV reads the service's minimal CSV shape: a header line with
// id,date,description,amount and an optional currency column.
func parseMockCSV(content string) (model.Batch, error) {
	reader := csv.NewReader(strings.NewReader(strings.TrimSpace(content)))
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return model.Batch{}, &fault.ApplicationError{
			Code: 400, Message: "invalid CSV: " + err.Error(), Hint: "expected id,date,description,amount rows",
		}
	}
	if len(rows) < 2 {
		return model.Batch{}, &fault.ApplicationError{
			Code: 400, Message: "CSV contains no data rows", Hint: "expected a header line plus at least one row",
		}
	}

	index := map[string]int{}
	for i, name := range rows[0] {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"id", "date", "description", "amount"} {
		if _, ok := index[required]; !ok {
			return model.Batch{}, &fault.ApplicationError{
				Code: 400, Message: "CSV is missing column " + required,
			}
		}
	}

	inputs := make([]model.TransactionInput, 0, len(rows)-1)
	for _, row := range rows[1:] {
		date, err := model.ParseDate(row[index["date"]])
		if err != nil {
			return model.Batch{}, &fault.ApplicationError{Code: 400, Message: err.Error()}
		}
		amount, err := strconv.ParseFloat(strings.TrimSpace(row[index["amount"]]), 64)
		if err != nil {
			return model.Batch{}, &fault.ApplicationError{
				Code: 400, Message: "invalid amount " + row[index["amount"]],
			}
		}
		currency := model.DefaultCurrency
		if i, ok := index["currency"]; ok && i < len(row) && strings.TrimSpace(row[i]) != "" {
			currency = strings.TrimSpace(row[i])
		}
		inputs = append(inputs, model.TransactionInput{
			ID:          strings.TrimSpace(row[index["id"]]),
			Date:        date,
			Description: row[index["description"]],
			Amount:      amount,
			Currency:    currency,
		})
	}
	return model.Batch{Transactions: inputs}, nil
}
