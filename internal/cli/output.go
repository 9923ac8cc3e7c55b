package cli

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/gustavoln/financeiro-client/internal/domain/model"
	"github.com/gustavoln/financeiro-client/internal/domain/projection"
)

// PrintHeader prints the analysis header line.
func PrintHeader(result *model.AnalysisResult) {
	header := color.New(color.Bold)
	header.Printf("\nAnalysis (%s) — %d transactions\n\n", result.ModelVersion, len(result.Transactions))
}

// PrintSummary prints the aggregate view: period, totals, derived balance
// and savings rate, top expense categories, alerts and recommendations.
func PrintSummary(s model.Summary) {
	fmt.Printf("Period:       %s to %s\n", s.PeriodStart, s.PeriodEnd)
	color.Green("Income:       R$ %.2f", s.TotalIncome)
	color.Red("Expenses:     R$ %.2f", s.TotalExpenses)

	balance := color.New(color.FgGreen)
	if s.Balance() < 0 {
		balance = color.New(color.FgRed)
	}
	balance.Printf("Balance:      R$ %.2f (savings rate %.1f%%)\n", s.Balance(), s.SavingsRate())

	if len(s.TopExpenseCategories) > 0 {
		names := make([]string, 0, len(s.TopExpenseCategories))
		for _, cat := range s.TopExpenseCategories {
			names = append(names, model.CategoryDisplayName(cat))
		}
		fmt.Printf("Top expenses: %s\n", strings.Join(names, ", "))
	}

	for _, alert := range s.Alerts {
		color.Yellow("! [%s] %s", alert.Type, alert.Message)
	}
	for _, rec := range s.Recommendations {
		fmt.Printf("* %s\n", rec.Text)
	}
}

// PrintTransactions prints the filtered, sorted transaction list. Expenses
// render red, income green.
func PrintTransactions(transactions []model.Transaction, filterCategory string, key projection.SortKey) {
	listed := projection.Project(transactions, filterCategory, key)
	if len(listed) == 0 {
		return
	}
	fmt.Println()
	for _, txn := range listed {
		amount := color.GreenString("%10.2f", txn.Amount)
		if txn.IsExpense() {
			amount = color.RedString("%10.2f", txn.Amount)
		}
		fmt.Printf("%s  %s  %-14s  %s (%.0f%%)\n",
			txn.Date, amount, txn.CategoryName(), txn.NormalizedDescription, txn.Confidence*100)
	}
}

// PrintResult prints the full analysis view.
func PrintResult(result *model.AnalysisResult, filterCategory string, key projection.SortKey) {
	PrintHeader(result)
	PrintSummary(result.Summary)
	PrintTransactions(result.Transactions, filterCategory, key)
}

// PrintError prints a failure in red.
func PrintError(format string, args ...any) {
	color.Red(format, args...)
}
