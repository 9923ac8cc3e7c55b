// Package projection filters and orders the mapped transaction list for
// display. It is a pure function of its inputs and never mutates them.
package projection

import (
	"math"
	"sort"

	"github.com/gustavoln/financeiro-client/internal/domain/model"
)

// SortKey selects the ordering applied after filtering.
type SortKey string

const (
	// SortDateDesc orders most recent first. Ties keep input order; no
	// secondary key is applied.
	SortDateDesc SortKey = "date"
	// SortAmountDesc orders by absolute amount, largest first.
	SortAmountDesc SortKey = "amount"
	// SortCategoryAsc orders by raw category code, not display name.
	SortCategoryAsc SortKey = "category"
)

// Project returns a new slice filtered by category and ordered by key.
// The sentinel model.FilterAll passes every record; an unknown sort key
// leaves the filtered input order untouched.
func Project(transactions []model.Transaction, category string, key SortKey) []model.Transaction {
	out := make([]model.Transaction, 0, len(transactions))
	for _, txn := range transactions {
		if category == model.FilterAll || txn.Category == category {
			out = append(out, txn)
		}
	}

	switch key {
	case SortDateDesc:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Date.After(out[j].Date)
		})
	case SortAmountDesc:
		sort.SliceStable(out, func(i, j int) bool {
			return math.Abs(out[i].Amount) > math.Abs(out[j].Amount)
		})
	case SortCategoryAsc:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Category < out[j].Category
		})
	}
	return out
}
