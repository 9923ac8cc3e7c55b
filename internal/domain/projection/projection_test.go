package projection

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gustavoln/financeiro-client/internal/domain/model"
)

func txn(id, category string, amount float64, day int) model.Transaction {
	return model.Transaction{
		ID:       id,
		Date:     model.NewDate(2025, time.March, day),
		Amount:   amount,
		Category: category,
	}
}

func TestProject_FilterAndSort(t *testing.T) {
	input := []model.Transaction{
		txn("a", model.CategoryFood, -50, 1),
		txn("b", model.CategoryTransport, -20, 2),
		txn("c", model.CategoryTransport, -35, 3),
		txn("d", model.CategoryIncome, 5000, 4),
	}

	got := Project(input, model.CategoryTransport, SortAmountDesc)

	require.Len(t, got, 2)
	assert.Equal(t, "c", got[0].ID, "largest absolute amount first")
	assert.Equal(t, "b", got[1].ID)
}

func TestProject_FilterAllPassesEverything(t *testing.T) {
	input := []model.Transaction{
		txn("a", model.CategoryFood, -50, 2),
		txn("b", model.CategoryIncome, 100, 1),
	}

	got := Project(input, model.FilterAll, SortDateDesc)

	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID, "most recent first")
}

func TestProject_SortByCategoryCode(t *testing.T) {
	input := []model.Transaction{
		txn("a", model.CategoryTransport, -20, 1), // "transporte"
		txn("b", model.CategoryFood, -50, 1),      // "alimentacao"
		txn("c", model.CategoryHousing, -900, 1),  // "moradia"
	}

	got := Project(input, model.FilterAll, SortCategoryAsc)

	require.Len(t, got, 3)
	assert.Equal(t, []string{"b", "c", "a"}, []string{got[0].ID, got[1].ID, got[2].ID})
}

func TestProject_StableTies(t *testing.T) {
	// Same date throughout: date sort must keep the input order.
	input := []model.Transaction{
		txn("first", model.CategoryFood, -10, 5),
		txn("second", model.CategoryFood, -20, 5),
		txn("third", model.CategoryFood, -30, 5),
	}

	got := Project(input, model.FilterAll, SortDateDesc)

	require.Len(t, got, 3)
	assert.Equal(t, "first", got[0].ID)
	assert.Equal(t, "second", got[1].ID)
	assert.Equal(t, "third", got[2].ID)
}

func TestProject_DoesNotMutateInput(t *testing.T) {
	input := []model.Transaction{
		txn("a", model.CategoryFood, -10, 1),
		txn("b", model.CategoryFood, -20, 2),
	}

	_ = Project(input, model.FilterAll, SortDateDesc)

	assert.Equal(t, "a", input[0].ID, "input order untouched")
	assert.Equal(t, "b", input[1].ID)
}

func TestProject_EmptyAndNoMatch(t *testing.T) {
	assert.Empty(t, Project(nil, model.FilterAll, SortDateDesc))

	input := []model.Transaction{txn("a", model.CategoryFood, -10, 1)}
	assert.Empty(t, Project(input, model.CategoryLeisure, SortDateDesc))
}

func TestProject_UnknownSortKeyKeepsOrder(t *testing.T) {
	input := []model.Transaction{
		txn("b", model.CategoryFood, -20, 2),
		txn("a", model.CategoryFood, -10, 1),
	}

	got := Project(input, model.FilterAll, SortKey("shuffle"))

	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].ID)
}
