package session

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gustavoln/financeiro-client/internal/domain/model"
	"github.com/gustavoln/financeiro-client/internal/fault"
)

func manualInput(id string, amount float64) model.TransactionInput {
	return model.TransactionInput{
		ID:          id,
		Date:        model.NewDate(2025, time.March, 10),
		Description: "entry " + id,
		Amount:      amount,
		Currency:    model.DefaultCurrency,
	}
}

func TestSession_CurrentResult(t *testing.T) {
	sess := New()

	assert.Nil(t, sess.Current(), "empty before the first analysis")

	first := &model.AnalysisResult{ModelVersion: "v1"}
	sess.SetResult(first)
	assert.Same(t, first, sess.Current())

	// A new analysis replaces the slot wholesale.
	second := &model.AnalysisResult{ModelVersion: "v2"}
	sess.SetResult(second)
	assert.Same(t, second, sess.Current())
}

func TestSession_ManualAccumulator(t *testing.T) {
	sess := New()

	assert.Equal(t, 0, sess.ManualCount())

	sess.AddManual(manualInput("a", -10))
	sess.AddManual(manualInput("b", -20))
	sess.AddManual(manualInput("c", 30))
	assert.Equal(t, 3, sess.ManualCount())

	batch, err := sess.SubmitManual()
	require.NoError(t, err)
	require.Len(t, batch.Transactions, 3)

	// Entry order is preserved.
	assert.Equal(t, "a", batch.Transactions[0].ID)
	assert.Equal(t, "b", batch.Transactions[1].ID)
	assert.Equal(t, "c", batch.Transactions[2].ID)

	// Submitting does not clear; that happens after a successful analysis.
	assert.Equal(t, 3, sess.ManualCount())

	sess.ClearManual()
	assert.Equal(t, 0, sess.ManualCount())
}

func TestSession_SubmitManualEmpty(t *testing.T) {
	sess := New()

	_, err := sess.SubmitManual()
	var validationErr *fault.ValidationError
	require.ErrorAs(t, err, &validationErr)
}

func TestSession_SubmittedBatchIsDetached(t *testing.T) {
	sess := New()
	sess.AddManual(manualInput("a", -10))

	batch, err := sess.SubmitManual()
	require.NoError(t, err)

	// Mutating the returned batch never leaks back into the accumulator.
	batch.Transactions[0].Amount = 99

	again, err := sess.SubmitManual()
	require.NoError(t, err)
	assert.InDelta(t, -10.0, again.Transactions[0].Amount, 1e-9)
}

func TestSession_ConcurrentAccess(t *testing.T) {
	sess := New()
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			sess.AddManual(manualInput(fmt.Sprintf("txn_%d", i), float64(i)))
		}(i)
		go func(i int) {
			defer wg.Done()
			sess.SetResult(&model.AnalysisResult{ModelVersion: fmt.Sprintf("v%d", i)})
			_ = sess.Current()
			_ = sess.ManualCount()
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 50, sess.ManualCount())
	assert.NotNil(t, sess.Current())
}
