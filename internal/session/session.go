// Package session owns the client's only shared state: the current
// AnalysisResult slot every presentation consumer reads, and the ordered
// sequence of manually entered records awaiting submission.
package session

import (
	"sync"

	"github.com/gustavoln/financeiro-client/internal/domain/model"
	"github.com/gustavoln/financeiro-client/internal/fault"
)

// Session holds the displayed result and the manual-entry accumulator.
// The result slot is replaced atomically and never mutated in place; when
// two analyses race, the last writer wins. There is no cancellation or
// deduplication of superseded requests.
type Session struct {
	mu      sync.RWMutex
	current *model.AnalysisResult
	manual  []model.TransactionInput
}

// New creates an empty session.
func New() *Session {
	return &Session{}
}

// Current returns the active result, or nil before the first successful
// analysis.
func (s *Session) Current() *model.AnalysisResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// SetResult replaces the displayed result wholesale. Callers only reach
// this after the mapper validated the response, so a failed analysis never
// touches the previous result.
func (s *Session) SetResult(result *model.AnalysisResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = result
}

// AddManual appends one manually entered record to the pending sequence.
func (s *Session) AddManual(input model.TransactionInput) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.manual = append(s.manual, input)
}

// ManualCount reports how many records await submission.
func (s *Session) ManualCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.manual)
}

// SubmitManual rebuilds the accumulated records into a fresh immutable
// batch, preserving entry order. Submitting with nothing accumulated is a
// ValidationError. The accumulator is left untouched; call ClearManual
// after the analysis succeeds.
func (s *Session) SubmitManual() (model.Batch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.manual) == 0 {
		return model.Batch{}, fault.NewValidation("no transactions entered")
	}
	transactions := make([]model.TransactionInput, len(s.manual))
	copy(transactions, s.manual)
	return model.Batch{Transactions: transactions}, nil
}

// ClearManual drops the pending sequence.
func (s *Session) ClearManual() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.manual = nil
}
