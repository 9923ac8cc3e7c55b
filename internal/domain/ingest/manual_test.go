package ingest

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gustavoln/financeiro-client/internal/domain/model"
	"github.com/gustavoln/financeiro-client/internal/fault"
)

func TestNewManualEntry(t *testing.T) {
	date := model.NewDate(2025, time.March, 10)

	t.Run("expense flag negates the magnitude", func(t *testing.T) {
		entry, err := NewManualEntry("Uber para o trabalho", 23.50, true, date)
		require.NoError(t, err)

		assert.InDelta(t, -23.50, entry.Amount, 1e-9)
		assert.Equal(t, "Uber para o trabalho", entry.Description)
		assert.Equal(t, model.DefaultCurrency, entry.Currency)
		assert.True(t, strings.HasPrefix(entry.ID, "txn_"))
	})

	t.Run("income keeps the magnitude positive", func(t *testing.T) {
		entry, err := NewManualEntry("Salário", 5000, false, date)
		require.NoError(t, err)
		assert.InDelta(t, 5000.0, entry.Amount, 1e-9)
	})

	t.Run("ids are unique per entry", func(t *testing.T) {
		a, err := NewManualEntry("Café", 8, true, date)
		require.NoError(t, err)
		b, err := NewManualEntry("Café", 8, true, date)
		require.NoError(t, err)
		assert.NotEqual(t, a.ID, b.ID)
	})

	t.Run("rejects invalid fields", func(t *testing.T) {
		var validationErr *fault.ValidationError

		_, err := NewManualEntry("   ", 10, true, date)
		require.ErrorAs(t, err, &validationErr)
		assert.Equal(t, "description", validationErr.Field)

		_, err = NewManualEntry("Café", -5, true, date)
		require.ErrorAs(t, err, &validationErr)
		assert.Equal(t, "amount", validationErr.Field)

		_, err = NewManualEntry("Café", 10, true, model.Date{})
		require.ErrorAs(t, err, &validationErr)
		assert.Equal(t, "date", validationErr.Field)
	})
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		input string
		want  float64
	}{
		{"1234.56", 1234.56},
		{"1.234,56", 1234.56}, // Brazilian convention
		{"1,234.56", 1234.56},
		{"R$ 99,90", 99.90},
		{"R$150", 150},
		{"0,5", 0.5},
		{"2.500.000", 2500000}, // repeated dots are thousands separators
		{"-45,00", 45},         // sign is stripped, magnitude only
		{"  12,30  ", 12.30},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseAmount(tt.input)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestParseAmount_Invalid(t *testing.T) {
	for _, input := range []string{"", "R$", "abc", "12,34,56abc"} {
		_, err := ParseAmount(input)
		var validationErr *fault.ValidationError
		require.ErrorAs(t, err, &validationErr, "input %q", input)
		assert.Equal(t, "amount", validationErr.Field)
	}
}
