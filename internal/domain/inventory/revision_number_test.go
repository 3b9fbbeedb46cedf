package inventory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/stock-ledger/internal/domain/inventory"
)

func TestFormatRevisionNumber(t *testing.T) {
	assert.Equal(t, "РЕВ-001", inventory.FormatRevisionNumber(1))
	assert.Equal(t, "РЕВ-042", inventory.FormatRevisionNumber(42))
	assert.Equal(t, "РЕВ-1234", inventory.FormatRevisionNumber(1234))
}

func TestParseRevisionNumber(t *testing.T) {
	cases := map[string]int64{
		"РЕВ-001": 1,
		"РЕВ-017": 17,
		"rev 9":   9,
		"РЕВ-1٢3": 13,
	}
	for in, want := range cases {
		n, ok := inventory.ParseRevisionNumber(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, n, in)
	}
	_, ok := inventory.ParseRevisionNumber("РЕВ-")
	assert.False(t, ok)
	_, ok = inventory.ParseRevisionNumber("РЕВ-000")
	assert.False(t, ok)
	_, ok = inventory.ParseRevisionNumber("РЕВ-٣")
	assert.False(t, ok, "solo cuentan los dígitos ASCII")
	_, ok = inventory.ParseRevisionNumber("РЕВ-０４")
	assert.False(t, ok)
}

func TestMaxRevisionNumber(t *testing.T) {
	assert.Equal(t, int64(0), inventory.MaxRevisionNumber(nil))
	assert.Equal(t, int64(12), inventory.MaxRevisionNumber([]string{"РЕВ-003", "basura", "РЕВ-012", "РЕВ-007"}))
	assert.Equal(t, int64(5), inventory.MaxRevisionNumber([]string{"РЕВ-005", "РЕВ-٩٩٩"}))
}
