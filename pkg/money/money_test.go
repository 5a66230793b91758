package money_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/receivables-api/pkg/money"
)

func TestFormatBRL(t *testing.T) {
	assert.Equal(t, "R$ 10.000,00", money.FormatBRL(decimal.NewFromInt(10000)))
	assert.Equal(t, "R$ 1.234,50", money.FormatBRL(decimal.RequireFromString("1234.5")))
	assert.Equal(t, "R$ 955,57", money.FormatBRL(decimal.RequireFromString("955.565")))
	assert.Equal(t, "R$ 0,00", money.FormatBRL(decimal.Zero))
}

func TestHasValidScale(t *testing.T) {
	assert.True(t, money.HasValidScale(decimal.RequireFromString("50000.01")))
	assert.True(t, money.HasValidScale(decimal.RequireFromString("10.100")), "ceros a la derecha no cuentan")
	assert.True(t, money.HasValidScale(decimal.NewFromInt(7)))
	assert.False(t, money.HasValidScale(decimal.RequireFromString("50000.005")))
	assert.False(t, money.HasValidScale(decimal.RequireFromString("0.001")))
}
