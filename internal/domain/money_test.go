package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestMoney_ToDecimal(t *testing.T) {
	m := NewMoney(1_050) // 10.50
	d := m.ToDecimal()
	assert.Equal(t, "10.5", d.String())
}

func TestFromDecimal(t *testing.T) {
	d := decimal.NewFromFloat(10.50)
	minor := FromDecimal(d)
	assert.Equal(t, int64(1_050), minor)
}

func TestMoney_String(t *testing.T) {
	assert.Equal(t, "$5.00", NewMoney(500).String())
	assert.Equal(t, "$0.00", NewMoney(0).String())
	assert.Equal(t, "$3.07", NewMoney(307).String())
}
