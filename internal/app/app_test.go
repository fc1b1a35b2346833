package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewSessionReturnsIndependentContexts(t *testing.T) {
	core := &Core{}

	a := core.NewSession()
	b := core.NewSession()
	a.SetCurrentAccount("991234567890")

	_, ok := b.CurrentAccount()
	assert.False(t, ok)

	got, ok := a.CurrentAccount()
	assert.True(t, ok)
	assert.Equal(t, "991234567890", got)
}
