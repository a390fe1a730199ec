package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateRandomString(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		s := GenerateRandomString(10)
		assert.Len(t, s, 10)
		assert.False(t, seen[s], "duplicate %q", s)
		seen[s] = true
	}
}

func TestNewOrderNumber(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		n := NewOrderNumber()
		assert.True(t, strings.HasPrefix(n, "ORD-"), n)
		assert.Len(t, n, len("ORD-20060102150405-0000"))
		assert.False(t, seen[n], "duplicate %q", n)
		seen[n] = true
	}
}

func TestNewSKU(t *testing.T) {
	sku := NewSKU()
	assert.True(t, strings.HasPrefix(sku, "SKU-"), sku)
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 1999.98, Round2(2*999.99))
	assert.Equal(t, 160.0, Round2(1999.98*0.08))
	assert.Equal(t, 2.0, Round2(1.9992))
	assert.Equal(t, 0.0, Round2(0))
	assert.Equal(t, 10.56, Round2(10.555))
}
