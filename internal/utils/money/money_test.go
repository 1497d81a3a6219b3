package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestPercentageOf(t *testing.T) {
	tests := []struct {
		name string
		base string
		pct  string
		want string
	}{
		{name: "whole percentage", base: "1000", pct: "10", want: "100"},
		{name: "fractional result rounds half up", base: "333", pct: "7.5", want: "24.98"},
		{name: "half cent rounds up", base: "1", pct: "0.5", want: "0.01"},
		{name: "hundred percent", base: "499.99", pct: "100", want: "499.99"},
		{name: "zero percent", base: "1000", pct: "0", want: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := decimal.RequireFromString(tt.base)
			pct := decimal.RequireFromString(tt.pct)
			got := PercentageOf(base, pct)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "expected %s, got %s", tt.want, got)
		})
	}
}

func TestCapAt(t *testing.T) {
	assert.True(t, CapAt(decimal.NewFromInt(150), decimal.NewFromInt(100)).Equal(decimal.NewFromInt(100)))
	assert.True(t, CapAt(decimal.NewFromInt(50), decimal.NewFromInt(100)).Equal(decimal.NewFromInt(50)))
	assert.True(t, CapAt(decimal.NewFromInt(100), decimal.NewFromInt(100)).Equal(decimal.NewFromInt(100)))
}
