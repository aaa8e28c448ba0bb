package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePeriod(t *testing.T) {
	cases := map[string]Period{
		"1期":       Period1,
		"2":        Period2,
		"period-3": Period3,
		" 4期 ":     Period4,
		"PERIOD-4": Period4,
	}
	for in, want := range cases {
		got, ok := ParsePeriod(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}

	for _, in := range []string{"", "5期", "0", "period-", "期"} {
		_, ok := ParsePeriod(in)
		assert.False(t, ok, in)
	}
}
