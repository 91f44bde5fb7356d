package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetSortedKeys(t *testing.T) {
	m := map[string]int{"b": 1, "a": 2, "c": 3}
	assert.Equal(t, []string{"a", "b", "c"}, GetSortedKeys(m))
}

func TestUniqueKeepsFirstOccurrence(t *testing.T) {
	assert.Equal(t, []string{"C4", "E4", "G4"}, Unique([]string{"C4", "E4", "C4", "G4", "E4"}))
	assert.Empty(t, Unique([]int{}))
}

func TestMinMax(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(2, Min(2, 3))
	assert.Equal(1.5, Min(2.0, 1.5))
	assert.Equal(3, Max(2, 3))
	assert.Equal(2.0, Max(2.0, 1.5))
}

func TestSum(t *testing.T) {
	assert.Equal(t, uint64(6), Sum([]int{1, 2, 3}))
}

func TestRoundTo(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{1.00001, 1.0},
		{1.00004, 1.0},
		{1.0001, 1.0001},
		{222.37499999999983, 222.375},
		{0, 0},
		{0.12345, 0.1235},
		{0.12349, 0.1235},
		{2.00005, 2.0},
		{-1.00005, -1.0001},
	}
	for _, c := range cases {
		assert.InDelta(t, c.want, RoundTo(c.in, 4), 1e-12, "RoundTo(%v)", c.in)
	}
}
