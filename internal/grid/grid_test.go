package grid

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultValidates(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestClassifyBoundaries(t *testing.T) {
	g := Default()
	tests := []struct {
		sep    int
		tier   uint8
		window int
	}{
		{1000, 0, 10},
		{100_000, 0, 10},
		{100_001, 1, 100},
		{1_000_000, 1, 100},
		{1_000_001, 2, 1000},
		{250_000_000, 2, 1000},
	}
	for _, tt := range tests {
		tier, w := g.Classify(tt.sep)
		assert.Equal(t, tt.tier, tier, "sep=%d", tt.sep)
		assert.Equal(t, tt.window, w, "sep=%d", tt.sep)
	}
}

func TestClassifyIsFunctionOfIndexGap(t *testing.T) {
	g := Default()
	for _, gap := range []int{1, 100, 101, 1000, 1001, 5000} {
		tierA, _ := g.Classify(g.Position(gap) - g.Position(0))
		tierB, _ := g.Classify(g.Position(gap+37) - g.Position(37))
		assert.Equal(t, tierA, tierB, "gap=%d", gap)
	}
	tier, _ := g.Classify(100 * Spacing)
	assert.Equal(t, uint8(0), tier)
	tier, _ = g.Classify(101 * Spacing)
	assert.Equal(t, uint8(1), tier)
	tier, _ = g.Classify(1000 * Spacing)
	assert.Equal(t, uint8(1), tier)
	tier, _ = g.Classify(1001 * Spacing)
	assert.Equal(t, uint8(2), tier)
}

func TestNumPointsAndPairCount(t *testing.T) {
	g := Default()
	assert.Equal(t, 0, g.NumPoints(0))
	assert.Equal(t, 0, g.NumPoints(999))
	assert.Equal(t, 1, g.NumPoints(1999))
	assert.Equal(t, 2, g.NumPoints(2500))
	assert.Equal(t, 5, g.NumPoints(5000))
	assert.Equal(t, int64(0), PairCount(1))
	assert.Equal(t, int64(1), PairCount(2))
	assert.Equal(t, int64(10), PairCount(5))
	assert.Equal(t, 0, Rows(1))
	assert.Equal(t, 4, Rows(5))
}

func TestForEachPairExactSet(t *testing.T) {
	for _, n := range []int{0, 1, 2, 3, 7, 40} {
		seen := map[[2]int]int{}
		var order [][2]int
		ForEachPair(n, func(i, j int) bool {
			seen[[2]int{i, j}]++
			order = append(order, [2]int{i, j})
			return true
		})
		require.Len(t, seen, int(PairCount(n)), "n=%d", n)
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				require.Equal(t, 1, seen[[2]int{i, j}], "pair (%d,%d) n=%d", i, j, n)
			}
		}
		for k := 1; k < len(order); k++ {
			a, b := order[k-1], order[k]
			require.True(t, a[0] < b[0] || (a[0] == b[0] && a[1] < b[1]), "not row-major at %v -> %v", a, b)
		}
	}
}

func TestForEachPairStopsEarly(t *testing.T) {
	calls := 0
	done := ForEachPair(10, func(i, j int) bool {
		calls++
		return calls < 3
	})
	assert.False(t, done)
	assert.Equal(t, 3, calls)
}

func TestWindowsScenarioOne(t *testing.T) {
	seq := make([]byte, 2500)
	for i := range seq {
		seq[i] = "ACGT"[i%4]
	}
	g := Default()
	require.Equal(t, 2, g.NumPoints(len(seq)))
	a, b, tier := g.Windows(seq, 0, 1)
	assert.Equal(t, uint8(0), tier)
	assert.Equal(t, seq[0:10], a)
	assert.Equal(t, seq[1000:1010], b)
}

func TestValidateAcceptsLongestWindow(t *testing.T) {
	cfg := Config{Spacing: MaxWindow, Tiers: []Tier{{Window: MaxWindow}}}
	assert.NoError(t, cfg.Validate())
	cfg = Config{Spacing: MaxWindow + 1, Tiers: []Tier{{Window: MaxWindow + 1}}}
	assert.Error(t, cfg.Validate())
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero spacing", Config{Spacing: 0, Tiers: Default().Tiers}},
		{"no tiers", Config{Spacing: 1000}},
		{"window beyond spacing", Config{Spacing: 100, Tiers: []Tier{{Window: 101}}}},
		{"zero window", Config{Spacing: 100, Tiers: []Tier{{Window: 0}}}},
		{"bounded last tier", Config{Spacing: 100, Tiers: []Tier{{MaxSeparation: 10, Window: 5}}}},
		{"unsorted", Config{Spacing: 1000, Tiers: []Tier{{MaxSeparation: 500, Window: 5}, {MaxSeparation: 400, Window: 6}, {Window: 7}}}},
		{"uint16 overflow", Config{Spacing: math.MaxUint16 + 10, Tiers: []Tier{{Window: math.MaxUint16 + 1}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.cfg.Validate())
		})
	}
}
