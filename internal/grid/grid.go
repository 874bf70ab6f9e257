// Package grid derives grid points, resolution tiers and comparison windows
// for a sequence. It never touches I/O or concurrency.
package grid

import (
	"errors"
	"fmt"
	"math"
)

// MaxWindow is the longest window the distance kernel scores; it equals
// kernel.MaxLen.
const MaxWindow = math.MaxUint16

// Spacing is the default distance in bases between adjacent grid points.
const Spacing = 1000

// Default tier thresholds (genomic separation, bp) and windows.
const (
	NearMaxSeparation = 100_000
	NearWindow        = 10
	MidMaxSeparation  = 1_000_000
	MidWindow         = 100
)

// Tier is one resolution bucket. A pair falls in the first tier whose
// MaxSeparation is >= the pair's separation; MaxSeparation 0 means unbounded
// and is only valid for the last tier.
type Tier struct {
	MaxSeparation int
	Window        int
}

// Config describes the sampling grid.
type Config struct {
	Spacing int
	Tiers   []Tier
}

// Default returns the 1 kb grid with 10 bp / 100 bp / 1 kb windows.
func Default() Config {
	return Config{
		Spacing: Spacing,
		Tiers: []Tier{
			{MaxSeparation: NearMaxSeparation, Window: NearWindow},
			{MaxSeparation: MidMaxSeparation, Window: MidWindow},
			{MaxSeparation: 0, Window: Spacing},
		},
	}
}

var (
	ErrBadSpacing = errors.New("grid: spacing must be positive")
	ErrNoTiers    = errors.New("grid: at least one tier is required")
)

// Validate checks the configuration invariant: every window fits inside
// one grid step (so windows never run past the sequence end) and inside
// uint16 (so a distance can never overflow its column).
func (c Config) Validate() error {
	if c.Spacing <= 0 {
		return ErrBadSpacing
	}
	if len(c.Tiers) == 0 {
		return ErrNoTiers
	}
	if len(c.Tiers) > math.MaxUint8+1 {
		return fmt.Errorf("grid: %d tiers exceed the uint8 type column", len(c.Tiers))
	}
	prev := 0
	for k, t := range c.Tiers {
		if t.Window <= 0 || t.Window > c.Spacing {
			return fmt.Errorf("grid: tier %d window %d outside 1..%d", k, t.Window, c.Spacing)
		}
		if t.Window > MaxWindow {
			return fmt.Errorf("grid: tier %d window %d overflows uint16 distances", k, t.Window)
		}
		last := k == len(c.Tiers)-1
		switch {
		case last && t.MaxSeparation != 0:
			return fmt.Errorf("grid: last tier must be unbounded (max separation 0), got %d", t.MaxSeparation)
		case !last && t.MaxSeparation <= prev:
			return fmt.Errorf("grid: tier %d max separation %d not above %d", k, t.MaxSeparation, prev)
		}
		prev = t.MaxSeparation
	}
	return nil
}

// NumPoints returns floor(length / spacing).
func (c Config) NumPoints(length int) int {
	if length <= 0 {
		return 0
	}
	return length / c.Spacing
}

// PairCount is the number of upper-triangular pairs over n points.
func PairCount(n int) int64 {
	if n < 2 {
		return 0
	}
	return int64(n) * int64(n-1) / 2
}

// Position returns the base offset of grid point i.
func (c Config) Position(i int) int { return i * c.Spacing }

// Classify maps a genomic separation to its tier index and window length.
func (c Config) Classify(sep int) (uint8, int) {
	for k, t := range c.Tiers {
		if t.MaxSeparation == 0 || sep <= t.MaxSeparation {
			return uint8(k), t.Window
		}
	}
	// unreachable for a validated config
	last := len(c.Tiers) - 1
	return uint8(last), c.Tiers[last].Window
}

// Windows slices the two comparison windows for grid points i < j.
// Callers guarantee j < NumPoints(len(seq)).
func (c Config) Windows(seq []byte, i, j int) (a, b []byte, tier uint8) {
	p1, p2 := c.Position(i), c.Position(j)
	tier, w := c.Classify(p2 - p1)
	return seq[p1 : p1+w], seq[p2 : p2+w], tier
}

// ForEachInRow calls fn for every j in (i, n), ascending. Stops early when
// fn returns false and reports whether the row completed.
func ForEachInRow(i, n int, fn func(j int) bool) bool {
	for j := i + 1; j < n; j++ {
		if !fn(j) {
			return false
		}
	}
	return true
}

// ForEachPair walks {(i,j): 0 <= i < j < n} in row-major order.
func ForEachPair(n int, fn func(i, j int) bool) bool {
	for i := 0; i+1 < n; i++ {
		if !ForEachInRow(i, n, func(j int) bool { return fn(i, j) }) {
			return false
		}
	}
	return true
}

// Rows is the number of outer indices that own at least one pair.
func Rows(n int) int {
	if n < 2 {
		return 0
	}
	return n - 1
}
