// Package kernel computes edit distances between equal-sized sequence windows.
// It is pure: no I/O, no shared state. Keep it free of pipeline concerns.
package kernel

import "math"

// MaxLen is the longest input whose distance still fits the uint16 result.
// Rows are uint32 so the intermediate +1 steps at MaxLen cannot wrap.
const MaxLen = math.MaxUint16

// Scratch holds the two rolling rows of the recurrence. A worker keeps one
// Scratch and reuses it across calls; it is not safe for concurrent use.
type Scratch struct {
	prev []uint32
	cur  []uint32
}

// Distance returns the Levenshtein distance between a and b
// (unit cost insertion, deletion, substitution).
func Distance(a, b []byte) uint16 {
	var s Scratch
	return s.Distance(a, b)
}

// Distance is the allocation-free form of Distance once the rows have grown
// to the longest window seen.
func (s *Scratch) Distance(a, b []byte) uint16 {
	if len(a) == 0 {
		return checkedLen(b)
	}
	if len(b) == 0 {
		return checkedLen(a)
	}
	// shorter input is the row dimension
	if len(a) > len(b) {
		a, b = b, a
	}
	if len(b) > MaxLen {
		panic("kernel: window longer than MaxLen")
	}

	n := len(a)
	s.grow(n + 1)
	prev, cur := s.prev[:n+1], s.cur[:n+1]
	for i := range prev {
		prev[i] = uint32(i)
	}

	for j := 1; j <= len(b); j++ {
		cur[0] = uint32(j)
		bj := b[j-1]
		for i := 1; i <= n; i++ {
			sub := prev[i-1]
			if a[i-1] != bj {
				sub++
			}
			del := prev[i] + 1
			ins := cur[i-1] + 1
			if del < sub {
				sub = del
			}
			if ins < sub {
				sub = ins
			}
			cur[i] = sub
		}
		prev, cur = cur, prev
	}
	return uint16(prev[n])
}

func (s *Scratch) grow(n int) {
	if cap(s.prev) >= n {
		return
	}
	s.prev = make([]uint32, n)
	s.cur = make([]uint32, n)
}

func checkedLen(p []byte) uint16 {
	if len(p) > MaxLen {
		panic("kernel: window longer than MaxLen")
	}
	return uint16(len(p))
}
