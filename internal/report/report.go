// Package report folds pair batches into per-sequence plotting points.
package report

import (
	"selfsim/internal/batch"
	"selfsim/pkg/api"
)

// Builder groups rows by sequence. Consecutive batches with the same name
// extend the same entry; it is fed by a single sink goroutine.
type Builder struct {
	sampleRate int
	out        []api.ChromosomeV1
	seen       int // rows seen for the current entry
}

// NewBuilder keeps every sampleRate-th pair per sequence (<= 0 means 1).
func NewBuilder(sampleRate int) *Builder {
	if sampleRate <= 0 {
		sampleRate = 1
	}
	return &Builder{sampleRate: sampleRate}
}

// Add folds one batch in.
func (b *Builder) Add(bt *batch.Batch) {
	if bt.Len() == 0 {
		return
	}
	if len(b.out) == 0 || b.out[len(b.out)-1].Name != bt.Name {
		b.out = append(b.out, api.ChromosomeV1{Name: bt.Name, Points: []api.PointV1{}})
		b.seen = 0
	}
	c := &b.out[len(b.out)-1]
	for k := 0; k < bt.Len(); k++ {
		i, j := bt.Idx1[k], bt.Idx2[k]
		c.MaxIdx = max(c.MaxIdx, i, j)
		b.seen++
		if b.seen%b.sampleRate == 0 {
			c.Points = append(c.Points, api.PointV1{X: i, Y: j, D: bt.Distance[k]})
		}
	}
}

// Chromosomes returns the entries in arrival order (never nil).
func (b *Builder) Chromosomes() []api.ChromosomeV1 {
	if b.out == nil {
		return []api.ChromosomeV1{}
	}
	return b.out
}
