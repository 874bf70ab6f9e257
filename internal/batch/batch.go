// Package batch buffers pair records into fixed-capacity columnar batches.
package batch

// Row capacities for the two execution modes.
const (
	BulkCapacity     = 1 << 16
	EmbeddedCapacity = 1 << 12
)

// Record is one computed grid pair.
type Record struct {
	Idx1     uint32
	Idx2     uint32
	Distance uint16
	Tier     uint8
}

// Batch is a sealed, columnar group of records belonging to one sequence.
// Columns always have equal length. A Batch is never mutated after it has
// been handed to a sink.
type Batch struct {
	Name     string
	Idx1     []uint32
	Idx2     []uint32
	Distance []uint16
	Type     []uint8
}

// Len reports the row count.
func (b *Batch) Len() int {
	if b == nil {
		return 0
	}
	return len(b.Idx1)
}

// Row returns row k as a Record.
func (b *Batch) Row(k int) Record {
	return Record{Idx1: b.Idx1[k], Idx2: b.Idx2[k], Distance: b.Distance[k], Tier: b.Type[k]}
}

func newBatch(name string, capacity int) *Batch {
	return &Batch{
		Name:     name,
		Idx1:     make([]uint32, 0, capacity),
		Idx2:     make([]uint32, 0, capacity),
		Distance: make([]uint16, 0, capacity),
		Type:     make([]uint8, 0, capacity),
	}
}

// Accumulator collects records for a single producer. It is not safe for
// concurrent use.
type Accumulator struct {
	capacity int
	name     string
	cur      *Batch
}

// NewAccumulator returns an empty accumulator; capacity <= 0 selects
// BulkCapacity.
func NewAccumulator(capacity int) *Accumulator {
	if capacity <= 0 {
		capacity = BulkCapacity
	}
	return &Accumulator{capacity: capacity}
}

// Reset drops any buffered rows and tags subsequent rows with name.
func (a *Accumulator) Reset(name string) {
	a.name = name
	a.cur = nil
}

// Append adds one record in arrival order.
func (a *Accumulator) Append(r Record) {
	if a.cur == nil {
		a.cur = newBatch(a.name, a.capacity)
	}
	a.cur.Idx1 = append(a.cur.Idx1, r.Idx1)
	a.cur.Idx2 = append(a.cur.Idx2, r.Idx2)
	a.cur.Distance = append(a.cur.Distance, r.Distance)
	a.cur.Type = append(a.cur.Type, r.Tier)
}

// Len reports the buffered row count.
func (a *Accumulator) Len() int { return a.cur.Len() }

// IsFull reports whether the buffered rows reached capacity.
func (a *Accumulator) IsFull() bool { return a.cur.Len() >= a.capacity }

// Capacity returns the fixed batch size.
func (a *Accumulator) Capacity() int { return a.capacity }

// Take seals and returns the buffered batch (nil when empty). The next
// Append starts a fresh batch, so the returned one is never touched again.
func (a *Accumulator) Take() *Batch {
	b := a.cur
	a.cur = nil
	if b.Len() == 0 {
		return nil
	}
	return b
}
