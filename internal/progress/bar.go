package progress

import (
	"io"
	"sync"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

// Bar renders one mpb progress bar per sequence, counting grid rows.
type Bar struct {
	p *mpb.Progress

	mu  sync.Mutex
	cur *mpb.Bar
}

// NewBar draws bars on w (normally stderr).
func NewBar(w io.Writer) *Bar {
	return &Bar{p: mpb.New(mpb.WithWidth(40), mpb.WithOutput(w))}
}

func (b *Bar) Begin(name string, rows int) {
	label := name + ": "
	bar := b.p.AddBar(int64(rows),
		mpb.PrependDecorators(
			decor.Name(label, decor.WC{W: len(label), C: decor.DindentRight}),
			decor.CountersNoUnit("%d / %d", decor.WCSyncWidth),
		),
		mpb.AppendDecorators(
			decor.Name("ETA: ", decor.WC{W: len("ETA: ")}),
			decor.AverageETA(decor.ET_STYLE_GO),
			decor.OnComplete(decor.Name(""), ". done"),
		),
	)
	b.mu.Lock()
	b.cur = bar
	b.mu.Unlock()
}

func (b *Bar) Advance(rows int) {
	b.mu.Lock()
	bar := b.cur
	b.mu.Unlock()
	if bar != nil {
		bar.IncrBy(rows)
	}
}

func (b *Bar) End(ok bool) {
	b.mu.Lock()
	bar := b.cur
	b.cur = nil
	b.mu.Unlock()
	if bar == nil {
		return
	}
	if ok {
		bar.SetTotal(-1, true)
		return
	}
	bar.Abort(false)
}

// Close waits for all bars to finish rendering.
func (b *Bar) Close() { b.p.Wait() }
