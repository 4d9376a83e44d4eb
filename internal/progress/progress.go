// internal/progress/progress.go
package progress

import (
	"io"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

// Bar is a thin wrapper around an mpb progress bar. A nil *Bar is a valid
// no-op, so quiet runs can skip the display without branching at every
// increment site.
type Bar struct {
	p   *mpb.Progress
	bar *mpb.Bar
}

// New creates a single named bar rendered to w.
func New(w io.Writer, name string, total int) *Bar {
	p := mpb.New(mpb.WithWidth(40), mpb.WithOutput(w))
	bar := p.AddBar(int64(total),
		mpb.PrependDecorators(
			decor.Name(name+" "),
			decor.CountersNoUnit("%d / %d"),
		),
		mpb.AppendDecorators(decor.Percentage()),
	)
	return &Bar{p: p, bar: bar}
}

// Increment advances the bar by one unit.
func (b *Bar) Increment() {
	if b == nil {
		return
	}
	b.bar.Increment()
}

// Wait blocks until the bar has rendered its final state.
func (b *Bar) Wait() {
	if b == nil {
		return
	}
	b.p.Wait()
}
