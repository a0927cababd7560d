// Package progress reports how far a processing run has advanced.
package progress

import (
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
)

// Reporter receives progress events from a run.
type Reporter interface {
	Start(total int)
	Step(name string)
	Done()
}

// Nop discards every event.
type Nop struct{}

func (Nop) Start(int)   {}
func (Nop) Step(string) {}
func (Nop) Done()       {}

// Terminal prints one colored "[i/n] name" line per step.
type Terminal struct {
	out     io.Writer
	counter *color.Color
	name    *color.Color
	mu      sync.Mutex
	total   int
	current int
}

// NewTerminal creates a Terminal reporter writing to out.
func NewTerminal(out io.Writer) *Terminal {
	return &Terminal{
		out:     out,
		counter: color.New(color.FgCyan),
		name:    color.New(color.Bold),
	}
}

func (t *Terminal) Start(total int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.total = total
	t.current = 0
	if total == 0 {
		_, _ = fmt.Fprintln(t.out, color.YellowString("No bundles to process"))
	}
}

func (t *Terminal) Step(name string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.current++
	width := len(fmt.Sprint(t.total))
	_, _ = t.counter.Fprintf(t.out, "[%*d/%d]", width, t.current, t.total)
	_, _ = fmt.Fprint(t.out, " ")
	_, _ = t.name.Fprintln(t.out, name)
}

func (t *Terminal) Done() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.total > 0 {
		_, _ = fmt.Fprintln(t.out, color.GreenString("Processed %d of %d bundles", t.current, t.total))
	}
}
