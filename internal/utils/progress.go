package utils

import (
	"fmt"
	"io"
	"os"
	"sync/atomic"
	"time"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
	"golang.org/x/term"
)

// Progress is a file-count progress bar on stderr. It is a no-op unless
// enabled and stderr is a terminal.
type Progress struct {
	container *mpb.Progress
	bar       *mpb.Bar
	enabled   bool
	out       io.Writer
	current   atomic.Pointer[string]
	failed    atomic.Int64
}

var descLength = 24

// NewProgress creates a progress bar over total files
func NewProgress(total int, enabled bool) *Progress {
	return newProgress(total, enabled && isTerminal(), os.Stderr)
}

func newProgress(total int, enabled bool, out io.Writer) *Progress {
	p := &Progress{enabled: enabled, out: out}
	empty := ""
	p.current.Store(&empty)

	if !enabled {
		return p
	}

	fmt.Fprintln(out)

	p.container = mpb.New(
		mpb.WithOutput(out),
		mpb.WithWidth(64),
		mpb.WithRefreshRate(100*time.Millisecond),
	)

	p.bar = p.container.New(int64(total),
		mpb.BarStyle().Lbound("[").Filler("█").Tip("█").Padding("░").Rbound("]"),
		mpb.PrependDecorators(
			decor.Any(func(decor.Statistics) string {
				name := *p.current.Load()
				if len(name) > descLength {
					return name[:descLength-2] + ".."
				}
				return name
			}, decor.WC{W: descLength, C: decor.DindentRight}),
			decor.Name("  "),
			decor.CountersNoUnit("%d/%d", decor.WC{C: decor.DindentRight}),
		),
		mpb.AppendDecorators(
			decor.Percentage(),
			decor.Any(func(decor.Statistics) string {
				if n := p.failed.Load(); n > 0 {
					return fmt.Sprintf("  %d failed", n)
				}
				return ""
			}),
		),
	)

	return p
}

// Enabled reports whether the bar is drawn
func (p *Progress) Enabled() bool {
	return p.enabled
}

// Increment advances the bar by one file
func (p *Progress) Increment(name string, failed bool) {
	if !p.enabled || p.bar == nil {
		return
	}
	p.current.Store(&name)
	if failed {
		p.failed.Add(1)
	}
	p.bar.Increment()
}

// Finish completes the bar and shuts down the container
func (p *Progress) Finish() {
	if !p.enabled || p.container == nil {
		return
	}
	if !p.bar.Completed() {
		p.bar.Abort(false)
	}
	p.container.Wait()
	fmt.Fprintln(p.out)
}

// isTerminal checks if stderr is a terminal (TTY)
func isTerminal() bool {
	return term.IsTerminal(int(os.Stderr.Fd()))
}
