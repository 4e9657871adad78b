package progress

import (
	"io"
	"time"

	"github.com/schollz/progressbar/v3"
)

// Reporter observes how many segments have been scanned.
// Implementations must not influence the extraction result.
type Reporter interface {
	Start(total int)
	Update(done int)
	Finish()
}

// Nop discards all progress.
type Nop struct{}

// Start does nothing
func (Nop) Start(int) {}

// Update does nothing
func (Nop) Update(int) {}

// Finish does nothing
func (Nop) Finish() {}

// Bar draws a terminal progress bar with elapsed time and ETA.
type Bar struct {
	w           io.Writer
	description string
	bar         *progressbar.ProgressBar
}

// NewBar creates a Bar that renders to w
func NewBar(w io.Writer, description string) *Bar {
	return &Bar{w: w, description: description}
}

// Start resets the bar for total segments
func (b *Bar) Start(total int) {
	b.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(b.w),
		progressbar.OptionSetDescription(b.description),
		progressbar.OptionShowCount(),
		progressbar.OptionSetElapsedTime(true),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "#",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			_, _ = io.WriteString(b.w, "\n")
		}),
	)
}

// Update moves the bar to done segments
func (b *Bar) Update(done int) {
	if b.bar == nil {
		return
	}
	// render errors only affect the terminal, never the result
	_ = b.bar.Set(done)
}

// Finish completes the bar
func (b *Bar) Finish() {
	if b.bar == nil {
		return
	}
	_ = b.bar.Finish()
}
