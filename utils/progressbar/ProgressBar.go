// Package progressbar implements functionality of printing a progress
// bar to a terminal
package progressbar

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// ProgressBar implements a progress bar that must be manually managed.
// That is, Display must be called whenever an updated progress bar
// should be printed.
//
// ProgressBar does not use concurrency and is not safe for concurrent
// use.
type ProgressBar struct {
	out       io.Writer
	width     int
	max       int
	current   int
	label     string
	bar       strings.Builder
	startTime time.Time
}

// New returns a new ProgressBar which is width characters wide, reaches
// 100% after max calls to Increment, and prints to out
func New(out io.Writer, width, max int) *ProgressBar {
	if width < 1 || max < 1 {
		panic(fmt.Sprintf("new: width %d and max %d must be positive",
			width, max))
	}
	return &ProgressBar{
		out:       out,
		width:     width,
		max:       max,
		startTime: time.Now(),
	}
}

// Increment increments the internal progress counter. Each time an
// iteration is performed, Increment should be called.
func (p *ProgressBar) Increment() {
	if p.current < p.max {
		p.current++
	}
}

// SetLabel sets the text displayed after the bar
func (p *ProgressBar) SetLabel(label string) {
	p.label = label
}

// Fraction returns the fraction of progress completed
func (p *ProgressBar) Fraction() float64 {
	return float64(p.current) / float64(p.max)
}

// String returns the progress bar without terminal control codes
func (p *ProgressBar) String() string {
	p.bar.Reset()
	p.bar.WriteString("|")

	filled := p.current * p.width / p.max
	p.bar.WriteString(strings.Repeat("█", filled))
	p.bar.WriteString(strings.Repeat(" ", p.width-filled))

	fmt.Fprintf(&p.bar, "| [%.2f%% | elapsed: %v]", p.Fraction()*100,
		time.Since(p.startTime).Truncate(time.Second))
	if p.label != "" {
		fmt.Fprintf(&p.bar, " %s", p.label)
	}
	return p.bar.String()
}

// Display overwrites the current terminal line with the progress bar
func (p *ProgressBar) Display() {
	fmt.Fprintf(p.out, "\r\033[K%v", p.String())
}

// Finish displays the progress bar a final time and moves to the next
// line
func (p *ProgressBar) Finish() {
	p.Display()
	fmt.Fprintln(p.out)
}
