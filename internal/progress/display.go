package progress

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
)

// TerminalCapabilities describes what the output terminal supports.
type TerminalCapabilities struct {
	IsTTY           bool
	SupportsColor   bool
	SupportsUnicode bool
	Width           int
}

// ProgressSymbols are the markers printed when a step finishes.
type ProgressSymbols struct {
	Checkmark  string
	Failure    string
	SpinnerSet int
}

// Display prints step progress. A spinner is only shown on a TTY; otherwise
// each step prints a start line and a result line.
type Display struct {
	mu      sync.Mutex
	out     io.Writer
	caps    TerminalCapabilities
	symbols ProgressSymbols
	spin    *spinner.Spinner
	step    string
}

// NewDisplay returns a display writing to out.
func NewDisplay(out io.Writer, caps TerminalCapabilities) *Display {
	return &Display{
		out:     out,
		caps:    caps,
		symbols: SelectSymbols(caps),
	}
}

// Start begins a step. A step still running is stopped without a result.
func (d *Display) Start(step string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopSpinner()
	d.step = step
	if !d.caps.IsTTY {
		fmt.Fprintf(d.out, "%s...\n", step)
		return
	}
	d.spin = spinner.New(spinner.CharSets[d.symbols.SpinnerSet], 100*time.Millisecond,
		spinner.WithWriter(d.out), spinner.WithHiddenCursor(true))
	d.spin.Suffix = " " + step
	d.spin.Start()
}

// Succeed ends the current step successfully. An empty detail repeats the
// step name.
func (d *Display) Succeed(detail string) {
	d.finish(d.symbols.Checkmark, color.FgGreen, detail)
}

// Fail ends the current step with a failure marker.
func (d *Display) Fail(detail string) {
	d.finish(d.symbols.Failure, color.FgRed, detail)
}

func (d *Display) finish(symbol string, fg color.Attribute, detail string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopSpinner()
	if detail == "" {
		detail = d.step
	}
	d.step = ""
	if d.caps.SupportsColor {
		symbol = color.New(fg, color.Bold).Sprint(symbol)
	}
	fmt.Fprintf(d.out, "%s %s\n", symbol, detail)
}

func (d *Display) stopSpinner() {
	if d.spin != nil {
		d.spin.Stop()
		d.spin = nil
	}
}
