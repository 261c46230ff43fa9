// Package progress reports long-running steps, such as listing remote tags,
// with a spinner on terminals and plain lines elsewhere.
package progress

import (
	"os"

	"golang.org/x/term"
)

// asciiEnv forces ASCII markers and spinner frames when set to "1".
const asciiEnv = "CPP_ACTIONS_ASCII"

// DetectTerminalCapabilities reports what f supports. Color honours NO_COLOR
// and Unicode honours CPP_ACTIONS_ASCII; neither is used off a terminal.
func DetectTerminalCapabilities(f *os.File) TerminalCapabilities {
	if f == nil {
		return TerminalCapabilities{}
	}
	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return TerminalCapabilities{}
	}

	caps := TerminalCapabilities{
		IsTTY:           true,
		SupportsColor:   os.Getenv("NO_COLOR") == "",
		SupportsUnicode: os.Getenv(asciiEnv) != "1",
	}
	if w, _, err := term.GetSize(fd); err == nil {
		caps.Width = w
	}
	return caps
}

// SelectSymbols picks Unicode markers and braille spinner frames (set 14),
// or [OK]/[FAIL] with the |/-\ spinner (set 9).
func SelectSymbols(caps TerminalCapabilities) ProgressSymbols {
	if caps.SupportsUnicode {
		return ProgressSymbols{Checkmark: "✓", Failure: "✗", SpinnerSet: 14}
	}
	return ProgressSymbols{Checkmark: "[OK]", Failure: "[FAIL]", SpinnerSet: 9}
}
