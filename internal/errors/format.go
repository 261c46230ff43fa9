package errors

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// palette colors the parts of a formatted error. The plain palette leaves
// text untouched.
type palette struct {
	label, message, category, usage, usageText, fix, bullet func(a ...any) string
}

var colored = palette{
	label:     color.New(color.FgRed, color.Bold).SprintFunc(),
	message:   color.New(color.FgRed).SprintFunc(),
	category:  color.New(color.FgYellow).SprintFunc(),
	usage:     color.New(color.FgCyan, color.Bold).SprintFunc(),
	usageText: color.New(color.FgCyan).SprintFunc(),
	fix:       color.New(color.FgGreen, color.Bold).SprintFunc(),
	bullet:    color.New(color.FgGreen).SprintFunc(),
}

var plain = palette{
	label: fmt.Sprint, message: fmt.Sprint, category: fmt.Sprint,
	usage: fmt.Sprint, usageText: fmt.Sprint, fix: fmt.Sprint, bullet: fmt.Sprint,
}

// FormatError formats a CLIError for the terminal. Colors follow
// color.NoColor, so output is plain when --no-color is set or stdout is not
// a terminal.
func FormatError(err *CLIError) string {
	if err == nil {
		return ""
	}
	return formatError(err, colored)
}

// FormatErrorPlain formats a CLIError without colors.
func FormatErrorPlain(err *CLIError) string {
	if err == nil {
		return ""
	}
	return formatError(err, plain)
}

func formatError(err *CLIError, p palette) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s [%s]: %s\n", p.label("Error"), p.category(err.Category.String()), p.message(err.Message))

	if err.Usage != "" {
		fmt.Fprintf(&sb, "\n%s%s\n", p.usage("Usage: "), p.usageText(err.Usage))
	}

	if len(err.Remediation) > 0 {
		fmt.Fprintf(&sb, "\n%s\n", p.fix("To fix this:"))
		for _, step := range err.Remediation {
			fmt.Fprintf(&sb, "  %s %s\n", p.bullet("•"), step)
		}
	}

	return sb.String()
}

// FprintError writes a formatted CLIError to w.
func FprintError(w io.Writer, err *CLIError) {
	if err == nil {
		return
	}
	fmt.Fprint(w, FormatError(err))
}

// FormatSimpleError formats a plain error as a CLIError of the given category.
func FormatSimpleError(err error, category ErrorCategory) string {
	if err == nil {
		return ""
	}
	return FormatError(&CLIError{Category: category, Message: err.Error()})
}
