package output

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func withoutColor(t *testing.T) {
	t.Helper()
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })
}

func TestPrinters(t *testing.T) {
	withoutColor(t)

	tests := map[string]struct {
		print func(*bytes.Buffer)
		want  string
	}{
		"header": {
			print: func(b *bytes.Buffer) { PrintHeader(b, "Generating changelog") },
			want:  "Generating changelog...\n",
		},
		"success": {
			print: func(b *bytes.Buffer) { PrintSuccess(b, "Wrote CHANGELOG.md") },
			want:  "✓ Wrote CHANGELOG.md\n",
		},
		"warning": {
			print: func(b *bytes.Buffer) { PrintWarning(b, "remote tags unavailable") },
			want:  "warning: remote tags unavailable\n",
		},
		"detail": {
			print: func(b *bytes.Buffer) { PrintDetail(b, "%d commits", 3) },
			want:  "  3 commits\n",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.print(&buf)
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestPrintRule(t *testing.T) {
	withoutColor(t)

	var buf bytes.Buffer
	PrintRule(&buf, "docs")
	out := buf.String()
	assert.Contains(t, out, "─── docs ───")
	assert.Equal(t, byte('\n'), out[0])
}

func TestGetTerminalWidth_Default(t *testing.T) {
	// Test binaries do not run on a terminal.
	assert.Equal(t, 80, GetTerminalWidth())
}
