// Package changelog builds release notes from commit history.
//
// This package implements:
//   - parsing `git log` output into commit messages, stopping at the previous
//     release (a tagged commit or a version bump commit)
//   - classifying messages as conventional commits (type, scope, breaking)
//   - grouping commits by type and scope in a fixed priority order
//   - rendering the groups as Markdown with footnotes for commit bodies
package changelog

var debugLogger func(format string, args ...any)

// SetDebugLogger configures the debug logger for changelog generation.
// Pass nil to disable debug logging.
func SetDebugLogger(logger func(format string, args ...any)) {
	debugLogger = logger
}

func logDebug(format string, args ...any) {
	if debugLogger != nil {
		debugLogger(format, args...)
	}
}
