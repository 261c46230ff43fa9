// Package actiondoc generates the AsciiDoc reference page of each action in
// the repository. A page combines the action's action.yml manifest with
// usage examples taken from the steps of the CI workflow that use it.
package actiondoc

var debugLogger func(format string, args ...any)

// SetDebugLogger configures the debug logger for documentation generation.
// Pass nil to disable debug logging.
func SetDebugLogger(logger func(format string, args ...any)) {
	debugLogger = logger
}

func logDebug(format string, args ...any) {
	if debugLogger != nil {
		debugLogger(format, args...)
	}
}
