package errors

import "fmt"

// Common error messages for the cpp-actions CLI.
// These templates ensure consistent, actionable error messages.

// GitNotRepository creates an error when the changelog directory is not a git repository.
func GitNotRepository(dir string) *CLIError {
	return NewPrerequisiteError(
		fmt.Sprintf("not a git repository: %s", dir),
		"Run the command inside a repository checkout",
		"Or point to one with: cpp-actions changelog --dir <path>",
		"Or read a saved log with: cpp-actions changelog --log-file <file>",
	)
}

// WorkflowNotFound creates an error when the CI workflow cannot be read.
func WorkflowNotFound(path string) *CLIError {
	return NewPrerequisiteError(
		fmt.Sprintf("workflow not found: %s", path),
		"Check docs.workflow in .cpp-actions.yml",
		"Or pass the workflow explicitly: cpp-actions docs --workflow <file>",
	)
}

// ManifestNotFound creates an error when an action has no readable action.yml.
func ManifestNotFound(action, path string) *CLIError {
	return NewPrerequisiteError(
		fmt.Sprintf("action manifest not found for %s: %s", action, path),
		"Check that docs.root points to the repository root",
		"Or remove the action from docs.actions",
	)
}

// InvalidPattern creates an error for a pattern that is not a valid regular expression.
func InvalidPattern(flag, pattern string, err error) *CLIError {
	return WrapWithMessage(err, Argument,
		fmt.Sprintf("invalid %s %q", flag, pattern),
		"Patterns use Go regular expression syntax",
		"Example: --tag-pattern 'v[0-9]+\\.[0-9]+\\.[0-9]+'",
	)
}

// InvalidMatrixEntry creates an error when a matrix index is out of range.
func InvalidMatrixEntry(index, count int) *CLIError {
	return NewArgumentErrorWithUsage(
		fmt.Sprintf("matrix entry %d out of range (workflow has %d entries)", index, count),
		"cpp-actions eval --workflow <file> --matrix-entry <N> <expression>",
		"Matrix entries are numbered from 0",
	)
}

// InvalidAssignment creates an error for a malformed --set or --set-list value.
func InvalidAssignment(flag, value string) *CLIError {
	return NewArgumentErrorWithUsage(
		fmt.Sprintf("invalid %s value: %s", flag, value),
		fmt.Sprintf("cpp-actions eval %s name=value <expression>", flag),
		"Names may be qualified: matrix.compiler=gcc",
	)
}

// ConfigParseError creates an error for an invalid config file.
func ConfigParseError(err error) *CLIError {
	return WrapWithMessage(err, Configuration,
		"failed to load configuration",
		"Check .cpp-actions.yml and ~/.config/cpp-actions/config.yml",
		"Show the effective configuration with: cpp-actions config show",
		"Regenerate a commented template with: cpp-actions config init --force",
	)
}

// FileNotWritable creates an error when a generated file cannot be written.
func FileNotWritable(path string, err error) *CLIError {
	return WrapWithMessage(err, Runtime,
		fmt.Sprintf("cannot write to file: %s", path),
		"Check file permissions: ls -la "+path,
		"Ensure parent directory exists and is writable",
	)
}

// FileExists creates an error when a command would overwrite an existing file.
func FileExists(path string) *CLIError {
	return NewArgumentError(
		fmt.Sprintf("file already exists: %s", path),
		"Use --force to overwrite it",
	)
}
