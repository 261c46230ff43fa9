package changelog

import (
	"regexp"
	"strings"
)

// conventionalPattern matches "type(scope)!: description" on the first line.
var conventionalPattern = regexp.MustCompile(`^([ \w-]+)(\(([ \w-]+)\))?(!?): ([^\n]*)`)

// typeAliases maps common spellings to canonical conventional commit types.
var typeAliases = map[string]string{
	"doc":           "docs",
	"documentation": "docs",
	"fixes":         "fix",
	"bugfix":        "fix",
	"work":          "chore",
	"chores":        "chore",
	"maintenance":   "chore",
	"feature":       "feat",
	"cleanup":       "refactor",
	"performance":   "perf",
	"testing":       "test",
	"tests":         "test",
	"version":       "release",
	"integration":   "ci",
	"break":         "breaking",
	"undo":          "revert",
}

// NormalizeType lower-cases a commit type and resolves aliases.
func NormalizeType(t string) string {
	t = strings.ToLower(strings.TrimSpace(t))
	if canonical, ok := typeAliases[t]; ok {
		return canonical
	}
	return t
}

// Classify parses a commit message. Messages that are not conventional
// commits get TypeOther, their first line as description and the rest as body.
func Classify(message string) Commit {
	subject, rest, _ := strings.Cut(message, "\n")
	body := strings.TrimSpace(rest)

	if m := conventionalPattern.FindStringSubmatch(message); m != nil && NormalizeType(m[1]) != "" {
		return Commit{
			Type:        NormalizeType(m[1]),
			Scope:       strings.TrimSpace(m[3]),
			Description: strings.TrimSpace(m[5]),
			Body:        body,
			Breaking:    m[4] == "!" || strings.Contains(body, "BREAKING CHANGE"),
		}
	}

	return Commit{
		Type:        TypeOther,
		Description: strings.TrimSpace(subject),
		Body:        body,
		Breaking:    strings.Contains(message, "BREAKING"),
	}
}

// ClassifyAll classifies every message, preserving order.
func ClassifyAll(messages []string) []Commit {
	commits := make([]Commit, len(messages))
	for i, m := range messages {
		commits[i] = Classify(m)
	}
	return commits
}
