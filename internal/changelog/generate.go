package changelog

import (
	"fmt"
	"io"
	"regexp"
)

// Options configures Generate.
type Options struct {
	VersionPattern *regexp.Regexp
	// Tagged maps full commit hashes to release tag names.
	Tagged map[string]string
	// Limit keeps only the newest Limit messages when positive.
	Limit int
	// RepoURL is used to link the parent release.
	RepoURL string
}

// Result is a generated changelog together with the counts the CLI reports.
type Result struct {
	Markdown   string
	Messages   int
	Categories int
	Limited    bool
	Parent     *ParentRelease
}

// Generate runs the whole pipeline over commit log text: parse, limit,
// classify, group and render.
func Generate(logText io.Reader, opts Options) (*Result, error) {
	log, err := ParseLog(logText, ParseOptions{
		VersionPattern: opts.VersionPattern,
		Tagged:         opts.Tagged,
	})
	if err != nil {
		return nil, err
	}

	messages := log.Messages()
	limited := false
	if opts.Limit > 0 && len(messages) > opts.Limit {
		messages = messages[:opts.Limit]
		limited = true
	}

	groups := GroupCommits(ClassifyAll(messages))

	var parent *ParentRelease
	if tag, ok := opts.Tagged[log.Boundary]; ok && log.Boundary != "" {
		parent = &ParentRelease{Tag: tag, Commit: log.Boundary, RepoURL: opts.RepoURL}
	}

	md, err := RenderMarkdownString(groups, RenderOptions{Parent: parent})
	if err != nil {
		return nil, fmt.Errorf("rendering changelog: %w", err)
	}

	return &Result{
		Markdown:   md,
		Messages:   len(messages),
		Categories: len(groups),
		Limited:    limited,
		Parent:     parent,
	}, nil
}
