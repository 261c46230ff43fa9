package changelog

import (
	"fmt"
	"io"
	"strings"
)

// ParentRelease identifies the release the changelog is relative to.
type ParentRelease struct {
	Tag    string
	Commit string
	// RepoURL is the web URL of the repository, without a trailing ".git".
	// When empty the parent release is printed without links.
	RepoURL string
}

// RenderOptions controls the optional trailer of the changelog.
type RenderOptions struct {
	Parent *ParentRelease
}

// RenderMarkdown writes the grouped commits as Markdown.
//
// Each type gets a "## <icon> <Title>" section, except when the only type
// present is TypeOther. Scopes with several commits become nested lists;
// single-commit scopes are written as a "scope: " prefix. Commit bodies are
// moved to numbered footnotes at the end of the document.
func RenderMarkdown(groups []TypeGroup, w io.Writer, opts RenderOptions) error {
	var out, footnotes strings.Builder
	footnoteCount := 0
	featCount := 0

	for _, g := range groups {
		if len(groups) > 1 || g.Type != TypeOther {
			fmt.Fprintf(&out, "\n## %s %s\n\n", Icon(g.Type), Title(g.Type))
		}
		for _, sg := range g.Scopes {
			pad, prefix := "", ""
			if sg.Scope != "" {
				if len(sg.Commits) > 1 {
					fmt.Fprintf(&out, "- %s:\n", sg.Scope)
					pad = "    "
				} else {
					prefix = sg.Scope + ": "
				}
			}
			for _, c := range sg.Commits {
				icon := ""
				if c.Type == "feat" {
					icon = featureIcons[featCount%len(featureIcons)] + " "
					featCount++
				}
				suffix := ""
				if c.Breaking {
					suffix = " (" + Icon("breaking") + " BREAKING)"
				}
				if note := footnoteText(c.Body); note != "" {
					footnoteCount++
					suffix += fmt.Sprintf("[^%d]", footnoteCount)
					fmt.Fprintf(&footnotes, "[^%d]: %s\n", footnoteCount, note)
				}
				fmt.Fprintf(&out, "%s- %s%s%s%s\n", pad, icon, prefix, c.Description, suffix)
			}
		}
	}

	if p := opts.Parent; p != nil && p.Tag != "" {
		out.WriteString("\n\n")
		out.WriteString(formatParentRelease(p))
	}

	if footnotes.Len() > 0 {
		out.WriteString("\n\n")
		out.WriteString(footnotes.String())
	}

	_, err := io.WriteString(w, out.String())
	return err
}

// RenderMarkdownString is a convenience function that renders to a string.
func RenderMarkdownString(groups []TypeGroup, opts RenderOptions) (string, error) {
	var b strings.Builder
	if err := RenderMarkdown(groups, &b, opts); err != nil {
		return "", err
	}
	return b.String(), nil
}

// footnoteText flattens a commit body onto a single line.
func footnoteText(body string) string {
	return strings.Join(strings.Fields(body), " ")
}

func formatParentRelease(p *ParentRelease) string {
	short := p.Commit
	if len(short) > 7 {
		short = short[:7]
	}
	if p.RepoURL == "" {
		return fmt.Sprintf("> Parent release: %s (commit %s)\n", p.Tag, short)
	}
	return fmt.Sprintf("> Parent release: [%s](%s/releases/tag/%s) (commit [%s](%s/tree/%s))\n",
		p.Tag, p.RepoURL, p.Tag, short, p.RepoURL, p.Tag)
}
