package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/spf13/cobra"

	"github.com/alandefreitas/cpp-actions-tools/internal/changelog"
	"github.com/alandefreitas/cpp-actions-tools/internal/config"
	clierrors "github.com/alandefreitas/cpp-actions-tools/internal/errors"
	"github.com/alandefreitas/cpp-actions-tools/internal/git"
	"github.com/alandefreitas/cpp-actions-tools/internal/output"
	"github.com/alandefreitas/cpp-actions-tools/internal/progress"
)

type changelogOptions struct {
	dir            string
	versionPattern string
	tagPattern     string
	output         string
	limit          int
	remoteTags     bool
	remote         string
	logFile        string
	stdout         bool
	remoteTimeout  time.Duration
}

func newChangelogCmd(root *rootOptions) *cobra.Command {
	o := &changelogOptions{}

	cmd := &cobra.Command{
		Use:   "changelog",
		Short: "Generate CHANGELOG.md from the commits since the last release",
		Long: `Generate a Markdown changelog from the commit history.

Commits are read from HEAD back to the previous release: the newest commit
carrying a release tag, or the newest commit whose subject matches the
version pattern. Both patterns match without regard to case.
Conventional commit messages are grouped by type and scope;
commit bodies become footnotes.

Flags override the changelog section of the configuration.`,
		Example: `  # Write CHANGELOG.md for the current repository
  cpp-actions changelog

  # Keep the 20 newest messages and print the result
  cpp-actions changelog --limit 20 --stdout

  # Use saved 'git log' output instead of the repository history
  git log > log.txt && cpp-actions changelog --log-file log.txt`,
		Args:    cobra.NoArgs,
		GroupID: GroupGenerate,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChangelog(cmd, root, o)
		},
	}

	f := cmd.Flags()
	f.StringVar(&o.dir, "dir", "", "Repository to read history from (default: changelog.dir)")
	f.StringVar(&o.versionPattern, "version-pattern", "", "Subject of version bump commits (default: changelog.version_pattern)")
	f.StringVar(&o.tagPattern, "tag-pattern", "", "Tags that mark a release (default: changelog.tag_pattern)")
	f.StringVarP(&o.output, "output", "o", "", "Output file, relative to the repository root (default: changelog.output)")
	f.IntVarP(&o.limit, "limit", "n", 0, "Keep only the newest N messages, 0 for all")
	f.BoolVar(&o.remoteTags, "remote-tags", true, "Also consider the tags of the remote")
	f.StringVar(&o.remote, "remote", "", "Remote used for tags and release links (default: changelog.remote)")
	f.DurationVar(&o.remoteTimeout, "remote-timeout", git.DefaultRemoteTimeout, "Give up listing the remote's tags after this long, 0 waits indefinitely")
	f.StringVar(&o.logFile, "log-file", "", "Read 'git log' output from a file instead of the repository ('-' for stdin)")
	f.BoolVar(&o.stdout, "stdout", false, "Print the changelog instead of writing the output file")

	return cmd
}

// apply overrides the configuration with the flags set on the command line.
func (o *changelogOptions) apply(cmd *cobra.Command, c *config.ChangelogConfig) {
	f := cmd.Flags()
	if f.Changed("dir") {
		c.Dir = o.dir
	}
	if f.Changed("version-pattern") {
		c.VersionPattern = o.versionPattern
	}
	if f.Changed("tag-pattern") {
		c.TagPattern = o.tagPattern
	}
	if f.Changed("output") {
		c.Output = o.output
	}
	if f.Changed("limit") {
		c.Limit = o.limit
	}
	if f.Changed("remote-tags") {
		c.RemoteTags = o.remoteTags
	}
	if f.Changed("remote") {
		c.Remote = o.remote
	}
}

func runChangelog(cmd *cobra.Command, root *rootOptions, o *changelogOptions) error {
	cfg, err := root.loadConfig(cmd)
	if err != nil {
		return err
	}
	c := cfg.Changelog
	o.apply(cmd, &c)

	if c.Limit < 0 {
		return clierrors.NewArgumentError(
			fmt.Sprintf("invalid --limit %d", c.Limit),
			"Use 0 to keep every message",
		)
	}
	versionRe, err := changelog.CompilePattern(c.VersionPattern)
	if err != nil {
		return clierrors.InvalidPattern("--version-pattern", c.VersionPattern, err)
	}
	var tagRe *regexp.Regexp
	if c.TagPattern != "" {
		if tagRe, err = changelog.CompilePattern(c.TagPattern); err != nil {
			return clierrors.InvalidPattern("--tag-pattern", c.TagPattern, err)
		}
	}

	// Status goes to stderr when stdout carries the changelog.
	status := cmd.OutOrStdout()
	if o.stdout {
		status = cmd.ErrOrStderr()
	}
	output.PrintHeader(status, "Generating changelog")

	repo, err := git.OpenRepo(c.Dir)
	if err != nil {
		if o.logFile == "" {
			if errors.Is(err, git.ErrNotRepository) {
				return clierrors.GitNotRepository(c.Dir)
			}
			return err
		}
		output.PrintWarning(status, fmt.Sprintf("no repository at %s, release tags are ignored", c.Dir))
		repo = nil
	}

	logText, err := readLog(cmd, repo, o.logFile)
	if err != nil {
		return err
	}

	tagged := map[string]string{}
	repoURL := ""
	if repo != nil {
		if tagRe != nil {
			if tagged, err = collectTags(cmd.Context(), status, repo, c, tagRe, o.remoteTimeout); err != nil {
				return err
			}
		}
		// Without a remote URL the parent release is printed without links.
		repoURL, _ = git.RemoteURL(repo, c.Remote)
	}

	res, err := changelog.Generate(logText, changelog.Options{
		VersionPattern: versionRe,
		Tagged:         tagged,
		Limit:          c.Limit,
		RepoURL:        repoURL,
	})
	if err != nil {
		return clierrors.WrapWithMessage(err, clierrors.Runtime, "generating changelog")
	}

	output.PrintDetail(status, "%d tagged commits", len(tagged))
	if res.Limited {
		output.PrintDetail(status, "%d commit messages (limited)", res.Messages)
	} else {
		output.PrintDetail(status, "%d commit messages", res.Messages)
	}
	output.PrintDetail(status, "%d categories", res.Categories)
	if res.Parent != nil {
		output.PrintDetail(status, "parent release %s", res.Parent.Tag)
	}

	if o.stdout {
		_, err := io.WriteString(cmd.OutOrStdout(), res.Markdown)
		return err
	}
	outPath := outputPath(repo, c.Output)
	if err := os.WriteFile(outPath, []byte(res.Markdown), 0o644); err != nil {
		return clierrors.FileNotWritable(outPath, err)
	}
	output.PrintSuccess(status, "Wrote "+outPath)
	return nil
}

// outputPath resolves a relative output path against the root of repo, so
// the changelog lands next to the history it describes.
func outputPath(repo *gogit.Repository, path string) string {
	if repo == nil || filepath.IsAbs(path) {
		return path
	}
	root, err := git.RepositoryRoot(repo)
	if err != nil {
		return path
	}
	return filepath.Join(root, path)
}

// readLog returns the `git log` text the changelog is built from.
func readLog(cmd *cobra.Command, repo *gogit.Repository, logFile string) (io.Reader, error) {
	switch logFile {
	case "":
		text, err := git.LogText(repo)
		if err != nil {
			return nil, clierrors.WrapWithMessage(err, clierrors.Runtime, "reading history")
		}
		return strings.NewReader(text), nil
	case "-":
		return cmd.InOrStdin(), nil
	default:
		data, err := os.ReadFile(logFile)
		if err != nil {
			return nil, clierrors.WrapWithMessage(err, clierrors.Prerequisite, "reading log file")
		}
		return bytes.NewReader(data), nil
	}
}

// collectTags merges local release tags with those of the remote. Local tags
// win when both name the same commit. A remote that cannot be listed within
// timeout only produces a warning.
func collectTags(ctx context.Context, status io.Writer, repo *gogit.Repository, c config.ChangelogConfig, pattern *regexp.Regexp, timeout time.Duration) (map[string]string, error) {
	tagged, err := git.TaggedCommits(repo, pattern)
	if err != nil {
		return nil, clierrors.WrapWithMessage(err, clierrors.Runtime, "reading tags")
	}
	if !c.RemoteTags {
		return tagged, nil
	}

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	display := newDisplay(status)
	display.Start(fmt.Sprintf("Listing tags of %s", c.Remote))
	remote, err := git.RemoteTaggedCommits(ctx, repo, c.Remote, pattern)
	if err != nil {
		display.Fail(fmt.Sprintf("remote tags unavailable: %v", err))
		return tagged, nil
	}
	display.Succeed(fmt.Sprintf("%d remote tags", len(remote)))

	for hash, tag := range remote {
		if _, ok := tagged[hash]; !ok {
			tagged[hash] = tag
		}
	}
	return tagged, nil
}

// newDisplay shows a spinner only when w is a terminal.
func newDisplay(w io.Writer) *progress.Display {
	var caps progress.TerminalCapabilities
	if f, ok := w.(*os.File); ok {
		caps = progress.DetectTerminalCapabilities(f)
	}
	return progress.NewDisplay(w, caps)
}
