// Package git reads the history and release tags of a repository for the
// changelog generator. It uses the go-git library for all operations so the
// tool works without a git executable on PATH.
package git

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/go-git/go-git/v5/plumbing/transport/ssh"
)

// DefaultRemoteTimeout bounds the remote tag listing.
const DefaultRemoteTimeout = 30 * time.Second

// dateLayout matches the Date: line of `git log` in its default format.
const dateLayout = "Mon Jan 2 15:04:05 2006 -0700"

// debugLogger is a function that logs debug messages when debug mode is enabled.
// By default, it's a no-op. Set it via SetDebugLogger to enable debug output.
var debugLogger func(format string, args ...any)

// SetDebugLogger configures the debug logger for git operations.
// Pass nil to disable debug logging.
func SetDebugLogger(logger func(format string, args ...any)) {
	debugLogger = logger
}

func logDebug(format string, args ...any) {
	if debugLogger != nil {
		debugLogger(format, args...)
	}
}

// ErrNotRepository is returned by OpenRepo when no repository contains path.
var ErrNotRepository = git.ErrRepositoryNotExists

// OpenRepo opens the git repository containing path, walking up the
// directory tree to find it. If path is empty, the current working
// directory is used.
func OpenRepo(path string) (*git.Repository, error) {
	if path == "" {
		var err error
		path, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting current directory: %w", err)
		}
	}

	logDebug("[git] opening repository at %s", path)

	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening repository at %s: %w", path, err)
	}
	return repo, nil
}

// RepositoryRoot returns the root directory of the repository's worktree.
func RepositoryRoot(repo *git.Repository) (string, error) {
	worktree, err := repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("getting worktree: %w", err)
	}
	return worktree.Filesystem.Root(), nil
}

// WriteLog writes the history reachable from HEAD in the format of
// `git --no-pager log`: newest first by committer time, with a commit header,
// optional Merge: line, Author: and Date: lines and the message indented by
// four spaces.
func WriteLog(repo *git.Repository, w io.Writer) error {
	head, err := repo.Head()
	if err != nil {
		return fmt.Errorf("getting HEAD reference: %w", err)
	}

	iter, err := repo.Log(&git.LogOptions{
		From:  head.Hash(),
		Order: git.LogOrderCommitterTime,
	})
	if err != nil {
		return fmt.Errorf("reading log: %w", err)
	}
	defer iter.Close()

	count := 0
	err = iter.ForEach(func(c *object.Commit) error {
		if count > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		count++
		return writeCommit(w, c)
	})
	if err != nil {
		return fmt.Errorf("reading log: %w", err)
	}

	logDebug("[git] WriteLog: %d commits", count)
	return nil
}

// LogText returns the output of WriteLog as a string.
func LogText(repo *git.Repository) (string, error) {
	var b strings.Builder
	if err := WriteLog(repo, &b); err != nil {
		return "", err
	}
	return b.String(), nil
}

func writeCommit(w io.Writer, c *object.Commit) error {
	var b strings.Builder
	fmt.Fprintf(&b, "commit %s\n", c.Hash)
	if len(c.ParentHashes) > 1 {
		parents := make([]string, len(c.ParentHashes))
		for i, p := range c.ParentHashes {
			parents[i] = p.String()[:7]
		}
		fmt.Fprintf(&b, "Merge: %s\n", strings.Join(parents, " "))
	}
	fmt.Fprintf(&b, "Author: %s <%s>\n", c.Author.Name, c.Author.Email)
	fmt.Fprintf(&b, "Date:   %s\n\n", c.Author.When.Format(dateLayout))
	for _, line := range strings.Split(strings.TrimRight(c.Message, "\n"), "\n") {
		b.WriteString("    ")
		b.WriteString(line)
		b.WriteString("\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// TaggedCommits maps commit hashes to the names of the local tags that point
// at them, one name per commit (see addTag). Annotated tags are peeled to
// their commit. Only tags whose short
// name matches pattern are included; a nil pattern matches every tag.
func TaggedCommits(repo *git.Repository, pattern *regexp.Regexp) (map[string]string, error) {
	iter, err := repo.Tags()
	if err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}
	defer iter.Close()

	tagged := make(map[string]string)
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		name := ref.Name().Short()
		if pattern != nil && !pattern.MatchString(name) {
			return nil
		}

		hash := ref.Hash()
		tag, err := repo.TagObject(hash)
		switch {
		case err == nil:
			commit, err := tag.Commit()
			if err != nil {
				logDebug("[git] tag %s does not point at a commit: %v", name, err)
				return nil
			}
			hash = commit.Hash
		case !errors.Is(err, plumbing.ErrObjectNotFound):
			return fmt.Errorf("reading tag %s: %w", name, err)
		}

		addTag(tagged, hash, name)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("iterating tags: %w", err)
	}

	logDebug("[git] TaggedCommits: %d tags", len(tagged))
	return tagged, nil
}

// addTag records name as the tag of hash. When several tags name the same
// commit the lexically greatest one is kept, whatever order they arrive in.
func addTag(tagged map[string]string, hash plumbing.Hash, name string) {
	key := hash.String()
	if prev, ok := tagged[key]; !ok || name > prev {
		tagged[key] = name
	}
}

// RemoteTaggedCommits is TaggedCommits for the tags advertised by a remote,
// as `git ls-remote --tags` would list them. Peeled entries take precedence
// so annotated tags resolve to their commit.
func RemoteTaggedCommits(ctx context.Context, repo *git.Repository, remoteName string, pattern *regexp.Regexp) (map[string]string, error) {
	remote, err := repo.Remote(remoteName)
	if err != nil {
		return nil, fmt.Errorf("getting remote %s: %w", remoteName, err)
	}

	var auth transport.AuthMethod
	if urls := remote.Config().URLs; len(urls) > 0 {
		if isSSHURL(urls[0]) && !isSSHAgentAvailable() {
			return nil, fmt.Errorf("remote %s uses SSH but no SSH agent is available", remoteName)
		}
		auth = getAuthForURL(urls[0])
	}

	logDebug("[git] listing tags of remote %s", remoteName)
	refs, err := remote.ListContext(ctx, &git.ListOptions{
		Auth:          auth,
		PeelingOption: git.AppendPeeled,
	})
	if err != nil {
		return nil, fmt.Errorf("listing remote %s: %w", remoteName, err)
	}

	byTag := make(map[string]plumbing.Hash)
	peeled := make(map[string]bool)
	for _, ref := range refs {
		full := ref.Name().String()
		if !strings.HasPrefix(full, "refs/tags/") {
			continue
		}
		name, isPeeled := strings.CutSuffix(strings.TrimPrefix(full, "refs/tags/"), "^{}")
		if pattern != nil && !pattern.MatchString(name) {
			continue
		}
		if isPeeled || !peeled[name] {
			byTag[name] = ref.Hash()
			peeled[name] = peeled[name] || isPeeled
		}
	}

	tagged := make(map[string]string, len(byTag))
	for name, hash := range byTag {
		addTag(tagged, hash, name)
	}

	logDebug("[git] RemoteTaggedCommits: %d tags", len(tagged))
	return tagged, nil
}

// RemoteURL returns the web URL of the named remote.
func RemoteURL(repo *git.Repository, remoteName string) (string, error) {
	remote, err := repo.Remote(remoteName)
	if err != nil {
		return "", fmt.Errorf("getting remote %s: %w", remoteName, err)
	}
	urls := remote.Config().URLs
	if len(urls) == 0 {
		return "", fmt.Errorf("remote %s has no URL", remoteName)
	}
	return WebURL(urls[0]), nil
}

// WebURL converts a clone URL into the repository's web address: the ".git"
// suffix is dropped and SSH forms are rewritten to https.
//
//   - "git@github.com:owner/repo.git" → "https://github.com/owner/repo"
//   - "ssh://git@github.com/owner/repo" → "https://github.com/owner/repo"
//   - "https://github.com/owner/repo.git" → "https://github.com/owner/repo"
func WebURL(url string) string {
	url = strings.TrimSuffix(strings.TrimSuffix(strings.TrimSpace(url), "/"), ".git")

	for _, scheme := range []string{"ssh://", "git+ssh://"} {
		if rest, ok := strings.CutPrefix(url, scheme); ok {
			if _, host, found := strings.Cut(rest, "@"); found {
				rest = host
			}
			return "https://" + rest
		}
	}

	if rest, ok := strings.CutPrefix(url, "git@"); ok {
		host, path, found := strings.Cut(rest, ":")
		if found {
			return "https://" + host + "/" + path
		}
		return "https://" + rest
	}

	if rest, ok := strings.CutPrefix(url, "http://"); ok {
		return "https://" + rest
	}
	return url
}

// getAuthForURL returns the appropriate authentication method for a remote URL.
// SSH URLs use SSH agent auth, HTTPS URLs use environment credentials.
func getAuthForURL(url string) transport.AuthMethod {
	if isSSHURL(url) {
		auth, err := ssh.NewSSHAgentAuth("git")
		if err != nil {
			logDebug("[git] SSH agent auth failed: %v", err)
			return nil
		}
		return auth
	}

	username := os.Getenv("GIT_USERNAME")
	password := os.Getenv("GIT_PASSWORD")
	if username == "" {
		username = os.Getenv("GITHUB_TOKEN")
		if username != "" {
			password = "" // GitHub token can be used as username with empty password
		}
	}

	if username != "" {
		return &http.BasicAuth{
			Username: username,
			Password: password,
		}
	}

	return nil
}

// isSSHURL detects git@ (SCP-style), ssh:// and git+ssh:// URLs.
func isSSHURL(url string) bool {
	return strings.HasPrefix(url, "git@") ||
		strings.HasPrefix(url, "ssh://") ||
		strings.HasPrefix(url, "git+ssh://")
}

func isSSHAgentAvailable() bool {
	return strings.TrimSpace(os.Getenv("SSH_AUTH_SOCK")) != ""
}
