package changelog

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// maxLineSize bounds a single log line; long generated commit bodies exceed
// bufio.Scanner's 64 KiB default.
const maxLineSize = 1 << 20

// ParseError reports a failure to read the commit log.
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("reading commit log at line %d: %v", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// CompilePattern compiles a version or tag pattern. Matching ignores case,
// so "bump version" and "V1.2.3" mark a release like "Bump version" and
// "v1.2.3".
func CompilePattern(pattern string) (*regexp.Regexp, error) {
	return regexp.Compile("(?i)" + pattern)
}

// ParseOptions controls where ParseLog stops.
type ParseOptions struct {
	// VersionPattern matches the subject of a version bump commit.
	VersionPattern *regexp.Regexp
	// Tagged maps full commit hashes to release tag names.
	Tagged map[string]string
}

type parseState int

const (
	stateInit parseState = iota
	stateAuthor
	stateDate
	stateBlank
	stateMessage
)

// ParseLog reads `git log` medium-format output and collects commit messages
// until it reaches the previous release. The scan stops, once at least one
// message has been collected, at a commit listed in opts.Tagged or at a commit
// whose subject matches opts.VersionPattern. That commit is recorded as the
// boundary and is not part of the result.
func ParseLog(r io.Reader, opts ParseOptions) (*Log, error) {
	log := &Log{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	state := stateInit
	hash := ""
	var msg strings.Builder
	flush := func() {
		if hash != "" && msg.Len() > 0 {
			log.Entries = append(log.Entries, LogEntry{Hash: hash, Message: msg.String()})
		}
		msg.Reset()
	}

	lineNo := 0
scan:
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		switch {
		case state == stateInit && isCommitLine(line):
			flush()
			hash = strings.TrimPrefix(line, "commit ")
			if tag, tagged := opts.Tagged[hash]; tagged && len(log.Entries) > 0 {
				logDebug("[changelog] stopping at %s, tagged %s", hash, tag)
				log.Boundary = hash
				break scan
			}
			state = stateAuthor
		case state == stateInit && strings.HasPrefix(line, "commit "):
			flush()
			hash = ""
		case state == stateAuthor && strings.HasPrefix(line, "Author:"):
			state = stateDate
		case state == stateDate && strings.HasPrefix(line, "Date:"):
			state = stateBlank
		case state == stateBlank && line == "":
			state = stateMessage
		case state == stateMessage && strings.HasPrefix(line, "    "):
			msg.WriteString(line[4:])
			if len(log.Entries) > 0 && opts.VersionPattern != nil && opts.VersionPattern.MatchString(msg.String()) {
				logDebug("[changelog] stopping at version bump %s", hash)
				log.Boundary = hash
				msg.Reset()
				break scan
			}
			state = stateInit
		case state == stateInit && hash != "" && strings.HasPrefix(line, "    "):
			msg.WriteString("\n")
			msg.WriteString(line[4:])
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, &ParseError{Line: lineNo + 1, Err: err}
	}
	flush()

	return log, nil
}

// isCommitLine matches "commit <id>" with nothing after the id, so decorated
// lines such as "commit abc (tag: v1.0.0)" are not mistaken for a header.
func isCommitLine(line string) bool {
	id, ok := strings.CutPrefix(line, "commit ")
	return ok && id != "" && !strings.Contains(id, " ")
}

// Messages returns the commit messages of the log, newest first.
func (l *Log) Messages() []string {
	out := make([]string, len(l.Entries))
	for i, e := range l.Entries {
		out[i] = e.Message
	}
	return out
}
