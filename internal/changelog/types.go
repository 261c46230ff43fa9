package changelog

// TypeOther is the type given to commits that do not follow the
// conventional commit format.
const TypeOther = "other"

// LogEntry is one commit read from the log.
type LogEntry struct {
	Hash    string
	Message string
}

// Log is the result of parsing commit log text.
// Entries are newest first, as git prints them.
type Log struct {
	Entries []LogEntry
	// Boundary is the commit that ended the scan: the previous release's
	// tagged commit or version bump. Empty when the whole log was read.
	Boundary string
}

// Commit is a classified commit message.
type Commit struct {
	Type        string
	Scope       string // empty when the commit has no scope
	Description string
	Body        string
	Breaking    bool
}

// ScopeGroup holds the commits of one type that share a scope, oldest first.
type ScopeGroup struct {
	Scope   string
	Commits []Commit
}

// TypeGroup holds all commits of one type, split by scope in the order the
// scopes first appear.
type TypeGroup struct {
	Type   string
	Scopes []ScopeGroup
}

// Count returns the number of commits in the group.
func (g TypeGroup) Count() int {
	n := 0
	for _, s := range g.Scopes {
		n += len(s.Commits)
	}
	return n
}
