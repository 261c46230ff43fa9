package changelog

// typePriority is the rendering order of the well-known commit types.
// Other types follow in the order they first appear, and TypeOther is last.
var typePriority = []string{
	"feat", "fix", "perf", "refactor", "docs", "style", "build", "test", "ci", "chore", "release",
}

// GroupCommits groups commits by type and scope. Commits are expected newest
// first (log order); within each group they are returned oldest first.
func GroupCommits(commits []Commit) []TypeGroup {
	byType := make(map[string]*TypeGroup)
	var seen []string

	for i := len(commits) - 1; i >= 0; i-- {
		c := commits[i]
		g, ok := byType[c.Type]
		if !ok {
			g = &TypeGroup{Type: c.Type}
			byType[c.Type] = g
			seen = append(seen, c.Type)
		}
		g.Scopes = appendToScope(g.Scopes, c)
	}

	groups := make([]TypeGroup, 0, len(byType))
	for _, t := range orderTypes(seen) {
		groups = append(groups, *byType[t])
	}
	return groups
}

func appendToScope(scopes []ScopeGroup, c Commit) []ScopeGroup {
	for i := range scopes {
		if scopes[i].Scope == c.Scope {
			scopes[i].Commits = append(scopes[i].Commits, c)
			return scopes
		}
	}
	return append(scopes, ScopeGroup{Scope: c.Scope, Commits: []Commit{c}})
}

// orderTypes sorts the seen types by priority.
func orderTypes(seen []string) []string {
	present := make(map[string]bool, len(seen))
	for _, t := range seen {
		present[t] = true
	}
	known := make(map[string]bool, len(typePriority))

	var ordered []string
	for _, t := range typePriority {
		known[t] = true
		if present[t] {
			ordered = append(ordered, t)
		}
	}
	for _, t := range seen {
		if !known[t] && t != TypeOther {
			ordered = append(ordered, t)
		}
	}
	if present[TypeOther] {
		ordered = append(ordered, TypeOther)
	}
	return ordered
}
