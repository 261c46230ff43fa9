package changelog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupCommits_Ordering(t *testing.T) {
	// Newest first, as read from the log.
	commits := ClassifyAll([]string{
		"Update README",
		"deps: bump checkout",
		"fix(cmake): quote paths",
		"feat(cmake): presets",
		"docs: usage",
		"feat: matrix output",
		"chore: tidy",
	})

	groups := GroupCommits(commits)

	types := make([]string, len(groups))
	for i, g := range groups {
		types[i] = g.Type
	}
	assert.Equal(t, []string{"feat", "fix", "docs", "chore", "deps", TypeOther}, types)
}

func TestGroupCommits_OldestFirstWithinScopes(t *testing.T) {
	commits := ClassifyAll([]string{
		"feat(cmake): third",
		"feat: second",
		"feat(cmake): first",
	})

	groups := GroupCommits(commits)
	require.Len(t, groups, 1)

	feat := groups[0]
	assert.Equal(t, 3, feat.Count())
	require.Len(t, feat.Scopes, 2)

	assert.Equal(t, "cmake", feat.Scopes[0].Scope)
	require.Len(t, feat.Scopes[0].Commits, 2)
	assert.Equal(t, "first", feat.Scopes[0].Commits[0].Description)
	assert.Equal(t, "third", feat.Scopes[0].Commits[1].Description)

	assert.Equal(t, "", feat.Scopes[1].Scope)
	assert.Equal(t, "second", feat.Scopes[1].Commits[0].Description)
}

func TestGroupCommits_UnknownTypesInFirstSeenOrder(t *testing.T) {
	commits := ClassifyAll([]string{
		"zeta: newest",
		"alpha: middle",
		"zeta: oldest",
	})

	groups := GroupCommits(commits)
	require.Len(t, groups, 2)
	assert.Equal(t, "zeta", groups[0].Type)
	assert.Equal(t, "alpha", groups[1].Type)
}

func TestGroupCommits_Empty(t *testing.T) {
	assert.Empty(t, GroupCommits(nil))
}
