package config

// DefaultActions lists the actions whose pages are generated, in page order.
var DefaultActions = []string{
	"cpp-matrix", "setup-cpp", "package-install", "cmake-workflow", "boost-clone", "b2-workflow",
	"create-changelog", "flamegraph", "setup-cmake", "setup-gcc", "setup-clang", "setup-program",
}

// GetDefaultConfigTemplate returns a fully commented config template
// that helps users understand all available options
func GetDefaultConfigTemplate() string {
	return `# cpp-actions tools configuration
# See 'cpp-actions config -h' for commands. Environment variables override
# these values: CPP_ACTIONS_<SECTION>__<KEY>, e.g. CPP_ACTIONS_CHANGELOG__LIMIT=5

debug: false                          # Print debug output to stderr

# Changelog generation
changelog:
  dir: .                              # Repository to read history from
  version_pattern: '(Bump|Set)\s+version'  # Subject of version bump commits, any case (ends the changelog)
  tag_pattern: 'v.*\..*\..*'          # Tags that mark a release, any case
  output: CHANGELOG.md                # Output file (relative to the repository root)
  limit: 0                            # Keep only the newest N messages (0 = all)
  remote_tags: true                   # Also consider tags advertised by the remote
  remote: origin                      # Remote used for tags and release links

# Action reference pages
docs:
  root: .                             # Repository root containing <action>/action.yml
  workflow: .github/workflows/ci.yml  # Workflow providing usage examples
  pages_dir: docs/generated-files/modules/ROOT/pages/actions
  matrix_job: build                   # Job whose strategy.matrix.include is the build matrix
  jobs:                               # Jobs whose steps provide examples
    - build
    - docs
    - cpp-matrix
  actions:                            # Actions to document, in page order
    - cpp-matrix
    - setup-cpp
    - package-install
    - cmake-workflow
    - boost-clone
    - b2-workflow
    - create-changelog
    - flamegraph
    - setup-cmake
    - setup-gcc
    - setup-clang
    - setup-program
  uses_prefix: alandefreitas/cpp-actions  # Repository referenced by example 'uses'
  resolve_examples: false             # Instantiate examples for each matrix entry
  max_parallel: 4                     # Manifests read concurrently
`
}

// GetDefaults returns the default configuration values
func GetDefaults() map[string]interface{} {
	return map[string]interface{}{
		"debug": false,
		// changelog: history is read from HEAD back to the previous release,
		// which is the newest tagged commit or version bump commit.
		"changelog": map[string]interface{}{
			"dir":             ".",
			"version_pattern": `(Bump|Set)\s+version`,
			"tag_pattern":     `v.*\..*\..*`,
			"output":          "CHANGELOG.md",
			"limit":           0,
			"remote_tags":     true,
			"remote":          "origin",
		},
		"docs": map[string]interface{}{
			"root":             ".",
			"workflow":         ".github/workflows/ci.yml",
			"pages_dir":        "docs/generated-files/modules/ROOT/pages/actions",
			"matrix_job":       "build",
			"jobs":             []string{"build", "docs", "cpp-matrix"},
			"actions":          append([]string(nil), DefaultActions...),
			"uses_prefix":      "alandefreitas/cpp-actions",
			"resolve_examples": false,
			"max_parallel":     4,
		},
	}
}
