package changelog

import "strings"

// typeIcons follows https://github.com/favoloso/conventional-changelog-emoji
var typeIcons = map[string]string{
	"docs":        "📖",
	"fix":         "🐛",
	"style":       "🎨",
	"chore":       "🏗️",
	"build":       "📦️",
	"feat":        "🚀",
	"refactor":    "♻️",
	"perf":        "⚡️",
	"test":        "🧪",
	"release":     "🔖",
	"ci":          "🚦",
	"improvement": "🛠️",
	"breaking":    "🚨",
	"revert":      "🔙",
	TypeOther:     "💬",
}

var typeTitles = map[string]string{
	"docs":        "Documentation",
	"fix":         "Fixes",
	"style":       "Style",
	"chore":       "Chores",
	"build":       "Build",
	"feat":        "Features",
	"refactor":    "Refactor",
	"perf":        "Performance",
	"test":        "Tests",
	"release":     "Release",
	"ci":          "Continuous Integration",
	"improvement": "Improvement",
	"breaking":    "Breaking",
	"revert":      "Revert",
	TypeOther:     "Other",
}

// featureIcons decorate feature entries in rotation.
var featureIcons = []string{"✨", "💫", "🌟"}

// Icon returns the emoji for a commit type.
func Icon(commitType string) string {
	if icon, ok := typeIcons[commitType]; ok {
		return icon
	}
	return typeIcons[TypeOther]
}

// Title returns the section heading for a commit type.
func Title(commitType string) string {
	if title, ok := typeTitles[commitType]; ok {
		return title
	}
	return capitalizeFirst(commitType)
}

// capitalizeFirst capitalizes the first letter of a string.
func capitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
