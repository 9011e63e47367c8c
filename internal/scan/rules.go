package scan

import "strings"

// Category is what a matching rule says about a file.
type Category int

const (
	// CategoryManifest marks a dependency manifest; its content is captured.
	CategoryManifest Category = iota + 1
	// CategoryConfig marks a configuration file; only its name is captured.
	CategoryConfig
)

func (c Category) String() string {
	switch c {
	case CategoryManifest:
		return "manifest"
	case CategoryConfig:
		return "config"
	default:
		return "unknown"
	}
}

// MatchMode selects how a Rule compares its pattern to a base filename.
type MatchMode int

const (
	MatchExact MatchMode = iota
	MatchPrefix
)

// Rule classifies base filenames. Matching is case-insensitive.
type Rule struct {
	Pattern  string
	Mode     MatchMode
	Category Category
}

// Match reports whether name satisfies the rule.
func (r Rule) Match(name string) bool {
	switch r.Mode {
	case MatchExact:
		return strings.EqualFold(name, r.Pattern)
	case MatchPrefix:
		return len(name) >= len(r.Pattern) && strings.EqualFold(name[:len(r.Pattern)], r.Pattern)
	}
	return false
}

// DefaultRules is the classification table used by Scan.
var DefaultRules = []Rule{
	{Pattern: "package.json", Mode: MatchExact, Category: CategoryManifest},
	{Pattern: "requirements.txt", Mode: MatchExact, Category: CategoryManifest},
	{Pattern: "pom.xml", Mode: MatchExact, Category: CategoryManifest},
	{Pattern: "build.gradle", Mode: MatchExact, Category: CategoryManifest},

	{Pattern: "docker-compose", Mode: MatchPrefix, Category: CategoryConfig},
	{Pattern: "config", Mode: MatchPrefix, Category: CategoryConfig},
	{Pattern: ".env", Mode: MatchPrefix, Category: CategoryConfig},
	{Pattern: "Makefile", Mode: MatchPrefix, Category: CategoryConfig},
}

// classify evaluates rules once for name and returns each matched category at
// most once, in table order.
func classify(rules []Rule, name string) []Category {
	var out []Category
	for _, r := range rules {
		if !r.Match(name) {
			continue
		}
		seen := false
		for _, c := range out {
			if c == r.Category {
				seen = true
				break
			}
		}
		if !seen {
			out = append(out, r.Category)
		}
	}
	return out
}
