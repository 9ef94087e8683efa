// Package ignore implements the hierarchical ignore engine: three priority
// tiers (hardcoded defaults, global file, project file), a four-kind
// pattern taxonomy, and last-match-wins matching semantics (spec.md §4.1).
//
// Unlike a general gitignore engine, matching here is a single flat scan
// over the merged rule list for the whole snapshot, not a per-directory
// hierarchical lookup: a later rule from any tier overrides an earlier
// match from any tier, and the evaluation order is exactly load order.
package ignore

import "strings"

// Kind classifies how a rule's pattern is compared against a candidate
// path, per the classification order in spec.md §4.1.
type Kind int

const (
	// Basename matches when the candidate's basename equals the pattern.
	Basename Kind = iota
	// Path matches when the candidate's full relative path equals the
	// pattern.
	Path
	// Prefix matches when the candidate's full relative path starts with
	// the pattern (the pattern retains its trailing separator).
	Prefix
	// Suffix matches when the candidate's basename ends with the pattern.
	Suffix
)

// Rule is one parsed ignore pattern.
type Rule struct {
	// Pattern is the pattern string with any leading '!' and trailing '/'
	// already stripped, and (for Prefix/Suffix) its '*' marker stripped.
	Pattern string
	Kind    Kind
	// DirectoryOnly is true when the original pattern ended in '/': the
	// rule only applies to directory candidates.
	DirectoryOnly bool
	// Negation is true when the original pattern began with '!': a match
	// sets ignored to false instead of true.
	Negation bool
}

// Classify parses a single trimmed, non-comment, non-blank pattern line
// into a Rule, applying spec.md §4.1's classification order:
//
//  1. Leading '!' -> Negation, stripped.
//  2. Trailing '/' -> DirectoryOnly, stripped.
//  3. Contains '/': trailing '*' -> Prefix (separator before it kept);
//     else -> Path.
//  4. Leading '*' (no '/') -> Suffix.
//  5. Otherwise -> Basename.
func Classify(line string) Rule {
	r := Rule{}

	s := line
	if strings.HasPrefix(s, "!") {
		r.Negation = true
		s = s[1:]
	}
	if strings.HasSuffix(s, "/") {
		r.DirectoryOnly = true
		s = s[:len(s)-1]
	}

	if strings.Contains(s, "/") {
		if strings.HasSuffix(s, "*") {
			r.Kind = Prefix
			s = s[:len(s)-1]
		} else {
			r.Kind = Path
		}
	} else if strings.HasPrefix(s, "*") {
		r.Kind = Suffix
		s = s[1:]
	} else {
		r.Kind = Basename
	}

	r.Pattern = s
	return r
}

// Matches reports whether rule matches the candidate described by relPath
// (the item's path relative to the snapshot root, no leading separator),
// name (its basename), and isDir. A directory-only rule never matches a
// non-directory candidate.
func (r Rule) Matches(relPath, name string, isDir bool) bool {
	if r.DirectoryOnly && !isDir {
		return false
	}

	switch r.Kind {
	case Basename:
		return name == r.Pattern
	case Path:
		return relPath == r.Pattern
	case Prefix:
		return strings.HasPrefix(relPath, r.Pattern)
	case Suffix:
		return strings.HasSuffix(name, r.Pattern)
	default:
		return false
	}
}
