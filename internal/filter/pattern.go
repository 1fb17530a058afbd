package filter

import (
	"fmt"
	"regexp"
	"strings"
)

// compiledPattern is a name glob compiled to a case-insensitive matcher.
type compiledPattern struct {
	re      *regexp.Regexp
	glob    string // pattern without the directory marker
	dirOnly bool   // pattern ends with /
}

// compilePattern validates and compiles a name glob. Path separators,
// character classes and ** are rejected: the copy tool matches bare names.
func compilePattern(pattern string) (*compiledPattern, error) {
	cp := &compiledPattern{}

	if strings.HasSuffix(pattern, "/") || strings.HasSuffix(pattern, `\`) {
		cp.dirOnly = true
		pattern = pattern[:len(pattern)-1]
	}

	switch {
	case pattern == "":
		return nil, fmt.Errorf("empty exclude pattern")
	case strings.ContainsAny(pattern, `/\`):
		return nil, fmt.Errorf("exclude pattern %q: only names can be excluded, not paths", pattern)
	case strings.ContainsAny(pattern, "[]"):
		return nil, fmt.Errorf("exclude pattern %q: character classes are not supported", pattern)
	case strings.Contains(pattern, "**"):
		return nil, fmt.Errorf("exclude pattern %q: ** is not supported", pattern)
	}
	cp.glob = pattern

	re, err := regexp.Compile("(?i)^" + globToRegex(pattern) + "$")
	if err != nil {
		return nil, fmt.Errorf("exclude pattern %q: %w", pattern, err)
	}
	cp.re = re
	return cp, nil
}

func (cp *compiledPattern) match(name string, isDir bool) bool {
	if cp.dirOnly && !isDir {
		return false
	}
	return cp.re.MatchString(name)
}

// globToRegex converts * and ? wildcards; everything else is literal.
func globToRegex(pattern string) string {
	var b strings.Builder
	for _, r := range pattern {
		switch r {
		case '*':
			b.WriteString(".*")
		case '?':
			b.WriteString(".")
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	return b.String()
}
