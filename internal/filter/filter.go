// Package filter decides which walked entries are excluded from a backup.
//
// Rules are restricted to what the external copy tool can express: name
// globs using * and ?, optionally directory-only, plus file size bounds. The
// same chain hides entries from the pre-flight walk and is rendered into the
// copy tool's exclusion arguments, so statistics and copies agree.
package filter

// Rule is a single exclusion pattern.
type Rule struct {
	Pattern *compiledPattern
}

// Chain holds exclusion rules plus size bounds.
type Chain struct {
	rules   []Rule
	minSize int64
	maxSize int64
}

// NewChain creates an empty chain.
func NewChain() *Chain {
	return &Chain{}
}

// AddExclude adds an exclusion for the given name glob. A trailing slash
// restricts the rule to directories.
func (c *Chain) AddExclude(pattern string) error {
	cp, err := compilePattern(pattern)
	if err != nil {
		return err
	}
	c.rules = append(c.rules, Rule{Pattern: cp})
	return nil
}

// SetMinSize excludes regular files smaller than n bytes.
func (c *Chain) SetMinSize(n int64) {
	c.minSize = n
}

// SetMaxSize excludes regular files larger than n bytes.
func (c *Chain) SetMaxSize(n int64) {
	c.maxSize = n
}

// MinSize returns the minimum file size, 0 when unset.
func (c *Chain) MinSize() int64 {
	if c == nil {
		return 0
	}
	return c.minSize
}

// MaxSize returns the maximum file size, 0 when unset.
func (c *Chain) MaxSize() int64 {
	if c == nil {
		return 0
	}
	return c.maxSize
}

// Empty reports whether the chain has no rules and no size bounds.
func (c *Chain) Empty() bool {
	return c == nil || (len(c.rules) == 0 && c.minSize == 0 && c.maxSize == 0)
}

// Match returns true if the entry should be INCLUDED. name is the entry's
// base name; size is ignored for directories.
func (c *Chain) Match(name string, isDir bool, size int64) bool {
	if c == nil {
		return true
	}
	if !isDir {
		if c.minSize > 0 && size < c.minSize {
			return false
		}
		if c.maxSize > 0 && size > c.maxSize {
			return false
		}
	}
	for _, rule := range c.rules {
		if rule.Pattern.match(name, isDir) {
			return false
		}
	}
	return true
}

// FilePatterns returns the globs that apply to files, in rule order.
func (c *Chain) FilePatterns() []string {
	if c == nil {
		return nil
	}
	var out []string
	for _, rule := range c.rules {
		if !rule.Pattern.dirOnly {
			out = append(out, rule.Pattern.glob)
		}
	}
	return out
}

// DirPatterns returns the globs that apply to directories, in rule order.
func (c *Chain) DirPatterns() []string {
	if c == nil {
		return nil
	}
	out := make([]string, 0, len(c.rules))
	for _, rule := range c.rules {
		out = append(out, rule.Pattern.glob)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
