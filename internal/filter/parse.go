package filter

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// LoadFile reads exclusion rules from a file and adds them to the chain.
// Format:
//
//	pattern    → exclude
//	- pattern  → exclude
//	# comment  → skip
//	blank line → skip
func (c *Chain) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open filter file: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "+ ") {
			return fmt.Errorf("filter file %s line %d: include rules are not supported", path, lineNum)
		}
		pattern := strings.TrimSpace(strings.TrimPrefix(line, "- "))

		if err := c.AddExclude(pattern); err != nil {
			return fmt.Errorf("filter file %s line %d: %w", path, lineNum, err)
		}
	}

	return scanner.Err()
}
