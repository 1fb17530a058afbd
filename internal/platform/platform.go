// Package platform holds the OS-specific pieces of the source walk.
package platform

import "io/fs"

// Hidden reports whether info carries metadata flags that make the entry
// invisible to a backup walk. On Windows these are the system and temporary
// attributes; other platforms have no equivalent and never hide entries.
func Hidden(info fs.FileInfo) bool {
	if info == nil {
		return false
	}
	return hidden(info)
}
