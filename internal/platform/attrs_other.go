//go:build !windows

package platform

import "io/fs"

// FiltersEntries reports whether Hidden can ever return true here.
const FiltersEntries = false

func hidden(_ fs.FileInfo) bool { return false }
