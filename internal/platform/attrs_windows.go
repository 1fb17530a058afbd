//go:build windows

package platform

import (
	"io/fs"
	"syscall"

	"golang.org/x/sys/windows"
)

const hiddenAttrs = windows.FILE_ATTRIBUTE_SYSTEM | windows.FILE_ATTRIBUTE_TEMPORARY

// FiltersEntries reports whether Hidden can ever return true here.
const FiltersEntries = true

func hidden(info fs.FileInfo) bool {
	data, ok := info.Sys().(*syscall.Win32FileAttributeData)
	if !ok || data == nil {
		return false
	}
	return data.FileAttributes&hiddenAttrs != 0
}
