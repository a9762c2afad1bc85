//go:build windows

package service

import (
	"os"

	"golang.org/x/sys/windows"
)

// FreeDiskSpace returns the bytes available to the caller on the volume
// holding path, or 0 when path is not a readable directory.
func FreeDiskSpace(path string) int64 {
	stat, err := os.Stat(path)
	if err != nil || !stat.IsDir() {
		return 0
	}

	ptr, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return 0
	}

	var freeBytes, totalBytes, totalFreeBytes uint64
	if err := windows.GetDiskFreeSpaceEx(ptr, &freeBytes, &totalBytes, &totalFreeBytes); err != nil {
		return 0
	}

	return int64(freeBytes)
}
