//go:build windows

package shellsetup

import (
	"errors"
	"os"

	"golang.org/x/sys/windows"
)

// DetectParentShellName returns the image path of the parent process.
func DetectParentShellName() string {
	ppid := os.Getppid()
	if ppid <= 0 {
		return ""
	}

	handle, err := windows.OpenProcess(windows.PROCESS_QUERY_LIMITED_INFORMATION, false, uint32(ppid))
	if err != nil {
		return ""
	}
	defer func() {
		_ = windows.CloseHandle(handle)
	}()

	buffer := make([]uint16, windows.MAX_PATH)
	for {
		size := uint32(len(buffer))
		err = windows.QueryFullProcessImageName(handle, 0, &buffer[0], &size)
		if err == nil {
			return windows.UTF16ToString(buffer[:size])
		}
		if !errors.Is(err, windows.ERROR_INSUFFICIENT_BUFFER) || len(buffer) >= 32*1024 {
			return ""
		}
		buffer = make([]uint16, len(buffer)*2)
	}
}
