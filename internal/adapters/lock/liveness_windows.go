//go:build windows

package lock

import (
	"errors"

	"golang.org/x/sys/windows"
)

const stillActive = 259

func processLiveness(pid int) liveness {
	h, err := windows.OpenProcess(windows.PROCESS_QUERY_LIMITED_INFORMATION, false, uint32(pid))
	if err != nil {
		if errors.Is(err, windows.ERROR_INVALID_PARAMETER) {
			return ownerDead
		}
		if errors.Is(err, windows.ERROR_ACCESS_DENIED) {
			return ownerAlive
		}
		return ownerUnknown
	}
	defer windows.CloseHandle(h)

	var code uint32
	if err := windows.GetExitCodeProcess(h, &code); err != nil {
		return ownerUnknown
	}
	if code == stillActive {
		return ownerAlive
	}
	return ownerDead
}
