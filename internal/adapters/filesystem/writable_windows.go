//go:build windows

package filesystem

import "os"

// windows ACLs are not reflected in mode bits, so probe with a real file
func writable(path string) bool {
	f, err := os.CreateTemp(path, ".projectkeeper-probe-*")
	if err != nil {
		return false
	}
	name := f.Name()
	f.Close()
	os.Remove(name)
	return true
}
