//go:build !(linux || darwin)

package macpack

// Non-unix platforms only run macpack for development, skip the syscall-based
// checks there.

func osFileWriteAccess(path string) bool { return true }

func osDiskSpace(path string) int64 { return -1 }
