//go:build !windows

package scanner

// isSystemPath always admits on non-Windows platforms; the skip list is empty.
func isSystemPath(string) bool {
	return false
}
