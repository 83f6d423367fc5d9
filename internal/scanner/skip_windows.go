//go:build windows

package scanner

import "strings"

// System directories that reliably deny access to unelevated scans.
// Compared against lower-cased paths.
var systemSkipPrefixes = []string{
	`c:\$recycle.bin`,
	`c:\config.msi`,
	`c:\system volume information`,
	`c:\windows`,
	`c:\programdata\packages`,
	`c:\programdata\tailscale`,
	`c:\programdata\windowsholographicdevices`,
	`c:\document and settings`,
}

// isSystemPath reports whether path is on the compile-time skip list.
func isSystemPath(path string) bool {
	lower := strings.ToLower(path)
	for _, prefix := range systemSkipPrefixes {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return false
}
