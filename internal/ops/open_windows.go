//go:build windows

package ops

import "os/exec"

// openInFileManager opens the given path in Explorer
func openInFileManager(path string) error {
	cmd := exec.Command("explorer", path)
	return cmd.Start()
}
