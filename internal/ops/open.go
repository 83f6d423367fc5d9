// Package ops implements the small filesystem actions the host exposes:
// opening a path in the OS default handler and deleting a path.
package ops

import "fmt"

// Open reveals the given path in the platform file manager / default handler.
func Open(path string) error {
	if err := openInFileManager(path); err != nil {
		return fmt.Errorf("failed to open path: %w", err)
	}
	return nil
}
