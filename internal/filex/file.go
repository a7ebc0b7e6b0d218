// Package filex holds small filesystem helpers shared by the snapshot and
// provisioning writers.
package filex

import (
	"fmt"
	"os"
)

// EnsureDir creates dir (and any missing parents) if it does not exist.
// Writers call this lazily on first use so the kiosk's image directories
// appear only once something is stored in them.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o770); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return nil
}
