//go:build !linux

package focuslog

import (
	"fmt"
	"os"
)

// OpenSerial opens path for reading. Line settings are left as the OS
// configured them; baud is ignored.
func OpenSerial(path string, baud int) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("serial: %w", err)
	}
	return f, nil
}
