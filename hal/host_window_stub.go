//go:build !tinygo && !cgo

package hal

import "errors"

// WindowConfig controls the desktop simulator.
type WindowConfig struct {
	Hz         int
	DistanceCM float64
}

func RunWindow(_ func(h HAL) (func() error, error), _ WindowConfig) error {
	return errors.New("window mode requires cgo (build/run with CGO_ENABLED=1, or use -headless)")
}
