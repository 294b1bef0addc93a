//go:build !tinygo

package hal

import (
	"fmt"
	"os"
	"sync"
	"time"
)

const (
	// Panel geometry of the Pico-OLED-1.3 HAT.
	panelWidth  = 128
	panelHeight = 64

	// How long a simulated key stroke keeps a button line low.
	hostTapHold = 150 * time.Millisecond
)

// HostOptions tunes the simulated hardware.
type HostOptions struct {
	// InitialDistanceCM is the simulated target distance at start-up.
	InitialDistanceCM float64
}

type hostHAL struct {
	logger *hostLogger
	gpio   GPIO
	key0   *buttonPin
	key1   *buttonPin
	fb     *hostFramebuffer
	ranger *simRanger
}

// New returns a host HAL implementation with default options.
func New() HAL {
	return newHost(HostOptions{InitialDistanceCM: 150})
}

func newHost(opts HostOptions) *hostHAL {
	logger := &hostLogger{w: os.Stdout}
	key0 := newButtonPin(PinKey0, hostTapHold)
	key1 := newButtonPin(PinKey1, hostTapHold)
	return &hostHAL{
		logger: logger,
		gpio:   newVirtualGPIO([]GPIOPin{key0, key1}),
		key0:   key0,
		key1:   key1,
		fb:     newHostFramebuffer(panelWidth, panelHeight),
		ranger: newSimRanger(opts.InitialDistanceCM),
	}
}

func (h *hostHAL) Logger() Logger   { return h.logger }
func (h *hostHAL) GPIO() GPIO       { return h.gpio }
func (h *hostHAL) Display() Display { return hostDisplay{fb: h.fb} }
func (h *hostHAL) Ranger() Ranger   { return h.ranger }

type hostDisplay struct {
	fb *hostFramebuffer
}

func (d hostDisplay) Framebuffer() Framebuffer { return d.fb }

type hostLogger struct {
	mu sync.Mutex
	w  *os.File
}

func (l *hostLogger) WriteLineString(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.w, s)
}

func (l *hostLogger) WriteLineBytes(b []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.w.Write(b)
	l.w.Write([]byte{'\n'})
}
