package hal

import (
	"errors"
	"time"
)

// Logger writes newline-delimited log lines.
//
// On the device this is the USB serial console, which the host-side logger
// captures line by line.
type Logger interface {
	WriteLineString(s string)
	WriteLineBytes(b []byte)
}

var (
	ErrNotImplemented = errors.New("not implemented")

	// ErrEchoTimeout reports that no echo pulse was seen within the timeout.
	ErrEchoTimeout = errors.New("echo timeout")
)

// PixelFormat defines the framebuffer pixel encoding.
type PixelFormat uint8

const (
	// PixelFormatRGB565 is 16bpp: rrrrrggggggbbbbb.
	PixelFormatRGB565 PixelFormat = iota + 1
)

// Framebuffer is a simple pixel buffer plus a "present" hook.
type Framebuffer interface {
	Width() int
	Height() int
	Format() PixelFormat
	StrideBytes() int
	Buffer() []byte
	ClearRGB(r, g, b uint8)
	Present() error
}

// Display provides access to the framebuffer (if available).
type Display interface {
	Framebuffer() Framebuffer
}

// Ranger is an ultrasonic range finder.
//
// Ping fires one trigger pulse and returns the width of the echo pulse.
// It returns ErrEchoTimeout (possibly wrapped) when no echo arrives in time.
type Ranger interface {
	Ping(timeout time.Duration) (time.Duration, error)
}

// Well-known pin names.
const (
	PinKey0 = "KEY0"
	PinKey1 = "KEY1"
)

// HAL provides the only contact point between the monitor and the outside world.
type HAL interface {
	Logger() Logger
	Display() Display
	GPIO() GPIO
	Ranger() Ranger
}

// FindPin returns the first pin named name, or nil.
func FindPin(g GPIO, name string) GPIOPin {
	if g == nil {
		return nil
	}
	for i := 0; i < g.PinCount(); i++ {
		p := g.Pin(i)
		if p != nil && p.Name() == name {
			return p
		}
	}
	return nil
}
