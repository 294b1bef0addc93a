// Package buttons turns sampled button levels into debounced press events.
package buttons

import (
	"fmt"
	"time"

	"deskmon/hal"
)

// DefaultDebounce is the minimum time between two accepted presses.
const DefaultDebounce = 300 * time.Millisecond

// Button is an active-low momentary switch sampled once per poll.
//
// A press fires when the line reads low and at least the debounce interval
// has passed since the last accepted press. Holding the button down fires
// again every debounce interval; a press shorter than one poll may be missed.
type Button struct {
	pin      hal.GPIOPin
	debounce time.Duration

	last     time.Time
	accepted bool
}

// NewButton configures pin as a pulled-up input.
func NewButton(pin hal.GPIOPin, debounce time.Duration) (*Button, error) {
	if pin == nil {
		return nil, fmt.Errorf("buttons: nil pin")
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if err := pin.Configure(hal.GPIOModeInput, hal.GPIOPullUp); err != nil {
		return nil, fmt.Errorf("buttons: configure %s: %w", pin.Name(), err)
	}
	return &Button{pin: pin, debounce: debounce}, nil
}

func (b *Button) Name() string { return b.pin.Name() }

// Pressed samples the line and reports whether a press is accepted at now.
// A failed read counts as released.
func (b *Button) Pressed(now time.Time) bool {
	level, err := b.pin.Read()
	if err != nil || level {
		return false
	}
	return b.accept(now)
}

func (b *Button) accept(now time.Time) bool {
	if b.accepted && now.Sub(b.last) < b.debounce {
		return false
	}
	b.last = now
	b.accepted = true
	return true
}

// Events are the requests raised by one poll.
type Events struct {
	ToggleView bool
	Reset      bool
}

// Handler polls the two monitor buttons.
type Handler struct {
	reset  *Button
	toggle *Button
}

// NewHandler returns a handler with KEY0 as reset and KEY1 as view toggle.
func NewHandler(reset, toggle *Button) *Handler {
	return &Handler{reset: reset, toggle: toggle}
}

// Poll samples both buttons once.
func (h *Handler) Poll(now time.Time) Events {
	var ev Events
	if h.toggle != nil {
		ev.ToggleView = h.toggle.Pressed(now)
	}
	if h.reset != nil {
		ev.Reset = h.reset.Pressed(now)
	}
	return ev
}
