package hal

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// GPIOMode selects whether a pin is an input or output.
type GPIOMode uint8

const (
	GPIOModeInput GPIOMode = iota
	GPIOModeOutput
)

// GPIOPull selects the pull resistor configuration.
type GPIOPull uint8

const (
	GPIOPullNone GPIOPull = iota
	GPIOPullUp
	GPIOPullDown
)

// GPIOCaps declares what operations a pin supports.
type GPIOCaps uint8

const (
	GPIOCapInput GPIOCaps = 1 << iota
	GPIOCapOutput
	GPIOCapPullUp
	GPIOCapPullDown
)

// GPIO provides access to general-purpose IO pins.
//
// Implementations may return nil if GPIO is unsupported.
type GPIO interface {
	PinCount() int
	Pin(id int) GPIOPin
}

// GPIOPin is a single digital IO pin.
type GPIOPin interface {
	Name() string
	Caps() GPIOCaps
	Configure(mode GPIOMode, pull GPIOPull) error
	Read() (level bool, err error)
	Write(level bool) error
}

type nullGPIO struct{}

func (nullGPIO) PinCount() int      { return 0 }
func (nullGPIO) Pin(id int) GPIOPin { return nil }

type virtualGPIO struct {
	pins []GPIOPin
}

func newVirtualGPIO(pins []GPIOPin) GPIO {
	if len(pins) == 0 {
		return nullGPIO{}
	}
	return &virtualGPIO{pins: pins}
}

func (g *virtualGPIO) PinCount() int {
	if g == nil {
		return 0
	}
	return len(g.pins)
}

func (g *virtualGPIO) Pin(id int) GPIOPin {
	if g == nil || id < 0 || id >= len(g.pins) {
		return nil
	}
	return g.pins[id]
}

func checkConfig(name string, caps GPIOCaps, mode GPIOMode, pull GPIOPull) error {
	switch mode {
	case GPIOModeInput:
		if caps&GPIOCapInput == 0 {
			return fmt.Errorf("gpio: pin %s: input unsupported", name)
		}
	case GPIOModeOutput:
		if caps&GPIOCapOutput == 0 {
			return fmt.Errorf("gpio: pin %s: output unsupported", name)
		}
	default:
		return fmt.Errorf("gpio: pin %s: invalid mode", name)
	}

	switch pull {
	case GPIOPullNone:
	case GPIOPullUp:
		if caps&GPIOCapPullUp == 0 {
			return fmt.Errorf("gpio: pin %s: pull-up unsupported", name)
		}
	case GPIOPullDown:
		if caps&GPIOCapPullDown == 0 {
			return fmt.Errorf("gpio: pin %s: pull-down unsupported", name)
		}
	default:
		return fmt.Errorf("gpio: pin %s: invalid pull", name)
	}
	return nil
}

// buttonPin simulates a momentary push-button wired to ground with a pull-up,
// so the line reads low while pressed.
//
// A tap holds the line low for a fixed time measured on the injected clock,
// which lets a single key stroke on the host outlive one poll interval.
type buttonPin struct {
	mu   sync.Mutex
	name string

	configured bool
	pull       GPIOPull

	now      func() time.Time
	hold     time.Duration
	held     bool
	tapUntil time.Time
}

func newButtonPin(name string, hold time.Duration) *buttonPin {
	return newButtonPinWithClock(name, hold, time.Now)
}

func newButtonPinWithClock(name string, hold time.Duration, now func() time.Time) *buttonPin {
	if strings.TrimSpace(name) == "" {
		return nil
	}
	if now == nil {
		now = time.Now
	}
	if hold < 0 {
		hold = 0
	}
	return &buttonPin{name: name, now: now, hold: hold}
}

func (p *buttonPin) Name() string   { return p.name }
func (p *buttonPin) Caps() GPIOCaps { return GPIOCapInput | GPIOCapPullUp }

func (p *buttonPin) Configure(mode GPIOMode, pull GPIOPull) error {
	if err := checkConfig(p.name, p.Caps(), mode, pull); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.configured = true
	p.pull = pull
	return nil
}

func (p *buttonPin) Read() (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.configured {
		return false, fmt.Errorf("gpio: pin %s: not configured", p.name)
	}
	pressed := p.held || p.now().Before(p.tapUntil)
	if !pressed {
		// Floating without a pull-up reads low.
		return p.pull == GPIOPullUp, nil
	}
	return false, nil
}

func (p *buttonPin) Write(level bool) error {
	_ = level
	return fmt.Errorf("gpio: pin %s: output unsupported", p.name)
}

// Tap presses and releases the button, keeping the line low for the hold time.
func (p *buttonPin) Tap() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.tapUntil = p.now().Add(p.hold)
}

// SetHeld presses (true) or releases (false) the button.
func (p *buttonPin) SetHeld(held bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.held = held
}
