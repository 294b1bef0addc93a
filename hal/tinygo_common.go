//go:build tinygo && baremetal

package hal

import (
	"fmt"
	"io"
	"machine"
	"time"

	"tinygo.org/x/drivers/hcsr04"
)

type tinyGoDisplay struct {
	fb Framebuffer
}

func (d tinyGoDisplay) Framebuffer() Framebuffer { return d.fb }

type serialLogger struct {
	w io.Writer
}

func (l *serialLogger) WriteLineString(s string) {
	l.w.Write([]byte(s))
	l.w.Write([]byte{'\r', '\n'})
}

func (l *serialLogger) WriteLineBytes(b []byte) {
	l.w.Write(b)
	l.w.Write([]byte{'\r', '\n'})
}

type machinePin struct {
	name string
	pin  machine.Pin
	mode GPIOMode
	set  bool
}

func newMachinePin(name string, pin machine.Pin) *machinePin {
	return &machinePin{name: name, pin: pin}
}

func (p *machinePin) Name() string { return p.name }
func (p *machinePin) Caps() GPIOCaps {
	return GPIOCapInput | GPIOCapOutput | GPIOCapPullUp | GPIOCapPullDown
}

func (p *machinePin) Configure(mode GPIOMode, pull GPIOPull) error {
	if err := checkConfig(p.name, p.Caps(), mode, pull); err != nil {
		return err
	}
	cfg := machine.PinConfig{Mode: machine.PinInput}
	switch {
	case mode == GPIOModeOutput:
		cfg.Mode = machine.PinOutput
	case pull == GPIOPullUp:
		cfg.Mode = machine.PinInputPullup
	case pull == GPIOPullDown:
		cfg.Mode = machine.PinInputPulldown
	}
	p.pin.Configure(cfg)
	p.mode = mode
	p.set = true
	return nil
}

func (p *machinePin) Read() (bool, error) {
	if !p.set {
		return false, fmt.Errorf("gpio: pin %s: not configured", p.name)
	}
	return p.pin.Get(), nil
}

func (p *machinePin) Write(level bool) error {
	if p.mode != GPIOModeOutput {
		return fmt.Errorf("gpio: pin %s: not in output mode", p.name)
	}
	p.pin.Set(level)
	return nil
}

// hcsrRanger adapts the HC-SR04 driver. The driver busy-waits with its own
// fixed timeout (about 23 ms, i.e. 4 m) and reports silence as a zero pulse.
type hcsrRanger struct {
	dev *hcsr04.Device
}

func (r *hcsrRanger) Ping(timeout time.Duration) (time.Duration, error) {
	us := r.dev.ReadPulse()
	if us <= 0 {
		return 0, ErrEchoTimeout
	}
	pulse := time.Duration(us) * time.Microsecond
	if timeout > 0 && pulse > timeout {
		return 0, ErrEchoTimeout
	}
	return pulse, nil
}
