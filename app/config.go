package app

import (
	"errors"
	"fmt"
	"time"

	"deskmon/monitor/buttons"
	"deskmon/monitor/ranging"
	"deskmon/monitor/session"
)

var (
	ErrMissingPin = errors.New("app: missing pin")
	ErrNoDisplay  = errors.New("app: no display")
	ErrConfig     = errors.New("app: invalid config")
)

// Config holds the monitor's tunables.
type Config struct {
	SitThresholdCM float64
	Target         time.Duration
	Window         int
	Debounce       time.Duration
	TickInterval   time.Duration
	EchoTimeout    time.Duration
	Accrual        session.Accrual
}

func DefaultConfig() Config {
	return Config{
		SitThresholdCM: session.DefaultSitThresholdCM,
		Target:         session.DefaultTarget,
		Window:         ranging.DefaultWindow,
		Debounce:       buttons.DefaultDebounce,
		TickInterval:   session.DefaultStep,
		EchoTimeout:    ranging.DefaultTimeout,
		Accrual:        session.AccrueElapsed,
	}
}

// Validate reports the first unusable field.
func (c Config) Validate() error {
	switch {
	case c.SitThresholdCM <= 0 || c.SitThresholdCM >= ranging.FarCM:
		return fmt.Errorf("%w: sit threshold %.1fcm outside (0, %.0f)", ErrConfig, c.SitThresholdCM, ranging.FarCM)
	case c.Target <= 0:
		return fmt.Errorf("%w: target %s", ErrConfig, c.Target)
	case c.Window <= 0:
		return fmt.Errorf("%w: window %d", ErrConfig, c.Window)
	case c.Debounce < 0:
		return fmt.Errorf("%w: debounce %s", ErrConfig, c.Debounce)
	case c.TickInterval <= 0:
		return fmt.Errorf("%w: tick interval %s", ErrConfig, c.TickInterval)
	case c.EchoTimeout <= 0:
		return fmt.Errorf("%w: echo timeout %s", ErrConfig, c.EchoTimeout)
	case c.Accrual != session.AccrueElapsed && c.Accrual != session.AccrueFixed:
		return fmt.Errorf("%w: accrual %s", ErrConfig, c.Accrual)
	}
	return nil
}
