// Package session decides whether someone is sitting at the desk and keeps
// the sitting/away bookkeeping.
//
// The machine is pure: it has no clock and no hardware, every call gets the
// filtered distance and the sample time.
package session

import (
	"fmt"
	"time"
)

// State is the occupancy state.
type State uint8

const (
	Away State = iota
	Sitting
)

func (s State) String() string {
	switch s {
	case Away:
		return "AWAY"
	case Sitting:
		return "SITTING"
	default:
		return fmt.Sprintf("State(%d)", uint8(s))
	}
}

// Transition describes what happened to the state on one Advance.
type Transition uint8

const (
	NoChange Transition = iota
	SatDown
	Left
)

// Accrual selects how away time grows per tick.
type Accrual uint8

const (
	// AccrueElapsed adds the wall-clock time since the previous tick.
	AccrueElapsed Accrual = iota
	// AccrueFixed adds Config.Step per away tick regardless of actual
	// loop timing. A slow loop under-counts away time.
	AccrueFixed
)

func (a Accrual) String() string {
	switch a {
	case AccrueElapsed:
		return "elapsed"
	case AccrueFixed:
		return "fixed"
	default:
		return fmt.Sprintf("Accrual(%d)", uint8(a))
	}
}

// ParseAccrual parses "elapsed" or "fixed".
func ParseAccrual(s string) (Accrual, error) {
	switch s {
	case "elapsed", "":
		return AccrueElapsed, nil
	case "fixed":
		return AccrueFixed, nil
	default:
		return 0, fmt.Errorf("session: unknown accrual %q", s)
	}
}

const (
	DefaultSitThresholdCM = 80.0
	DefaultTarget         = 10 * time.Second
	DefaultStep           = 100 * time.Millisecond
)

// Config holds the machine's fixed parameters.
type Config struct {
	SitThresholdCM float64
	Target         time.Duration
	Accrual        Accrual
	// Step is the per-tick away increment under AccrueFixed.
	Step time.Duration
}

// Metrics are lifetime counters; only a restart clears them.
type Metrics struct {
	TotalAway time.Duration
	Sessions  int
}

// Status is the outcome of one Advance.
type Status struct {
	State      State
	Transition Transition

	// Remaining is only meaningful while Sitting. It goes negative once the
	// target is overrun.
	Remaining time.Duration
	Alarm     bool

	// SessionLength is how long the current (or just ended) session lasted.
	SessionLength time.Duration

	Metrics Metrics
}

// Machine is the AWAY/SITTING state machine. Alarm is a flag of Sitting, not
// a state of its own.
type Machine struct {
	cfg Config

	state   State
	start   time.Time
	sat     time.Time
	metrics Metrics

	lastTick time.Time
	ticked   bool
}

func New(cfg Config) *Machine {
	if cfg.SitThresholdCM <= 0 {
		cfg.SitThresholdCM = DefaultSitThresholdCM
	}
	if cfg.Target <= 0 {
		cfg.Target = DefaultTarget
	}
	if cfg.Step <= 0 {
		cfg.Step = DefaultStep
	}
	return &Machine{cfg: cfg, state: Away}
}

func (m *Machine) Config() Config   { return m.cfg }
func (m *Machine) State() State     { return m.state }
func (m *Machine) Metrics() Metrics { return m.metrics }

// Advance processes one filtered distance sample taken at now.
//
// A reset restarts the countdown from now without touching the state or the
// session count. It is applied before the distance is evaluated, so the
// returned Remaining already reflects it.
func (m *Machine) Advance(distanceCM float64, now time.Time, reset bool) Status {
	var dt time.Duration
	if m.ticked {
		dt = now.Sub(m.lastTick)
		if dt < 0 {
			dt = 0
		}
	}
	m.lastTick = now
	m.ticked = true

	if reset {
		m.start = now
	}

	st := Status{Transition: NoChange}
	seated := distanceCM < m.cfg.SitThresholdCM

	switch {
	case m.state == Away && seated:
		m.state = Sitting
		m.start = now
		m.sat = now
		m.metrics.Sessions++
		st.Transition = SatDown
	case m.state == Sitting && !seated:
		m.state = Away
		st.Transition = Left
		st.SessionLength = now.Sub(m.sat)
	}

	if m.state == Away {
		m.accrue(dt)
	} else {
		st.Remaining = m.cfg.Target - now.Sub(m.start)
		st.Alarm = st.Remaining <= 0
		st.SessionLength = now.Sub(m.sat)
	}

	st.State = m.state
	st.Metrics = m.metrics
	return st
}

func (m *Machine) accrue(dt time.Duration) {
	switch m.cfg.Accrual {
	case AccrueFixed:
		m.metrics.TotalAway += m.cfg.Step
	default:
		m.metrics.TotalAway += dt
	}
}
