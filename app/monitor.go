// Package app wires the sensor, buttons, session machine and screen into the
// monitor's control loop.
package app

import (
	"context"
	"fmt"
	"time"

	"deskmon/hal"
	"deskmon/monitor/buttons"
	"deskmon/monitor/ranging"
	"deskmon/monitor/session"
	"deskmon/monitor/view"
)

// Banner is the first serial line after start-up.
const Banner = "Monitor Active. Listening for Sits..."

// Frame is what one tick observed and drew.
type Frame struct {
	View       view.Frame
	Screen     view.Screen
	DistanceCM float64
	Events     buttons.Events
	Transition session.Transition
	Faults     ranging.FaultStats
}

// Monitor runs the desk occupancy loop.
type Monitor struct {
	cfg Config
	log hal.Logger

	canvas  view.Canvas
	input   *buttons.Handler
	filter  *ranging.Filter
	machine *session.Machine
	events  *reporter

	clock func() time.Time
	at    time.Time
	mode  view.Mode
}

// Option customises a Monitor.
type Option func(*Monitor)

// WithClock replaces time.Now for Step and Run.
func WithClock(now func() time.Time) Option {
	return func(m *Monitor) {
		if now != nil {
			m.clock = now
		}
	}
}

// WithCanvas draws on c instead of the HAL framebuffer.
func WithCanvas(c view.Canvas) Option {
	return func(m *Monitor) { m.canvas = c }
}

// New builds a monitor on h. The reset button is KEY0 and the view button
// is KEY1.
func New(h hal.HAL, cfg Config, opts ...Option) (*Monitor, error) {
	if h == nil {
		return nil, fmt.Errorf("app: nil hal")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	m := &Monitor{
		cfg:   cfg,
		log:   h.Logger(),
		clock: time.Now,
		mode:  view.Countdown,
	}
	for _, opt := range opts {
		opt(m)
	}

	if m.canvas == nil {
		var fb hal.Framebuffer
		if d := h.Display(); d != nil {
			fb = d.Framebuffer()
		}
		if fb == nil {
			return nil, ErrNoDisplay
		}
		m.canvas = view.NewFramebufferCanvas(fb)
	}

	reset, err := newButton(h.GPIO(), hal.PinKey0, cfg.Debounce)
	if err != nil {
		return nil, err
	}
	toggle, err := newButton(h.GPIO(), hal.PinKey1, cfg.Debounce)
	if err != nil {
		return nil, err
	}
	m.input = buttons.NewHandler(reset, toggle)

	m.filter = ranging.New(h.Ranger(), ranging.Config{
		Window:  cfg.Window,
		Timeout: cfg.EchoTimeout,
	}, func() time.Time { return m.at })

	m.machine = session.New(session.Config{
		SitThresholdCM: cfg.SitThresholdCM,
		Target:         cfg.Target,
		Accrual:        cfg.Accrual,
		Step:           cfg.TickInterval,
	})

	m.events = &reporter{log: m.log}
	m.events.line(Banner)
	return m, nil
}

func newButton(g hal.GPIO, name string, debounce time.Duration) (*buttons.Button, error) {
	pin := hal.FindPin(g, name)
	if pin == nil {
		return nil, fmt.Errorf("%w: %s", ErrMissingPin, name)
	}
	return buttons.NewButton(pin, debounce)
}

func (m *Monitor) Config() Config           { return m.cfg }
func (m *Monitor) Mode() view.Mode          { return m.mode }
func (m *Monitor) Metrics() session.Metrics { return m.machine.Metrics() }

// Tick runs one pass of the loop at now: clear, poll the buttons, measure,
// advance the session, apply a view toggle, draw and present.
func (m *Monitor) Tick(now time.Time) (Frame, error) {
	m.at = now
	m.canvas.Clear(view.Black)

	ev := m.input.Poll(now)
	dist := m.filter.Measure()
	st := m.machine.Advance(dist, now, ev.Reset)
	if ev.ToggleView {
		m.mode = m.mode.Toggle()
	}

	faults := m.filter.Faults()
	m.events.observe(ev, st, faults, m.mode)

	f := Frame{
		View: view.Frame{
			Now:       now,
			State:     st.State,
			Remaining: st.Remaining,
			Alarm:     st.Alarm,
			Metrics:   st.Metrics,
			Target:    m.cfg.Target,
			Mode:      m.mode,
		},
		DistanceCM: dist,
		Events:     ev,
		Transition: st.Transition,
		Faults:     faults,
	}

	screen, err := view.Render(m.canvas, f.View)
	f.Screen = screen
	if err != nil {
		return f, fmt.Errorf("app: tick: %w", err)
	}
	return f, nil
}

// Step ticks once at the monitor's clock.
func (m *Monitor) Step() error {
	_, err := m.Tick(m.clock())
	return err
}

// Run ticks every Config.TickInterval until ctx is done. Tick errors are
// logged once per distinct message and the loop carries on. A panic inside
// the loop is shown on the panel and returned as an error.
func (m *Monitor) Run(ctx context.Context) (err error) {
	defer func() {
		if v := recover(); v != nil {
			showPanic(m.log, m.canvas, v)
			err = fmt.Errorf("app: panic: %v", v)
		}
	}()

	t := time.NewTicker(m.cfg.TickInterval)
	defer t.Stop()

	var last string
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			if err := m.Step(); err != nil {
				if msg := err.Error(); msg != last {
					m.events.line(msg)
					last = msg
				}
				continue
			}
			last = ""
		}
	}
}
