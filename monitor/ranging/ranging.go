// Package ranging turns ultrasonic echo timings into a smoothed distance.
//
// The raw HC-SR04 signal is noisy and occasionally drops out, so every reading
// goes through a short moving-average window. A missing echo is never an error
// for the caller: it becomes a "far" reading, meaning nobody is there.
package ranging

import (
	"time"

	"deskmon/hal"
	"deskmon/internal/mathx"
)

const (
	// SoundCMPerMicro is the speed of sound in cm/µs.
	SoundCMPerMicro = 0.0343

	// FarCM is substituted for a reading that saw no echo.
	FarCM = 500.0

	DefaultWindow  = 5
	DefaultTimeout = 30 * time.Millisecond
)

// Reading is the outcome of a single ping.
type Reading struct {
	Pulse    time.Duration
	TimedOut bool
}

// Measured returns a reading with an echo of the given width.
func Measured(pulse time.Duration) Reading { return Reading{Pulse: pulse} }

// TimedOut returns a reading that saw no echo.
func TimedOut() Reading { return Reading{TimedOut: true} }

// CM converts the reading to centimetres, applying the far substitution.
func (r Reading) CM() float64 {
	if r.TimedOut || r.Pulse <= 0 {
		return FarCM
	}
	us := float64(r.Pulse) / float64(time.Microsecond)
	return us * SoundCMPerMicro / 2
}

// Window is a fixed-size moving-average buffer. It always holds exactly
// Len values; Push evicts the oldest.
type Window struct {
	vals []float64
	next int
}

// NewWindow returns a window of n values, all set to fill.
func NewWindow(n int, fill float64) *Window {
	if n <= 0 {
		n = 1
	}
	w := &Window{vals: make([]float64, n)}
	for i := range w.vals {
		w.vals[i] = fill
	}
	return w
}

func (w *Window) Len() int { return len(w.vals) }

func (w *Window) Push(v float64) {
	w.vals[w.next] = v
	w.next = (w.next + 1) % len(w.vals)
}

func (w *Window) Mean() float64 { return mathx.Mean(w.vals) }

// Values returns a copy of the window, oldest first.
func (w *Window) Values() []float64 {
	out := make([]float64, 0, len(w.vals))
	out = append(out, w.vals[w.next:]...)
	return append(out, w.vals[:w.next]...)
}

// FaultStats describes how the ranger has been failing.
type FaultStats struct {
	Active   bool
	Since    time.Time
	Total    time.Duration
	Timeouts uint64
}

// Current returns how long the active fault has lasted at now.
func (s FaultStats) Current(now time.Time) time.Duration {
	if !s.Active {
		return 0
	}
	return now.Sub(s.Since)
}

// Config tunes a Filter.
type Config struct {
	Window  int
	Timeout time.Duration
}

// Filter pings the ranger and smooths the result.
type Filter struct {
	ranger  hal.Ranger
	timeout time.Duration
	now     func() time.Time

	win    *Window
	faults FaultStats
}

// New returns a filter reading from r. now stamps fault transitions; nil
// means time.Now.
func New(r hal.Ranger, cfg Config, now func() time.Time) *Filter {
	if cfg.Window <= 0 {
		cfg.Window = DefaultWindow
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if now == nil {
		now = time.Now
	}
	return &Filter{
		ranger:  r,
		timeout: cfg.Timeout,
		now:     now,
		win:     NewWindow(cfg.Window, FarCM),
	}
}

// Measure pings once and returns the smoothed distance in centimetres.
func (f *Filter) Measure() float64 {
	return f.Add(f.ping())
}

func (f *Filter) ping() Reading {
	if f.ranger == nil {
		return TimedOut()
	}
	pulse, err := f.ranger.Ping(f.timeout)
	if err != nil {
		return TimedOut()
	}
	return Measured(pulse)
}

// Add feeds an already taken reading and returns the smoothed distance.
func (f *Filter) Add(r Reading) float64 {
	f.track(r)
	f.win.Push(r.CM())
	return f.win.Mean()
}

func (f *Filter) track(r Reading) {
	failed := r.TimedOut || r.Pulse <= 0
	switch {
	case failed && !f.faults.Active:
		f.faults.Active = true
		f.faults.Since = f.now()
		f.faults.Timeouts++
	case failed:
		f.faults.Timeouts++
	case f.faults.Active:
		f.faults.Total += f.now().Sub(f.faults.Since)
		f.faults.Active = false
		f.faults.Since = time.Time{}
	}
}

// Distance returns the current smoothed distance without pinging.
func (f *Filter) Distance() float64 { return f.win.Mean() }

// Window exposes the filter's buffer, oldest first.
func (f *Filter) Window() []float64 { return f.win.Values() }

func (f *Filter) Faults() FaultStats { return f.faults }
