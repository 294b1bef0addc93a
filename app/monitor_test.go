package app

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"deskmon/hal"
	"deskmon/monitor/ranging"
	"deskmon/monitor/session"
	"deskmon/monitor/view"
)

type lineLog struct{ lines []string }

func (l *lineLog) WriteLineString(s string) { l.lines = append(l.lines, s) }
func (l *lineLog) WriteLineBytes(b []byte)  { l.lines = append(l.lines, string(b)) }

func (l *lineLog) has(s string) bool {
	for _, line := range l.lines {
		if line == s {
			return true
		}
	}
	return false
}

func (l *lineLog) count(prefix string) int {
	n := 0
	for _, line := range l.lines {
		if strings.HasPrefix(line, prefix) {
			n++
		}
	}
	return n
}

type testPin struct {
	name string
	low  bool
}

func (p *testPin) Name() string                               { return p.name }
func (p *testPin) Caps() hal.GPIOCaps                         { return hal.GPIOCapInput | hal.GPIOCapPullUp }
func (p *testPin) Configure(hal.GPIOMode, hal.GPIOPull) error { return nil }
func (p *testPin) Read() (bool, error)                        { return !p.low, nil }
func (p *testPin) Write(bool) error                           { return hal.ErrNotImplemented }

type testGPIO []hal.GPIOPin

func (g testGPIO) PinCount() int          { return len(g) }
func (g testGPIO) Pin(id int) hal.GPIOPin { return g[id] }

type testRanger struct {
	cm    float64
	fail  bool
	pings int
}

func (r *testRanger) Ping(timeout time.Duration) (time.Duration, error) {
	r.pings++
	if r.fail {
		return 0, hal.ErrEchoTimeout
	}
	us := r.cm * 2 / ranging.SoundCMPerMicro
	return time.Duration(us * float64(time.Microsecond)), nil
}

type testFB struct {
	presents int
	clears   int
}

func (f *testFB) Width() int              { return 128 }
func (f *testFB) Height() int             { return 64 }
func (f *testFB) Format() hal.PixelFormat { return hal.PixelFormatRGB565 }
func (f *testFB) StrideBytes() int        { return 256 }
func (f *testFB) Buffer() []byte          { return nil }
func (f *testFB) ClearRGB(r, g, b uint8)  { f.clears++ }
func (f *testFB) Present() error {
	f.presents++
	return nil
}

type testDisplay struct{ fb hal.Framebuffer }

func (d testDisplay) Framebuffer() hal.Framebuffer { return d.fb }

type testHAL struct {
	log    *lineLog
	key0   *testPin
	key1   *testPin
	gpio   hal.GPIO
	ranger *testRanger
	fb     *testFB
}

func newTestHAL(cm float64) *testHAL {
	h := &testHAL{
		log:    &lineLog{},
		key0:   &testPin{name: hal.PinKey0},
		key1:   &testPin{name: hal.PinKey1},
		ranger: &testRanger{cm: cm},
		fb:     &testFB{},
	}
	h.gpio = testGPIO{h.key0, h.key1}
	return h
}

func (h *testHAL) Logger() hal.Logger { return h.log }
func (h *testHAL) Display() hal.Display {
	if h.fb == nil {
		return nil
	}
	return testDisplay{fb: h.fb}
}
func (h *testHAL) GPIO() hal.GPIO     { return h.gpio }
func (h *testHAL) Ranger() hal.Ranger { return h.ranger }

type canvasStub struct {
	texts      []string
	presentErr error
	panicOnce  bool
}

func (c *canvasStub) Clear(view.Color)                          { c.texts = nil }
func (c *canvasStub) FillRect(x, y, w, h int16, col view.Color) {}
func (c *canvasStub) Rect(x, y, w, h int16, col view.Color)     {}
func (c *canvasStub) Line(x0, y0, x1, y1 int16, col view.Color) {}
func (c *canvasStub) Text(s string, x, y int16, col view.Color) { c.texts = append(c.texts, s) }
func (c *canvasStub) Present() error {
	if c.panicOnce {
		c.panicOnce = false
		panic("spi wedged")
	}
	return c.presentErr
}

// rig drives a monitor with a manual 100 ms clock.
type rig struct {
	t   *testing.T
	h   *testHAL
	c   *canvasStub
	m   *Monitor
	now time.Time
}

func newRig(t *testing.T, cm float64, cfg Config) *rig {
	t.Helper()
	r := &rig{t: t, h: newTestHAL(cm), c: &canvasStub{}, now: time.Unix(1_700_000_000, 0)}
	m, err := New(r.h, cfg, WithCanvas(r.c), WithClock(func() time.Time { return r.now }))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	r.m = m
	return r
}

func (r *rig) tick() Frame {
	r.t.Helper()
	f, err := r.m.Tick(r.now)
	if err != nil {
		r.t.Fatalf("Tick: %v", err)
	}
	r.now = r.now.Add(100 * time.Millisecond)
	return f
}

func (r *rig) ticks(n int) Frame {
	r.t.Helper()
	var f Frame
	for i := 0; i < n; i++ {
		f = r.tick()
	}
	return f
}

// press holds a key for exactly one tick.
func (r *rig) press(p *testPin) Frame {
	r.t.Helper()
	p.low = true
	f := r.tick()
	p.low = false
	return f
}

func TestNewErrors(t *testing.T) {
	if _, err := New(nil, DefaultConfig()); err == nil {
		t.Fatal("expected error for nil hal")
	}

	h := newTestHAL(150)
	h.gpio = testGPIO{h.key0}
	if _, err := New(h, DefaultConfig()); !errors.Is(err, ErrMissingPin) {
		t.Fatalf("expected ErrMissingPin, got %v", err)
	}

	h = newTestHAL(150)
	h.fb = nil
	if _, err := New(h, DefaultConfig()); !errors.Is(err, ErrNoDisplay) {
		t.Fatalf("expected ErrNoDisplay, got %v", err)
	}

	cfg := DefaultConfig()
	cfg.Window = 0
	if _, err := New(newTestHAL(150), cfg); !errors.Is(err, ErrConfig) {
		t.Fatalf("expected ErrConfig, got %v", err)
	}
}

func TestNewLogsBanner(t *testing.T) {
	r := newRig(t, 150, DefaultConfig())
	if len(r.h.log.lines) != 1 || r.h.log.lines[0] != Banner {
		t.Fatalf("expected banner only, got %q", r.h.log.lines)
	}
}

func TestTickDrawsOnFramebuffer(t *testing.T) {
	h := newTestHAL(150)
	m, err := New(h, DefaultConfig())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	f, err := m.Tick(time.Unix(10, 0))
	if err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if f.Screen != view.ScreenAway {
		t.Fatalf("expected away screen, got %s", f.Screen)
	}
	if h.fb.clears != 1 || h.fb.presents != 1 {
		t.Fatalf("expected one clear and one present, got %d/%d", h.fb.clears, h.fb.presents)
	}
	if h.ranger.pings != 1 {
		t.Fatalf("expected one ping per tick, got %d", h.ranger.pings)
	}
}

func TestStaysAwayWhenFar(t *testing.T) {
	r := newRig(t, 150, DefaultConfig())
	f := r.ticks(20)
	if f.View.State != session.Away || f.Screen != view.ScreenAway {
		t.Fatalf("expected away, got %s on %s", f.View.State, f.Screen)
	}
	if got := r.m.Metrics().TotalAway; got != 1900*time.Millisecond {
		t.Fatalf("expected 1.9s away, got %s", got)
	}
	if r.h.log.count("SIT") != 0 {
		t.Fatalf("unexpected SIT in %q", r.h.log.lines)
	}
}

func TestSitDownNeedsAFullWindow(t *testing.T) {
	r := newRig(t, 40, DefaultConfig())
	for i := 0; i < 4; i++ {
		if f := r.tick(); f.View.State != session.Away {
			t.Fatalf("tick %d: sat down before the window filled (%.1fcm)", i, f.DistanceCM)
		}
	}
	f := r.tick()
	if f.Transition != session.SatDown || f.Screen != view.ScreenCountdown {
		t.Fatalf("expected sit down on countdown, got %d on %s", f.Transition, f.Screen)
	}
	if f.View.Remaining != 10*time.Second {
		t.Fatalf("expected full countdown, got %s", f.View.Remaining)
	}
	if !r.h.log.has("SIT session=1") {
		t.Fatalf("missing SIT line in %q", r.h.log.lines)
	}
	if r.c.texts[1] != "00:10" {
		t.Fatalf("expected 00:10 on screen, got %q", r.c.texts)
	}
	if got := r.m.Metrics().TotalAway; got != 300*time.Millisecond {
		t.Fatalf("expected 300ms away before sitting, got %s", got)
	}
}

func TestAlarmAfterTarget(t *testing.T) {
	r := newRig(t, 40, DefaultConfig())
	r.ticks(5)

	f := r.ticks(99)
	if f.View.Alarm {
		t.Fatal("alarm raised before the target elapsed")
	}
	f = r.tick()
	if !f.View.Alarm || f.Screen != view.ScreenAlarm {
		t.Fatalf("expected alarm, got alarm=%v screen=%s", f.View.Alarm, f.Screen)
	}
	if f.View.State != session.Sitting {
		t.Fatalf("alarm must keep the sitting state, got %s", f.View.State)
	}

	r.ticks(10)
	if got := r.h.log.count("ALARM"); got != 1 {
		t.Fatalf("expected one ALARM line, got %d in %q", got, r.h.log.lines)
	}
}

func TestResetClearsAlarmSameTick(t *testing.T) {
	r := newRig(t, 40, DefaultConfig())
	r.ticks(110)

	f := r.press(r.h.key0)
	if f.View.Alarm || f.Screen != view.ScreenCountdown {
		t.Fatalf("reset must clear the alarm on the same frame, got %v on %s", f.View.Alarm, f.Screen)
	}
	if f.View.Remaining != 10*time.Second {
		t.Fatalf("expected restarted countdown, got %s", f.View.Remaining)
	}
	if f.View.Metrics.Sessions != 1 {
		t.Fatalf("reset must not count a session, got %d", f.View.Metrics.Sessions)
	}
	if !r.h.log.has("RESET") {
		t.Fatalf("missing RESET in %q", r.h.log.lines)
	}

	f = r.ticks(105)
	if !f.View.Alarm || r.h.log.count("ALARM") != 2 {
		t.Fatalf("expected the alarm to re-arm after another target, log %q", r.h.log.lines)
	}
}

func TestToggleViewSameTick(t *testing.T) {
	r := newRig(t, 150, DefaultConfig())
	r.tick()

	f := r.press(r.h.key1)
	if f.View.Mode != view.Dashboard || f.Screen != view.ScreenDashboard {
		t.Fatalf("expected dashboard on the press frame, got %s on %s", f.View.Mode, f.Screen)
	}
	if r.c.texts[0] != "DASHBOARD" {
		t.Fatalf("expected dashboard text, got %q", r.c.texts)
	}
	if !r.h.log.has("VIEW dashboard") {
		t.Fatalf("missing VIEW line in %q", r.h.log.lines)
	}

	// Held past the debounce interval it fires again.
	r.h.key1.low = true
	r.ticks(2)
	f = r.tick()
	r.h.key1.low = false
	if f.View.Mode != view.Countdown || r.m.Mode() != view.Countdown {
		t.Fatalf("expected countdown after repeat, got %s", f.View.Mode)
	}
}

func TestAlarmOverridesDashboard(t *testing.T) {
	r := newRig(t, 40, DefaultConfig())
	r.press(r.h.key1)
	f := r.ticks(110)
	if f.View.Mode != view.Dashboard || f.Screen != view.ScreenAlarm {
		t.Fatalf("expected alarm over dashboard, got %s on %s", f.View.Mode, f.Screen)
	}
}

func TestLeavingEndsSession(t *testing.T) {
	r := newRig(t, 40, DefaultConfig())
	r.ticks(25)

	r.h.ranger.cm = 150
	if f := r.tick(); f.View.State != session.Sitting {
		t.Fatalf("one far reading must not end the session (%.1fcm)", f.DistanceCM)
	}
	f := r.tick()
	if f.Transition != session.Left || f.Screen != view.ScreenAway {
		t.Fatalf("expected leave on away screen, got %d on %s", f.Transition, f.Screen)
	}
	if !r.h.log.has("AWAY session_secs=2 total_away_secs=0") {
		t.Fatalf("missing AWAY line in %q", r.h.log.lines)
	}

	r.h.ranger.cm = 40
	f = r.ticks(5)
	if f.View.Metrics.Sessions != 2 || !r.h.log.has("SIT session=2") {
		t.Fatalf("expected second session, got %d", f.View.Metrics.Sessions)
	}
}

func TestFixedAccrual(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Accrual = session.AccrueFixed
	r := newRig(t, 150, cfg)
	r.ticks(10)
	if got := r.m.Metrics().TotalAway; got != time.Second {
		t.Fatalf("expected 10 x 100ms, got %s", got)
	}
}

func TestSensorFaultEvents(t *testing.T) {
	r := newRig(t, 40, DefaultConfig())
	r.ticks(10)

	r.h.ranger.fail = true
	f := r.tick()
	if !f.Faults.Active || f.DistanceCM <= 40 {
		t.Fatalf("expected active fault raising the distance, got %+v at %.1fcm", f.Faults, f.DistanceCM)
	}
	r.ticks(2)
	r.h.ranger.fail = false
	f = r.tick()
	if f.Faults.Active || f.Faults.Timeouts != 3 {
		t.Fatalf("expected fault cleared after 3 timeouts, got %+v", f.Faults)
	}
	if !r.h.log.has("SENSOR fault") || !r.h.log.has("SENSOR ok fault_secs=0.3") {
		t.Fatalf("missing SENSOR lines in %q", r.h.log.lines)
	}
	if r.h.log.count("SENSOR fault") != 1 {
		t.Fatalf("expected a single fault line, got %q", r.h.log.lines)
	}
}

func TestTickReturnsPresentError(t *testing.T) {
	r := newRig(t, 150, DefaultConfig())
	boom := errors.New("spi")
	r.c.presentErr = boom
	f, err := r.m.Tick(r.now)
	if !errors.Is(err, boom) {
		t.Fatalf("expected present error, got %v", err)
	}
	if f.Screen != view.ScreenAway {
		t.Fatalf("frame must still describe the screen, got %s", f.Screen)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TickInterval = time.Millisecond
	h := newTestHAL(150)
	m, err := New(h, cfg, WithCanvas(&canvasStub{presentErr: errors.New("spi")}))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := m.Run(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline, got %v", err)
	}
	if h.ranger.pings < 2 {
		t.Fatalf("expected the loop to keep ticking after errors, got %d pings", h.ranger.pings)
	}
	if got := h.log.count("app: tick:"); got != 1 {
		t.Fatalf("expected the repeated error logged once, got %d", got)
	}
}

func TestRunShowsPanic(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TickInterval = time.Millisecond
	h := newTestHAL(150)
	c := &canvasStub{panicOnce: true}
	m, err := New(h, cfg, WithCanvas(c))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	err = m.Run(context.Background())
	if err == nil || !strings.Contains(err.Error(), "spi wedged") {
		t.Fatalf("expected panic error, got %v", err)
	}
	if !h.log.has("Monitor Panic: panic: spi wedged") {
		t.Fatalf("missing panic line in %q", h.log.lines)
	}
	if len(c.texts) < 2 || c.texts[0] != "Monitor Panic:" {
		t.Fatalf("expected panic screen, got %q", c.texts)
	}
}

func TestPanicLinesWrap(t *testing.T) {
	got := panicLines("panic: runtime error: index out of range", 21, 5)
	want := []string{"panic: runtime error:", "index out of range"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("panicLines = %q, want %q", got, want)
	}
	if got := panicLines(strings.Repeat("x", 200), 21, 3); len(got) != 3 {
		t.Fatalf("expected at most 3 lines, got %d", len(got))
	}
}

func TestConfigValidate(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
	bad := []func(*Config){
		func(c *Config) { c.SitThresholdCM = 0 },
		func(c *Config) { c.SitThresholdCM = 600 },
		func(c *Config) { c.Target = 0 },
		func(c *Config) { c.Debounce = -time.Second },
		func(c *Config) { c.TickInterval = 0 },
		func(c *Config) { c.EchoTimeout = 0 },
		func(c *Config) { c.Accrual = 9 },
	}
	for i, mut := range bad {
		cfg := DefaultConfig()
		mut(&cfg)
		if err := cfg.Validate(); !errors.Is(err, ErrConfig) {
			t.Fatalf("case %d: expected ErrConfig, got %v", i, err)
		}
	}
}
