// Package view picks the screen for the current monitor state and draws it.
//
// Drawing goes through Canvas, which mirrors the primitive set of a small
// monochrome panel driver. Nothing here reads hardware or mutates state.
package view

import (
	"fmt"
	"time"

	"deskmon/internal/mathx"
	"deskmon/monitor/session"
)

// Color is one of the two panel colours.
type Color uint8

const (
	Black Color = iota
	White
)

// Canvas is the display collaborator.
type Canvas interface {
	Clear(c Color)
	FillRect(x, y, w, h int16, c Color)
	Rect(x, y, w, h int16, c Color)
	Line(x0, y0, x1, y1 int16, c Color)
	Text(s string, x, y int16, c Color)
	Present() error
}

// Mode is the user-selected view.
type Mode uint8

const (
	Countdown Mode = iota
	Dashboard
)

func (m Mode) String() string {
	switch m {
	case Countdown:
		return "countdown"
	case Dashboard:
		return "dashboard"
	default:
		return fmt.Sprintf("Mode(%d)", uint8(m))
	}
}

// Toggle returns the other mode.
func (m Mode) Toggle() Mode {
	if m == Dashboard {
		return Countdown
	}
	return Dashboard
}

// Screen identifies what Render drew.
type Screen uint8

const (
	ScreenAlarm Screen = iota
	ScreenDashboard
	ScreenCountdown
	ScreenAway
)

func (s Screen) String() string {
	switch s {
	case ScreenAlarm:
		return "alarm"
	case ScreenDashboard:
		return "dashboard"
	case ScreenCountdown:
		return "countdown"
	case ScreenAway:
		return "away"
	default:
		return fmt.Sprintf("Screen(%d)", uint8(s))
	}
}

// Frame is everything a screen needs.
type Frame struct {
	Now       time.Time
	State     session.State
	Remaining time.Duration
	Alarm     bool
	Metrics   session.Metrics
	Target    time.Duration
	Mode      Mode
}

// Select returns the screen for f: alarm, then dashboard, then countdown
// while sitting, else away.
func Select(f Frame) Screen {
	switch {
	case f.Alarm:
		return ScreenAlarm
	case f.Mode == Dashboard:
		return ScreenDashboard
	case f.State == session.Sitting:
		return ScreenCountdown
	default:
		return ScreenAway
	}
}

// Render draws f on c and presents it. The caller clears the canvas first.
func Render(c Canvas, f Frame) (Screen, error) {
	s := Select(f)
	switch s {
	case ScreenAlarm:
		drawAlarm(c, f.Now)
	case ScreenDashboard:
		drawDashboard(c, f.Metrics)
	case ScreenCountdown:
		drawCountdown(c, f.Remaining, f.Target)
	default:
		drawAway(c, f.Metrics)
	}
	if err := c.Present(); err != nil {
		return s, fmt.Errorf("view: present %s: %w", s, err)
	}
	return s, nil
}

// FlashOn reports the inverted phase of the 1 Hz alarm flash: it is on for
// the first half of every second.
func FlashOn(now time.Time) bool {
	return (now.UnixMilli()/500)%2 == 0
}

func drawAlarm(c Canvas, now time.Time) {
	bg, fg := Black, White
	if FlashOn(now) {
		bg, fg = White, Black
	}
	c.Clear(bg)
	c.Text("STAND UP", 30, 15, fg)
	drawCup(c, 52, 40, fg)
}

// drawCup draws a 24x22 coffee cup whose body's top-left corner is (x, y);
// the steam rises above y.
func drawCup(c Canvas, x, y int16, col Color) {
	c.FillRect(x, y, 20, 14, col)
	c.Rect(x+20, y+2, 4, 8, col)
	c.Line(x+4, y-3, x+4, y-6, col)
	c.Line(x+10, y-4, x+10, y-8, col)
	c.Line(x+16, y-3, x+16, y-6, col)
}

func drawDashboard(c Canvas, m session.Metrics) {
	c.Text("DASHBOARD", 30, 2, White)
	c.Line(0, 12, 128, 12, White)
	c.Text("Away Time:", 5, 25, White)
	c.Text(FormatTime(m.TotalAway), 5, 38, White)
	c.Text(fmt.Sprintf("Sits: %d", m.Sessions), 5, 53, White)
}

const barWidth = 100

func drawCountdown(c Canvas, remaining, target time.Duration) {
	c.Text("FOCUS TIME", 25, 2, White)
	c.Text(FormatClock(remaining), 40, 25, White)

	c.Rect(14, 45, barWidth, 8, White)
	if w := BarFill(remaining, target, barWidth); w > 0 {
		c.FillRect(14, 45, w, 8, White)
	}
}

// BarFill returns the filled width of a progress bar of the given width for
// the remaining share of target; never negative.
func BarFill(remaining, target time.Duration, width int16) int16 {
	if target <= 0 {
		return 0
	}
	pct := mathx.Clamp(float64(remaining)/float64(target), 0, 1)
	return int16(float64(width) * pct)
}

func drawAway(c Canvas, m session.Metrics) {
	c.Text("AWAY", 48, 20, White)
	c.Text("Total: "+FormatTime(m.TotalAway), 20, 40, White)
}
