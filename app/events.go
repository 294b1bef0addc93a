package app

import (
	"fmt"
	"time"

	"deskmon/hal"
	"deskmon/monitor/buttons"
	"deskmon/monitor/ranging"
	"deskmon/monitor/session"
	"deskmon/monitor/view"
)

// reporter turns per-tick outcomes into serial event lines. Each line starts
// with its event name so the host logger can label it.
type reporter struct {
	log hal.Logger

	alarmed  bool
	faulted  bool
	faultSum time.Duration
}

func (r *reporter) line(s string) {
	if r.log != nil {
		r.log.WriteLineString(s)
	}
}

func (r *reporter) observe(ev buttons.Events, st session.Status, faults ranging.FaultStats, mode view.Mode) {
	switch {
	case faults.Active && !r.faulted:
		r.line("SENSOR fault")
	case !faults.Active && r.faulted:
		r.line(fmt.Sprintf("SENSOR ok fault_secs=%.1f", (faults.Total - r.faultSum).Seconds()))
	}
	r.faulted = faults.Active
	r.faultSum = faults.Total

	if ev.Reset {
		r.line("RESET")
	}

	switch st.Transition {
	case session.SatDown:
		r.line(fmt.Sprintf("SIT session=%d", st.Metrics.Sessions))
	case session.Left:
		r.line(fmt.Sprintf("AWAY session_secs=%d total_away_secs=%d",
			int64(st.SessionLength/time.Second), int64(st.Metrics.TotalAway/time.Second)))
	}

	if st.Alarm && !r.alarmed {
		r.line(fmt.Sprintf("ALARM session=%d", st.Metrics.Sessions))
	}
	r.alarmed = st.Alarm

	if ev.ToggleView {
		r.line("VIEW " + mode.String())
	}
}
