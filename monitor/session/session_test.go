package session

import (
	"math/rand"
	"testing"
	"time"
)

const tick = 100 * time.Millisecond

func TestStartsAway(t *testing.T) {
	m := New(Config{})
	if m.State() != Away {
		t.Fatalf("expected AWAY, got %s", m.State())
	}
	if got := m.Metrics(); got != (Metrics{}) {
		t.Fatalf("expected zero metrics, got %+v", got)
	}
}

func TestSitDownStartsSession(t *testing.T) {
	m := New(Config{})
	now := time.Unix(0, 0)

	st := m.Advance(40, now, false)
	if st.State != Sitting || st.Transition != SatDown {
		t.Fatalf("expected SatDown into SITTING, got %+v", st)
	}
	if st.Metrics.Sessions != 1 {
		t.Fatalf("expected 1 session, got %d", st.Metrics.Sessions)
	}
	if st.Remaining != DefaultTarget || st.Alarm {
		t.Fatalf("expected full countdown, got remaining=%s alarm=%v", st.Remaining, st.Alarm)
	}

	st = m.Advance(40, now.Add(3*time.Second), false)
	if st.Transition != NoChange || st.Remaining != 7*time.Second {
		t.Fatalf("expected 7s remaining, got %+v", st)
	}
}

func TestThresholdIsStrict(t *testing.T) {
	m := New(Config{SitThresholdCM: 80})
	if st := m.Advance(80, time.Unix(0, 0), false); st.State != Away {
		t.Fatalf("80cm is not below threshold, got %s", st.State)
	}
	if st := m.Advance(79.99, time.Unix(1, 0), false); st.State != Sitting {
		t.Fatalf("79.99cm is below threshold, got %s", st.State)
	}
	if st := m.Advance(80, time.Unix(2, 0), false); st.State != Away || st.Transition != Left {
		t.Fatalf("expected to leave at 80cm, got %+v", st)
	}
}

func TestAlarmUntilLeaving(t *testing.T) {
	m := New(Config{Target: 10 * time.Second})
	t0 := time.Unix(50, 0)
	m.Advance(40, t0, false)

	if st := m.Advance(40, t0.Add(9900*time.Millisecond), false); st.Alarm {
		t.Fatal("no alarm before target")
	}
	st := m.Advance(40, t0.Add(10*time.Second), false)
	if !st.Alarm || st.State != Sitting || st.Remaining != 0 {
		t.Fatalf("expected alarm at target, got %+v", st)
	}
	for i := 1; i <= 50; i++ {
		st = m.Advance(40, t0.Add(10*time.Second+time.Duration(i)*tick), false)
		if !st.Alarm || st.State != Sitting {
			t.Fatalf("alarm should hold while sitting, tick %d: %+v", i, st)
		}
	}
	if st.Metrics.Sessions != 1 {
		t.Fatalf("alarm must not start a new session, got %d", st.Metrics.Sessions)
	}

	st = m.Advance(200, t0.Add(20*time.Second), false)
	if st.Alarm || st.State != Away || st.Transition != Left {
		t.Fatalf("expected alarm to clear on leaving, got %+v", st)
	}
	if st.SessionLength != 20*time.Second {
		t.Fatalf("expected 20s session, got %s", st.SessionLength)
	}
}

func TestResetRestartsCountdown(t *testing.T) {
	m := New(Config{Target: 10 * time.Second})
	t0 := time.Unix(0, 0)
	m.Advance(40, t0, false)

	if st := m.Advance(40, t0.Add(7*time.Second), false); st.Remaining != 3*time.Second {
		t.Fatalf("expected 3s remaining, got %s", st.Remaining)
	}
	st := m.Advance(40, t0.Add(7*time.Second+tick), true)
	if st.Remaining != 10*time.Second {
		t.Fatalf("expected reset to full target, got %s", st.Remaining)
	}
	if st.State != Sitting || st.Transition != NoChange || st.Metrics.Sessions != 1 {
		t.Fatalf("reset must not change state or sessions, got %+v", st)
	}
}

func TestResetWhileAwayKeepsState(t *testing.T) {
	m := New(Config{})
	st := m.Advance(300, time.Unix(0, 0), true)
	if st.State != Away || st.Metrics.Sessions != 0 {
		t.Fatalf("reset while away must not sit down, got %+v", st)
	}
}

func TestSessionCountOnePerSitDown(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	m := New(Config{})
	now := time.Unix(0, 0)

	sitDowns := 0
	prev := Away
	prevSessions := 0
	for i := 0; i < 2000; i++ {
		d := 20 + rng.Float64()*200
		st := m.Advance(d, now, rng.Intn(20) == 0)
		now = now.Add(tick)

		wantState := Away
		if d < DefaultSitThresholdCM {
			wantState = Sitting
		}
		if st.State != wantState {
			t.Fatalf("step %d: distance %.1f gave %s", i, d, st.State)
		}
		if prev == Away && st.State == Sitting {
			sitDowns++
			if st.Transition != SatDown {
				t.Fatalf("step %d: expected SatDown", i)
			}
		}
		if prev == Sitting && st.State == Away && st.Transition != Left {
			t.Fatalf("step %d: expected Left", i)
		}
		if st.Metrics.Sessions < prevSessions {
			t.Fatalf("step %d: session count decreased", i)
		}
		prev = st.State
		prevSessions = st.Metrics.Sessions
	}
	if got := m.Metrics().Sessions; got != sitDowns {
		t.Fatalf("expected %d sessions, got %d", sitDowns, got)
	}
}

func TestAwayAccrualElapsed(t *testing.T) {
	m := New(Config{Accrual: AccrueElapsed})
	t0 := time.Unix(0, 0)

	m.Advance(200, t0, false)
	if got := m.Metrics().TotalAway; got != 0 {
		t.Fatalf("first tick has no previous tick, got %s", got)
	}
	// A slow loop still counts real time.
	m.Advance(200, t0.Add(250*time.Millisecond), false)
	m.Advance(200, t0.Add(1250*time.Millisecond), false)
	if got := m.Metrics().TotalAway; got != 1250*time.Millisecond {
		t.Fatalf("expected 1.25s away, got %s", got)
	}

	// Sitting ticks do not accrue; the tick that leaves does.
	m.Advance(40, t0.Add(2*time.Second), false)
	m.Advance(40, t0.Add(3*time.Second), false)
	m.Advance(200, t0.Add(3500*time.Millisecond), false)
	if got := m.Metrics().TotalAway; got != 1750*time.Millisecond {
		t.Fatalf("expected 1.75s away, got %s", got)
	}
}

func TestAwayAccrualFixedIgnoresLoopJitter(t *testing.T) {
	m := New(Config{Accrual: AccrueFixed, Step: tick})
	t0 := time.Unix(0, 0)

	m.Advance(200, t0, false)
	m.Advance(200, t0.Add(250*time.Millisecond), false)
	m.Advance(200, t0.Add(1250*time.Millisecond), false)
	// Three away ticks at a fixed 100ms each, whatever the real spacing.
	if got := m.Metrics().TotalAway; got != 300*time.Millisecond {
		t.Fatalf("expected 300ms away, got %s", got)
	}
}

func TestAwayTimeNonDecreasing(t *testing.T) {
	m := New(Config{})
	now := time.Unix(0, 0)
	var last time.Duration
	for i := 0; i < 100; i++ {
		// Clock steps backwards occasionally.
		if i%17 == 0 {
			now = now.Add(-time.Second)
		} else {
			now = now.Add(tick)
		}
		st := m.Advance(300, now, false)
		if st.Metrics.TotalAway < last {
			t.Fatalf("step %d: away time decreased", i)
		}
		last = st.Metrics.TotalAway
	}
}

func TestParseAccrual(t *testing.T) {
	for in, want := range map[string]Accrual{"": AccrueElapsed, "elapsed": AccrueElapsed, "fixed": AccrueFixed} {
		got, err := ParseAccrual(in)
		if err != nil || got != want {
			t.Fatalf("ParseAccrual(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseAccrual("sometimes"); err == nil {
		t.Fatal("expected error")
	}
}
