//go:build !tinygo

package hal

import (
	"fmt"
	"sync"
	"time"
)

const (
	// Speed of sound in cm/µs at room temperature.
	soundCMPerMicro = 0.0343

	simMaxRangeCM = 400
	simMinRangeCM = 2
)

// simRanger is a host stand-in for the HC-SR04.
//
// It reports the echo width that a target at the current simulated distance
// would produce. Targets beyond the sensor's range, and a forced fault, time out.
type simRanger struct {
	mu     sync.Mutex
	distCM float64
	fault  bool
}

func newSimRanger(distCM float64) *simRanger {
	return &simRanger{distCM: distCM}
}

func (r *simRanger) Ping(timeout time.Duration) (time.Duration, error) {
	r.mu.Lock()
	dist, fault := r.distCM, r.fault
	r.mu.Unlock()

	if fault || dist > simMaxRangeCM {
		return 0, ErrEchoTimeout
	}
	if dist < simMinRangeCM {
		dist = simMinRangeCM
	}
	pulse := time.Duration(dist*2/soundCMPerMicro) * time.Microsecond
	if timeout > 0 && pulse > timeout {
		return 0, fmt.Errorf("ranger: pulse %s exceeds %s: %w", pulse, timeout, ErrEchoTimeout)
	}
	return pulse, nil
}

func (r *simRanger) Distance() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.distCM
}

func (r *simRanger) SetDistance(cm float64) {
	if cm < 0 {
		cm = 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.distCM = cm
}

func (r *simRanger) Nudge(deltaCM float64) {
	r.SetDistance(r.Distance() + deltaCM)
}

func (r *simRanger) Fault() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.fault
}

func (r *simRanger) SetFault(fault bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fault = fault
}
