package service

import (
	"log"
	"sync/atomic"
)

// FitState tracks the lifecycle of the background model fit.
type FitState int32

const (
	StateNew FitState = iota
	StateFitting
	StateFitted
	StateFitFailed
)

// ReadinessGate is the one piece of process-wide mutable state: it records
// whether the models are usable and is read by every request handler. The
// state lives in a single atomic value so a reader can never observe fitted
// and fitting out of sync.
type ReadinessGate struct {
	state atomic.Int32
}

// NewReadinessGate returns a gate in StateNew.
func NewReadinessGate() *ReadinessGate {
	return &ReadinessGate{}
}

// State returns the current fit state.
func (g *ReadinessGate) State() FitState {
	return FitState(g.state.Load())
}

// Ready reports whether prediction requests may be served.
func (g *ReadinessGate) Ready() bool {
	return g.State() == StateFitted
}

// Status returns the fitted/fitting flag pair from a single snapshot.
func (g *ReadinessGate) Status() (fitted, fitting bool) {
	s := g.State()
	return s == StateFitted, s == StateFitting
}

// StartFit launches fit in a background goroutine. Only the first call has an
// effect; later calls, including concurrent ones, return false without
// restarting the fit. A fit error leaves the gate permanently in
// StateFitFailed and the service keeps rejecting requests as not ready.
func (g *ReadinessGate) StartFit(fit func() error) bool {
	if !g.state.CompareAndSwap(int32(StateNew), int32(StateFitting)) {
		return false
	}
	go func() {
		if err := fit(); err != nil {
			log.Printf("model fit failed: %v", err)
			g.state.Store(int32(StateFitFailed))
			return
		}
		g.state.Store(int32(StateFitted))
	}()
	return true
}
