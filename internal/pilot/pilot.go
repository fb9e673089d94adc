// Package pilot implements the behavior-arbitration framework. A pilot
// is a named autonomous behavior invoked once per control tick with the
// rover's own state, the shared actuator handle, the current detections,
// a feedback channel to the perception subsystem, and static
// configuration. A mandatory safety gate runs before any behavior logic
// and cannot be omitted by a new pilot.
package pilot

import (
	"sync"

	"github.com/roverswarm/rover/internal/config"
	"github.com/roverswarm/rover/internal/core"
	"github.com/roverswarm/rover/internal/device"
	"github.com/roverswarm/rover/internal/log"
	"github.com/roverswarm/rover/internal/vision"
)

// Handler is the uniform behavior contract. Implementations own private
// mutable state that persists across ticks; instances are constructed
// once and reused. The caller serializes invocations — handlers are not
// re-entrant.
//
// A handler must not block for unbounded time: one invocation per
// control tick.
type Handler interface {
	Handle(st *core.RoverState, dev device.Controller, detections []vision.Detection,
		visionCh chan<- vision.Command, conf *config.Config)
}

// Risk classifies the outcome of the safety pre-check.
type Risk uint8

const (
	RiskNone Risk = iota
	RiskStateOff
	RiskHighTemp
)

// AssessRisk runs the behavior-independent safety check. A high
// temperature additionally triggers the "high_temp" voice warning.
func AssessRisk(st *core.RoverState, dev device.Controller, tempLimit float64) Risk {
	if !st.Enabled {
		return RiskStateOff
	}
	if st.PiTemp > tempLimit {
		dev.Speak("high_temp")
		return RiskHighTemp
	}
	return RiskNone
}

// Dispatch invokes the handler registered for the rover's current mode,
// gated by the mandatory safety check. On any risk the rover is stopped
// immediately and the behavior body is skipped for this tick.
func Dispatch(st *core.RoverState, dev device.Controller, detections []vision.Detection,
	visionCh chan<- vision.Command, conf *config.Config) error {
	h, ok := Lookup(st.Mode)
	if !ok {
		return core.ErrNoPilot
	}

	if risk := AssessRisk(st, dev, conf.Safety.TempLimit); risk != RiskNone {
		log.GetLogger().Debugf("safety gate tripped (risk=%d), stopping", risk)
		dev.Stop()
		return nil
	}

	h.Handle(st, dev, detections, visionCh, conf)
	return nil
}

var (
	registryMu sync.RWMutex
	registry   = make(map[core.Mode]Handler)
)

// Register binds a handler instance to a mode. The instance is reused
// for every tick spent in that mode.
func Register(mode core.Mode, h Handler) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[mode] = h
}

// Lookup returns the handler registered for a mode.
func Lookup(mode core.Mode) (Handler, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	h, ok := registry[mode]
	return h, ok
}

// RegisterDefaults installs the built-in pilots.
func RegisterDefaults() {
	Register(core.ModeMonitorPerson, NewMonitorPerson())
}
