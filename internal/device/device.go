// Package device exposes the actuator capability shared by the discovery
// worker and the pilots.
package device

import (
	"os/exec"
	"path/filepath"
	"sync"

	"github.com/roverswarm/rover/internal/log"
)

// Controller is the actuator capability consumed by pilots.
type Controller interface {
	// Stop halts all drive motion immediately.
	Stop()
	// Speak plays the voice clip registered under tag.
	Speak(tag string)
}

// Motor issues raw drive commands. The concrete implementation lives
// with the motor driver; NopMotor stands in when none is attached.
type Motor interface {
	Halt() error
}

// NopMotor is a Motor with no hardware behind it.
type NopMotor struct{}

func (NopMotor) Halt() error { return nil }

// Rover is the shared actuator handle. One handle is reference-shared
// between the discovery worker and every pilot invocation; each command
// acquires the internal lock, executes, and releases immediately. No
// critical section spans more than one command.
type Rover struct {
	mu       sync.Mutex
	motor    Motor
	audioDir string
	log      log.Logger
}

// NewRover creates the shared actuator handle.
func NewRover(motor Motor, audioDir string) *Rover {
	if motor == nil {
		motor = NopMotor{}
	}
	return &Rover{
		motor:    motor,
		audioDir: audioDir,
		log:      log.GetLogger().WithField("component", "device"),
	}
}

// Stop halts the drive motors.
func (r *Rover) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.motor.Halt(); err != nil {
		r.log.WithError(err).Error("motor halt failed")
	}
}

// Speak plays <audioDir>/<tag>.wav. Playback failures are logged and
// otherwise ignored; voice output is best effort.
func (r *Rover) Speak(tag string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	clip := filepath.Join(r.audioDir, tag+".wav")
	if err := exec.Command("aplay", "-q", clip).Run(); err != nil {
		r.log.WithError(err).Warnf("failed to play %s", clip)
	}
}
