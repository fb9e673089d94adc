// Package agent wires the radio, fleet registry, actuator and pilot
// framework into the long-running coordination loop.
package agent

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/roverswarm/rover/internal/config"
	"github.com/roverswarm/rover/internal/core"
	"github.com/roverswarm/rover/internal/device"
	"github.com/roverswarm/rover/internal/fleet"
	"github.com/roverswarm/rover/internal/log"
	"github.com/roverswarm/rover/internal/pilot"
	"github.com/roverswarm/rover/internal/swarm"
	"github.com/roverswarm/rover/internal/vision"
)

const thermalZonePath = "/sys/class/thermal/thermal_zone0/temp"

// DetectionSource returns the current detection snapshot. The perception
// subsystem provides the real one; nil means no detections.
type DetectionSource func() []vision.Detection

// Agent is the coordination runtime of one rover.
type Agent struct {
	cfg      *config.Config
	radio    *swarm.SwarmRadio
	dev      *device.Rover
	fleet    *fleet.Registry
	state    core.RoverState
	detect   DetectionSource
	visionCh chan vision.Command
	log      log.Logger
}

// New builds the agent: adapter selection and advertising configuration
// happen here, so a dead radio fails fast.
func New(cfg *config.Config, detect DetectionSource) (*Agent, error) {
	radio, err := swarm.NewSwarmRadio(swarm.NewHCIManager(), cfg.Radio.Adapter)
	if err != nil {
		return nil, fmt.Errorf("radio construction failed: %w", err)
	}

	pilot.RegisterDefaults()

	if detect == nil {
		detect = func() []vision.Detection { return nil }
	}

	return &Agent{
		cfg:    cfg,
		radio:  radio,
		dev:    device.NewRover(nil, cfg.Device.AudioDir),
		fleet:  fleet.NewRegistry(cfg.NeighborTTL()),
		detect: detect,
		state: core.RoverState{
			Identifier: cfg.Node.Identifier,
			Enabled:    true,
			Rest:       100,
			Mode:       core.ModeMonitorPerson,
		},
		visionCh: make(chan vision.Command, 8),
		log:      log.GetLogger().WithField("component", "agent"),
	}, nil
}

// Fleet exposes the aggregated neighbor state.
func (a *Agent) Fleet() *fleet.Registry { return a.fleet }

// Run starts the discovery worker and the control tick loop and blocks
// until the context is cancelled.
func (a *Agent) Run(ctx context.Context) error {
	neighbors := make(chan core.Neighbor, a.cfg.Radio.ChannelBuffer)

	go func() {
		err := a.radio.Listen(ctx, neighbors)
		if err != nil && !errors.Is(err, context.Canceled) {
			a.log.WithError(err).Error("discovery worker terminated")
		}
		close(neighbors)
	}()
	go a.fleet.Intake(ctx, neighbors)

	ticker := time.NewTicker(a.cfg.TickInterval())
	defer ticker.Stop()

	a.log.Infof("agent running: node=%s role=%s id=%d",
		a.cfg.Node.Name, a.cfg.Node.Role, a.state.Identifier)

	for {
		select {
		case <-ctx.Done():
			a.dev.Stop()
			return ctx.Err()
		case <-ticker.C:
			a.tick()
		}
	}
}

// tick runs one control cycle: refresh own state, dispatch the active
// pilot, broadcast the resulting outward state.
func (a *Agent) tick() {
	if temp, err := readBoardTemp(); err == nil {
		a.state.PiTemp = temp
	}

	if err := pilot.Dispatch(&a.state, a.dev, a.detect(), a.visionCh, a.cfg); err != nil {
		a.log.WithError(err).Debugf("no pilot for mode %s", a.state.Mode)
	}

	if err := a.radio.Cast(a.state.Identifier, swarm.PackState(a.state)); err != nil {
		a.log.WithError(err).Warn("state broadcast failed")
	}
}

// readBoardTemp reads the SoC temperature in Celsius from the kernel
// thermal zone (millidegrees on disk).
func readBoardTemp() (float64, error) {
	raw, err := os.ReadFile(thermalZonePath)
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(strings.TrimSpace(string(raw)))
	if err != nil {
		return 0, err
	}
	return float64(v) / 1000.0, nil
}
