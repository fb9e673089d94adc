package swarm

import (
	"context"
	"fmt"
	"time"

	"github.com/roverswarm/rover/internal/core"
	"github.com/roverswarm/rover/internal/log"
)

const (
	configureAttempts = 3
	configureBackoff  = 500 * time.Millisecond
)

// SwarmRadio owns one bluetooth adapter: it programs advertising at
// construction, runs the discovery worker, and exposes the broadcast
// primitive used to publish this rover's own state.
type SwarmRadio struct {
	adapter Adapter
	log     log.Logger
}

// NewSwarmRadio selects an adapter (the named one, or the first
// available) and programs its advertising parameters. Configuration is
// retried with backoff; a structured error is returned once attempts are
// exhausted.
func NewSwarmRadio(mgr Manager, adapterName string) (*SwarmRadio, error) {
	adapters, err := mgr.Adapters()
	if err != nil {
		return nil, fmt.Errorf("adapter enumeration failed: %w", err)
	}
	if len(adapters) == 0 {
		return nil, core.ErrNoAdapter
	}

	adapter := adapters[0]
	if adapterName != "" {
		adapter = nil
		for _, a := range adapters {
			if a.Name() == adapterName {
				adapter = a
				break
			}
		}
		if adapter == nil {
			return nil, fmt.Errorf("%w: adapter %q not found", core.ErrNoAdapter, adapterName)
		}
	}

	r := &SwarmRadio{
		adapter: adapter,
		log:     log.GetLogger().WithField("adapter", adapter.Name()),
	}
	if err := r.configure(); err != nil {
		return nil, err
	}
	return r, nil
}

// configure programs the advertising interval parameters and enables
// advertising, retrying each vendor command with doubling backoff.
func (r *SwarmRadio) configure() error {
	if err := r.retryCommand("advertising parameters", cmdAdvParams); err != nil {
		return err
	}
	return r.retryCommand("advertising enable", cmdAdvEnable)
}

func (r *SwarmRadio) retryCommand(what string, args []string) error {
	backoff := configureBackoff
	var err error
	for attempt := 1; attempt <= configureAttempts; attempt++ {
		err = r.adapter.VendorCommand(args...)
		if err == nil {
			return nil
		}
		r.log.WithError(err).Warnf("%s failed (attempt %d/%d)", what, attempt, configureAttempts)
		if attempt < configureAttempts {
			time.Sleep(backoff)
			backoff *= 2
		}
	}
	return fmt.Errorf("%s failed after %d attempts: %w", what, configureAttempts, err)
}

// Listen runs the discovery worker until the context is cancelled or the
// event subscription ends. Every manufacturer-data event carrying the
// swarm company id is decoded and delivered on out, strictly in arrival
// order; malformed frames are dropped and the stream continues. All other
// event kinds are observed and never forwarded.
//
// The worker has no alternate delivery path: an unreachable receiver
// (context cancelled while sending) is terminal.
func (r *SwarmRadio) Listen(ctx context.Context, out chan<- core.Neighbor) error {
	events, err := r.adapter.Events(ctx)
	if err != nil {
		return fmt.Errorf("event subscription failed: %w", err)
	}
	if err := r.adapter.StartScan(); err != nil {
		return fmt.Errorf("scan start failed: %w", err)
	}
	r.log.Info("discovery worker started")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return core.ErrScanStopped
			}
			if ev.Kind != EventManufacturerData {
				r.log.Debugf("adapter event: %s %s", ev.Kind, ev.DeviceID)
				continue
			}
			if ev.ManufacturerID != CompanyID {
				continue
			}

			neighbor, err := DecodeNeighbor(ev.Data)
			if err != nil {
				r.log.WithError(err).Warnf("dropping malformed frame from %s", ev.DeviceID)
				continue
			}
			neighbor.MAC = NormalizeMAC(ev.DeviceID)
			neighbor.ManufacturerID = ev.ManufacturerID
			neighbor.RSSI = ev.RSSI

			select {
			case out <- neighbor:
				r.log.Debugf("neighbor %s id=%d msg=%d", neighbor.MAC, neighbor.Identifier, neighbor.Msg)
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}

// Cast overwrites the adapter's currently broadcast payload with the
// encoded identifier+data. It neither starts nor stops advertising;
// callers invoke it whenever outward state changes, each call replacing
// the prior payload.
func (r *SwarmRadio) Cast(identifier uint8, data []byte) error {
	args := append(append([]string{}, cmdAdvData...), EncodeAdvertisement(identifier, data)...)
	if err := r.adapter.VendorCommand(args...); err != nil {
		return fmt.Errorf("cast failed: %w", err)
	}
	return nil
}
