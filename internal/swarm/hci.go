package swarm

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"sort"

	"github.com/roverswarm/rover/internal/core"
	"github.com/roverswarm/rover/internal/log"
)

// Vendor command argument vectors for the controller's LE advertising and
// scanning registers. The payloads are opaque to the rest of the agent.
var (
	// Advertising interval 100ms min/max, non-connectable undirected,
	// all channels.
	cmdAdvParams = []string{"cmd", "0x08", "0x0006",
		"A0", "00", "A0", "00", "03", "00", "00", "00",
		"00", "00", "00", "00", "00", "07", "00"}

	// LE Set Advertise Enable = 1.
	cmdAdvEnable = []string{"cmd", "0x08", "0x000a", "01"}

	// LE Set Advertising Data; the payload tokens follow.
	cmdAdvData = []string{"cmd", "0x08", "0x0008"}

	// Passive scanning, 10ms interval/window.
	cmdScanParams = []string{"cmd", "0x08", "0x000b",
		"00", "10", "00", "10", "00", "00", "00"}

	// LE Set Scan Enable = 1, no duplicate filtering.
	cmdScanEnable = []string{"cmd", "0x08", "0x000c", "01", "00"}
)

// HCIManager enumerates bluetooth controllers registered with the kernel.
type HCIManager struct{}

// NewHCIManager creates an adapter manager backed by hcitool/hcidump.
func NewHCIManager() *HCIManager {
	return &HCIManager{}
}

// Adapters lists available controllers in stable order.
func (m *HCIManager) Adapters() ([]Adapter, error) {
	names, err := filepath.Glob("/sys/class/bluetooth/hci*")
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate adapters: %w", err)
	}
	sort.Strings(names)

	adapters := make([]Adapter, 0, len(names))
	for _, n := range names {
		adapters = append(adapters, &hciAdapter{
			name: filepath.Base(n),
			log:  log.GetLogger().WithField("adapter", filepath.Base(n)),
		})
	}
	return adapters, nil
}

// hciAdapter reaches one controller through hcitool for vendor commands
// and hcidump for the discovery event stream.
type hciAdapter struct {
	name string
	log  log.Logger
}

func (a *hciAdapter) Name() string { return a.name }

// VendorCommand issues one opaque vendor command via hcitool.
func (a *hciAdapter) VendorCommand(args ...string) error {
	full := append([]string{"-i", a.name}, args...)
	out, err := exec.Command("hcitool", full...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: hcitool %v: %v: %s", core.ErrRadioCommand, args, err, out)
	}
	return nil
}

// StartScan programs passive scan parameters and enables scanning.
func (a *hciAdapter) StartScan() error {
	if err := a.VendorCommand(cmdScanParams...); err != nil {
		return err
	}
	return a.VendorCommand(cmdScanEnable...)
}

// Events spawns hcidump in raw mode and converts LE advertising reports
// into AdapterEvents. The channel closes when hcidump exits or the
// context is cancelled.
func (a *hciAdapter) Events(ctx context.Context) (<-chan AdapterEvent, error) {
	cmd := exec.CommandContext(ctx, "hcidump", "-i", a.name, "--raw")
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to open hcidump pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start hcidump: %w", err)
	}

	out := make(chan AdapterEvent, 16)
	go func() {
		defer close(out)
		defer func() {
			if err := cmd.Wait(); err != nil && ctx.Err() == nil {
				a.log.WithError(err).Warn("hcidump exited")
			}
		}()
		streamEvents(ctx, a.name, stdout, out, a.log)
	}()
	return out, nil
}
