package swarm

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roverswarm/rover/internal/core"
)

type fakeAdapter struct {
	mu        sync.Mutex
	name      string
	events    chan AdapterEvent
	commands  [][]string
	scanning  bool
	failFirst int // fail this many vendor commands before succeeding
}

func newFakeAdapter(name string) *fakeAdapter {
	return &fakeAdapter{name: name, events: make(chan AdapterEvent, 32)}
}

func (a *fakeAdapter) Name() string { return a.name }

func (a *fakeAdapter) Events(ctx context.Context) (<-chan AdapterEvent, error) {
	return a.events, nil
}

func (a *fakeAdapter) StartScan() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.scanning = true
	return nil
}

func (a *fakeAdapter) VendorCommand(args ...string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.failFirst > 0 {
		a.failFirst--
		return core.ErrRadioCommand
	}
	a.commands = append(a.commands, args)
	return nil
}

func (a *fakeAdapter) commandCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.commands)
}

func (a *fakeAdapter) lastCommand() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.commands) == 0 {
		return nil
	}
	return a.commands[len(a.commands)-1]
}

type fakeManager struct {
	adapters []Adapter
	err      error
}

func (m *fakeManager) Adapters() ([]Adapter, error) { return m.adapters, m.err }

func swarmFrame(identifier uint8, body ...byte) []byte {
	return append([]byte{0xFF, 0xFF, 0xFF, identifier}, body...)
}

func TestNewSwarmRadioNoAdapter(t *testing.T) {
	_, err := NewSwarmRadio(&fakeManager{}, "")
	assert.ErrorIs(t, err, core.ErrNoAdapter)
}

func TestNewSwarmRadioUnknownAdapterName(t *testing.T) {
	mgr := &fakeManager{adapters: []Adapter{newFakeAdapter("hci0")}}
	_, err := NewSwarmRadio(mgr, "hci9")
	assert.ErrorIs(t, err, core.ErrNoAdapter)
}

func TestNewSwarmRadioConfiguresAdvertising(t *testing.T) {
	a := newFakeAdapter("hci0")
	_, err := NewSwarmRadio(&fakeManager{adapters: []Adapter{a}}, "")
	require.NoError(t, err)

	// Two vendor commands: advertising parameters, then enable.
	require.Equal(t, 2, a.commandCount())
	assert.Equal(t, cmdAdvParams, a.commands[0])
	assert.Equal(t, cmdAdvEnable, a.commands[1])
}

func TestNewSwarmRadioSelectsNamedAdapter(t *testing.T) {
	a0 := newFakeAdapter("hci0")
	a1 := newFakeAdapter("hci1")
	r, err := NewSwarmRadio(&fakeManager{adapters: []Adapter{a0, a1}}, "hci1")
	require.NoError(t, err)

	assert.Equal(t, "hci1", r.adapter.Name())
	assert.Equal(t, 0, a0.commandCount())
	assert.Equal(t, 2, a1.commandCount())
}

func TestConfigureRetriesTransientFailure(t *testing.T) {
	a := newFakeAdapter("hci0")
	a.failFirst = 1 // first parameter command fails, retry succeeds

	_, err := NewSwarmRadio(&fakeManager{adapters: []Adapter{a}}, "")
	require.NoError(t, err)
	assert.Equal(t, 2, a.commandCount())
}

func TestListenForwardsOnlySwarmFrames(t *testing.T) {
	a := newFakeAdapter("hci0")
	r, err := NewSwarmRadio(&fakeManager{adapters: []Adapter{a}}, "")
	require.NoError(t, err)

	a.events <- AdapterEvent{Kind: EventDiscovered, DeviceID: "hci0/dev_01_02_03_04_05_06"}
	a.events <- AdapterEvent{ // wrong company id, never forwarded
		Kind:           EventManufacturerData,
		DeviceID:       "hci0/dev_01_02_03_04_05_06",
		ManufacturerID: 0x004C,
		Data:           swarmFrame(1, 0x85, 0x2A, 0x0E, 0x0F, 0x00),
	}
	a.events <- AdapterEvent{
		Kind:           EventManufacturerData,
		DeviceID:       "hci0/dev_AA_BB_CC_DD_EE_FF",
		ManufacturerID: CompanyID,
		Data:           swarmFrame(1, 0x85, 0x2A, 0x0E, 0x0F, 0x00),
		RSSI:           -42,
	}
	a.events <- AdapterEvent{ // malformed: dropped, stream continues
		Kind:           EventManufacturerData,
		DeviceID:       "hci0/dev_AA_BB_CC_DD_EE_FF",
		ManufacturerID: CompanyID,
		Data:           []byte{0xFF, 0xFF},
	}
	a.events <- AdapterEvent{
		Kind:           EventManufacturerData,
		DeviceID:       "hci0/dev_11_22_33_44_55_66",
		ManufacturerID: CompanyID,
		Data:           swarmFrame(2, 0x05, 0x30, 0x10, 0x03, 0x01),
		RSSI:           -60,
	}
	close(a.events)

	out := make(chan core.Neighbor, 8)
	errCh := make(chan error, 1)
	go func() { errCh <- r.Listen(context.Background(), out) }()

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, core.ErrScanStopped)
	case <-time.After(2 * time.Second):
		t.Fatal("Listen did not terminate after event stream closed")
	}

	a.mu.Lock()
	scanning := a.scanning
	a.mu.Unlock()
	assert.True(t, scanning, "Listen must start scanning")

	require.Equal(t, 2, len(out), "exactly two frames must be forwarded")
	got := []core.Neighbor{<-out, <-out}

	// Arrival order preserved, discovery fields filled.
	assert.Equal(t, "AA:BB:CC:DD:EE:FF", got[0].MAC)
	assert.Equal(t, CompanyID, got[0].ManufacturerID)
	assert.Equal(t, int16(-42), got[0].RSSI)
	assert.Equal(t, uint8(1), got[0].Identifier)
	assert.True(t, got[0].State)
	assert.Equal(t, uint8(5), got[0].Rest)

	assert.Equal(t, "11:22:33:44:55:66", got[1].MAC)
	assert.Equal(t, uint8(2), got[1].Identifier)
	assert.False(t, got[1].State)
}

func TestListenStopsOnContextCancel(t *testing.T) {
	a := newFakeAdapter("hci0")
	r, err := NewSwarmRadio(&fakeManager{adapters: []Adapter{a}}, "")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- r.Listen(ctx, make(chan core.Neighbor)) }()

	cancel()
	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Listen did not terminate on cancel")
	}
}

func TestCastOverwritesAdvertisingPayload(t *testing.T) {
	a := newFakeAdapter("hci0")
	r, err := NewSwarmRadio(&fakeManager{adapters: []Adapter{a}}, "")
	require.NoError(t, err)

	require.NoError(t, r.Cast(0x02, []byte{0x85, 0x2A, 0x0E, 0x0F, 0x01}))

	want := []string{
		"cmd", "0x08", "0x0008",
		"1E", "02", "01", "06", "1A", "FF", "FF", "FF",
		"02", "85", "2A", "0E", "0F", "01",
	}
	assert.Equal(t, want, a.lastCommand())

	// A second cast replaces the payload with another full command.
	require.NoError(t, r.Cast(0x02, []byte{0x05, 0x2A, 0x0E, 0x0F, 0x01}))
	assert.Equal(t, 4, a.commandCount()) // 2 configure + 2 cast
}
