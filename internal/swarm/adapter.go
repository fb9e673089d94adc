package swarm

import "context"

// EventKind classifies adapter discovery events. Only manufacturer-data
// advertisements carry swarm frames; every other kind is observed and
// never forwarded.
type EventKind uint8

const (
	EventDiscovered EventKind = iota
	EventConnected
	EventDisconnected
	EventManufacturerData
	EventServiceData
	EventServices
)

func (k EventKind) String() string {
	switch k {
	case EventDiscovered:
		return "discovered"
	case EventConnected:
		return "connected"
	case EventDisconnected:
		return "disconnected"
	case EventManufacturerData:
		return "manufacturer_data"
	case EventServiceData:
		return "service_data"
	case EventServices:
		return "services"
	default:
		return "unknown"
	}
}

// AdapterEvent is one discovery event delivered by the adapter
// subscription, in arrival order.
type AdapterEvent struct {
	Kind           EventKind
	DeviceID       string // adapter-native identity, e.g. "hci0/dev_AA_BB_CC_DD_EE_FF"
	ManufacturerID uint16 // company id, manufacturer-data events only
	Data           []byte // manufacturer payload, manufacturer-data events only
	RSSI           int16
}

// Adapter is the narrow radio capability the swarm layer depends on. The
// physical stack is reached exclusively through opaque vendor commands
// and an event subscription; core logic stays agnostic to how either is
// physically issued.
type Adapter interface {
	// Name returns the adapter identifier, e.g. "hci0".
	Name() string
	// Events subscribes to discovery events. The channel is closed when
	// the subscription ends; events arrive strictly in order.
	Events(ctx context.Context) (<-chan AdapterEvent, error)
	// StartScan puts the adapter into passive discovery.
	StartScan() error
	// VendorCommand issues one opaque vendor command.
	VendorCommand(args ...string) error
}

// Manager enumerates available adapters.
type Manager interface {
	Adapters() ([]Adapter, error)
}
