// Package core defines core types with zero external dependencies.
package core

import "time"

// Neighbor is the decoded state of another rover observed via a swarm
// advertisement frame. Values are created once per decoded frame and
// handed off over a channel; the receiver owns them outright.
type Neighbor struct {
	Timestamp      time.Time // capture instant, set by the decoder
	RSSI           int16     // signal strength, filled by the discovery layer
	MAC            string    // AA:BB:CC:DD:EE:FF, filled by the discovery layer
	ManufacturerID uint16    // filled by the discovery layer
	Identifier     uint8     // payload byte 0
	State          bool      // system enabled flag, top bit of payload byte 1
	Rest           uint8     // remaining work 0..127, low 7 bits of payload byte 1
	PiTemp         uint8     // board temperature, payload byte 2
	Mode           Mode      // active behavior of the originating rover, payload byte 3
	Msg            uint8     // message vocabulary value, payload byte 4
	Dest           uint8     // routing/target field, payload byte 5
}

// RoverState is this rover's own state as consumed by pilots each control
// tick and packed into outward advertisement frames.
type RoverState struct {
	Identifier uint8
	Enabled    bool
	Rest       uint8 // remaining work 0..127
	PiTemp     float64
	Mode       Mode
	Msg        uint8
	Dest       uint8
}
