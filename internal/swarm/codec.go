// Package swarm implements the advertisement wire protocol and the
// discovery radio for the rover fleet. Rovers exchange compact state
// records as manufacturer-specific BLE advertisement payloads under
// company id 0xFFFF; there is no connection-oriented transport.
package swarm

import (
	"fmt"
	"strings"
	"time"

	"github.com/roverswarm/rover/internal/core"
)

const (
	// CompanyID is the manufacturer/company id carried by swarm frames.
	// Frames under any other id are discarded before decoding.
	CompanyID uint16 = 0xFFFF

	// framePrefixLen is the number of filler bytes preceding the state
	// record in a manufacturer-data payload as delivered by the
	// discovery layer.
	framePrefixLen = 3

	// frameBodyLen is the fixed length of the state record.
	frameBodyLen = 6

	minPayloadLen = framePrefixLen + frameBodyLen
)

// advHeader is the fixed advertising-structure header sent ahead of the
// payload: total length 0x1E, flags AD element (02 01 06), then the
// manufacturer-specific AD element (length 0x1A, type FF, company FF FF).
var advHeader = []string{"1E", "02", "01", "06", "1A", "FF", "FF", "FF"}

// DecodeNeighbor decodes a manufacturer-data advertisement payload into a
// Neighbor. The payload must carry at least the 3-byte framing prefix and
// the 6-byte state record; shorter payloads yield ErrPayloadTooShort and
// the frame is dropped by the caller. Body layout after the prefix:
//
//	offset 0  identifier
//	offset 1  packed(state:1 | rest:7)
//	offset 2  pi_temp
//	offset 3  mode
//	offset 4  msg
//	offset 5  dest
//
// MAC, ManufacturerID and RSSI are not part of the payload; the discovery
// layer fills them from the surrounding adapter event.
func DecodeNeighbor(payload []byte) (core.Neighbor, error) {
	if len(payload) < minPayloadLen {
		return core.Neighbor{}, fmt.Errorf("%w: got %d bytes, need %d",
			core.ErrPayloadTooShort, len(payload), minPayloadLen)
	}

	body := payload[framePrefixLen:]
	state, rest := SplitStateRest(body[1])

	return core.Neighbor{
		Timestamp:  time.Now(),
		Identifier: body[0],
		State:      state,
		Rest:       rest,
		PiTemp:     body[2],
		Mode:       core.ModeFromByte(body[3]),
		Msg:        body[4],
		Dest:       body[5],
	}, nil
}

// SplitStateRest unpacks the state flag and the 7-bit rest value from one
// byte: state is (b>>7)&1, rest is b&0x7F.
func SplitStateRest(b byte) (state bool, rest uint8) {
	return (b>>7)&1 != 0, b & 0x7F
}

// PackStateRest packs the state flag and rest into one byte. Rest values
// above 127 are structurally unrepresentable on the wire and are masked
// to their low 7 bits.
func PackStateRest(state bool, rest uint8) byte {
	b := rest & 0x7F
	if state {
		b |= 0x80
	}
	return b
}

// PackState renders the rover's own state as the 5 body bytes that follow
// the identifier in an outward frame.
func PackState(st core.RoverState) []byte {
	return []byte{
		PackStateRest(st.Enabled, st.Rest),
		uint8(st.PiTemp),
		st.Mode.Byte(),
		st.Msg,
		st.Dest,
	}
}

// EncodeAdvertisement renders the advertising payload as the token
// sequence consumed by the adapter's vendor-command primitive: the fixed
// header, the identifier, then every data byte as a two-digit uppercase
// hex token.
func EncodeAdvertisement(identifier uint8, data []byte) []string {
	tokens := make([]string, 0, len(advHeader)+1+len(data))
	tokens = append(tokens, advHeader...)
	tokens = append(tokens, fmt.Sprintf("%02X", identifier))
	for _, b := range data {
		tokens = append(tokens, fmt.Sprintf("%02X", b))
	}
	return tokens
}

// NormalizeMAC converts an adapter-native identity string of the form
// "<adapter>/dev_AA_BB_CC_DD_EE_FF" into standard colon-separated MAC
// notation.
func NormalizeMAC(id string) string {
	if i := strings.Index(id, "/dev_"); i != -1 {
		id = id[i+len("/dev_"):]
	}
	return strings.ReplaceAll(id, "_", ":")
}
