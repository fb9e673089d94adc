package swarm

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/roverswarm/rover/internal/log"
)

// HCI packet and event codes needed to recognize LE advertising reports
// in a raw dump.
const (
	hciPacketEvent    = 0x04
	hciEventLEMeta    = 0x3E
	leSubeventAdvRpt  = 0x02
	adTypeFlags       = 0x01
	adTypeMfrSpecific = 0xFF
)

// streamEvents reads raw hcidump output and emits one AdapterEvent per
// recognized report, strictly in arrival order. Unparseable packets are
// skipped; they are not an error condition for the stream.
func streamEvents(ctx context.Context, adapter string, r io.Reader, out chan<- AdapterEvent, logger log.Logger) {
	scanner := bufio.NewScanner(r)
	var pkt []byte

	flush := func() {
		if len(pkt) == 0 {
			return
		}
		for _, ev := range parseAdvReport(adapter, pkt) {
			select {
			case out <- ev:
			case <-ctx.Done():
				return
			}
		}
		pkt = nil
	}

	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}
		line := scanner.Text()
		if len(line) == 0 {
			continue
		}
		// A new packet starts with a direction marker; continuation
		// lines are indented hex.
		if line[0] == '>' || line[0] == '<' {
			flush()
			if line[0] == '<' {
				continue // outbound, not a discovery event
			}
			pkt = appendHexBytes(pkt, line[1:])
		} else if pkt != nil {
			pkt = appendHexBytes(pkt, line)
		}
	}
	flush()

	if err := scanner.Err(); err != nil && ctx.Err() == nil {
		logger.WithError(err).Warn("hcidump stream read failed")
	}
}

// appendHexBytes appends every two-digit hex token on the line.
func appendHexBytes(dst []byte, line string) []byte {
	for _, tok := range strings.Fields(line) {
		if len(tok) != 2 {
			continue
		}
		v, err := strconv.ParseUint(tok, 16, 8)
		if err != nil {
			continue
		}
		dst = append(dst, byte(v))
	}
	return dst
}

// parseAdvReport extracts advertising reports from one raw HCI packet.
// Layout: 04 3E <plen> 02 <nrpt> then per report: evtype, addrtype,
// addr(6, little endian), dlen, data..., rssi.
func parseAdvReport(adapter string, pkt []byte) []AdapterEvent {
	if len(pkt) < 6 || pkt[0] != hciPacketEvent || pkt[1] != hciEventLEMeta || pkt[3] != leSubeventAdvRpt {
		return nil
	}

	var events []AdapterEvent
	n := int(pkt[4])
	off := 5
	for i := 0; i < n; i++ {
		if off+9 > len(pkt) {
			break
		}
		addr := pkt[off+2 : off+8]
		dlen := int(pkt[off+8])
		off += 9
		if off+dlen+1 > len(pkt) {
			break
		}
		data := pkt[off : off+dlen]
		rssi := int16(int8(pkt[off+dlen]))
		off += dlen + 1

		deviceID := deviceIDFor(adapter, addr)
		ev, ok := manufacturerEvent(deviceID, data, rssi)
		if !ok {
			// Reports without a manufacturer AD element surface as a
			// plain discovery observation.
			ev = AdapterEvent{Kind: EventDiscovered, DeviceID: deviceID, RSSI: rssi}
		}
		events = append(events, ev)
	}
	return events
}

// manufacturerEvent locates the manufacturer-specific AD element inside
// the advertising data. The AD type byte and the two company-id bytes are
// kept as the payload's 3-byte framing prefix; the codec skips them.
func manufacturerEvent(deviceID string, data []byte, rssi int16) (AdapterEvent, bool) {
	off := 0
	for off < len(data) {
		l := int(data[off])
		if l == 0 || off+1+l > len(data) {
			break
		}
		typ := data[off+1]
		content := data[off+1 : off+1+l] // type byte included
		if typ == adTypeMfrSpecific && len(content) >= 3 {
			company := uint16(content[1]) | uint16(content[2])<<8
			return AdapterEvent{
				Kind:           EventManufacturerData,
				DeviceID:       deviceID,
				ManufacturerID: company,
				Data:           content,
				RSSI:           rssi,
			}, true
		}
		off += 1 + l
	}
	return AdapterEvent{}, false
}

// deviceIDFor renders the adapter-native identity string for a wire
// address (little endian on the wire).
func deviceIDFor(adapter string, addr []byte) string {
	return fmt.Sprintf("%s/dev_%02X_%02X_%02X_%02X_%02X_%02X",
		adapter, addr[5], addr[4], addr[3], addr[2], addr[1], addr[0])
}
