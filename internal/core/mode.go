package core

// Mode selects the active behavior of a rover. Wire values share the id
// space of parent mode-switch commands so a mode broadcast by the leader
// maps directly onto the follower's selector.
type Mode uint8

const (
	ModeFill          Mode = 10
	ModeOneway        Mode = 11
	ModeClimb         Mode = 12
	ModeAround        Mode = 13
	ModeMonitorPerson Mode = 14
	ModeMonitorAnimal Mode = 15
	ModeRoundTrip     Mode = 16
	ModeFollowPerson  Mode = 17
	ModeUnknown       Mode = 255
)

// ModeFromByte is total over all byte values; unmapped codes yield
// ModeUnknown so a garbled frame never aborts decoding.
func ModeFromByte(b uint8) Mode {
	switch Mode(b) {
	case ModeFill, ModeOneway, ModeClimb, ModeAround,
		ModeMonitorPerson, ModeMonitorAnimal, ModeRoundTrip, ModeFollowPerson:
		return Mode(b)
	default:
		return ModeUnknown
	}
}

// Byte returns the wire value of the mode. ModeUnknown and any unmapped
// value map to the 255 sentinel.
func (m Mode) Byte() uint8 {
	switch m {
	case ModeFill, ModeOneway, ModeClimb, ModeAround,
		ModeMonitorPerson, ModeMonitorAnimal, ModeRoundTrip, ModeFollowPerson:
		return uint8(m)
	default:
		return 255
	}
}

func (m Mode) String() string {
	switch m {
	case ModeFill:
		return "fill"
	case ModeOneway:
		return "oneway"
	case ModeClimb:
		return "climb"
	case ModeAround:
		return "around"
	case ModeMonitorPerson:
		return "monitor_person"
	case ModeMonitorAnimal:
		return "monitor_animal"
	case ModeRoundTrip:
		return "round_trip"
	case ModeFollowPerson:
		return "follow_person"
	default:
		return "unknown"
	}
}
