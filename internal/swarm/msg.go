package swarm

// ChildMsg is a child→parent swarm message. The vocabulary is closed;
// decoding is total over all byte values so a garbled frame never aborts
// processing.
type ChildMsg uint8

const (
	ChildHalt             ChildMsg = 0
	ChildBumped           ChildMsg = 1
	ChildPersonFoundPause ChildMsg = 2
	ChildReachTarget      ChildMsg = 3
	ChildTargetLost       ChildMsg = 4
	ChildNewTargetFound   ChildMsg = 5
	ChildFromCwToCcw      ChildMsg = 6
	ChildPiTempHighHalt   ChildMsg = 7
	ChildMissionComplete  ChildMsg = 8
	ChildTargetNotFound   ChildMsg = 9
	ChildLeaderWaiting    ChildMsg = 10
	ChildTrailerPrepared  ChildMsg = 11
	ChildClimbUp          ChildMsg = 12
	ChildClimbDown        ChildMsg = 13
	ChildAck              ChildMsg = 14
	ChildPersonFoundWarn  ChildMsg = 15
	ChildAnimalFound      ChildMsg = 16
	ChildUnknown          ChildMsg = 255
)

// ChildMsgFromByte maps a wire value to a ChildMsg; unmapped codes yield
// ChildUnknown.
func ChildMsgFromByte(b uint8) ChildMsg {
	if b <= 16 {
		return ChildMsg(b)
	}
	return ChildUnknown
}

// Byte returns the wire value; ChildUnknown and unmapped values map to
// the 255 sentinel.
func (m ChildMsg) Byte() uint8 {
	if m <= 16 {
		return uint8(m)
	}
	return 255
}

// ParentMsg is a parent→child swarm command. Ids 8 and 9 are
// deliberately unassigned; movement commands end at 7 and mode-switch
// commands start at 10.
type ParentMsg uint8

const (
	ParentOff           ParentMsg = 0
	ParentOn            ParentMsg = 1
	ParentReset         ParentMsg = 2
	ParentStop          ParentMsg = 3
	ParentForward       ParentMsg = 4
	ParentBackward      ParentMsg = 5
	ParentLeft          ParentMsg = 6
	ParentRight         ParentMsg = 7
	ParentFill          ParentMsg = 10
	ParentOneway        ParentMsg = 11
	ParentClimb         ParentMsg = 12
	ParentAround        ParentMsg = 13
	ParentMonitorPerson ParentMsg = 14
	ParentMonitorAnimal ParentMsg = 15
	ParentRoundTrip     ParentMsg = 16
	ParentFollowPerson  ParentMsg = 17
	ParentUnknown       ParentMsg = 255
)

// ParentMsgFromByte maps a wire value to a ParentMsg; unmapped codes
// yield ParentUnknown.
func ParentMsgFromByte(b uint8) ParentMsg {
	if b <= 7 || (b >= 10 && b <= 17) {
		return ParentMsg(b)
	}
	return ParentUnknown
}

// Byte returns the wire value; ParentUnknown and unmapped values map to
// the 255 sentinel.
func (m ParentMsg) Byte() uint8 {
	if m <= 7 || (m >= 10 && m <= 17) {
		return uint8(m)
	}
	return 255
}
