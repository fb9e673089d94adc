package swarm

import "testing"

func TestChildMsgFromByteTotal(t *testing.T) {
	for i := 0; i <= 255; i++ {
		m := ChildMsgFromByte(uint8(i))
		if i <= 16 {
			if uint8(m) != uint8(i) {
				t.Errorf("ChildMsgFromByte(%d): expected mapped value, got %d", i, m)
			}
		} else if m != ChildUnknown {
			t.Errorf("ChildMsgFromByte(%d): expected ChildUnknown, got %d", i, m)
		}
	}
}

func TestChildMsgRoundTrip(t *testing.T) {
	for i := 0; i <= 16; i++ {
		if got := ChildMsgFromByte(uint8(i)).Byte(); got != uint8(i) {
			t.Errorf("ChildMsg round trip %d: got %d", i, got)
		}
	}
	if ChildUnknown.Byte() != 255 {
		t.Errorf("ChildUnknown.Byte(): expected 255, got %d", ChildUnknown.Byte())
	}
	if ChildMsg(42).Byte() != 255 {
		t.Errorf("Unmapped ChildMsg Byte(): expected 255, got %d", ChildMsg(42).Byte())
	}
}

func TestParentMsgFromByteTotal(t *testing.T) {
	mapped := func(i int) bool { return i <= 7 || (i >= 10 && i <= 17) }
	for i := 0; i <= 255; i++ {
		m := ParentMsgFromByte(uint8(i))
		if mapped(i) {
			if uint8(m) != uint8(i) {
				t.Errorf("ParentMsgFromByte(%d): expected mapped value, got %d", i, m)
			}
		} else if m != ParentUnknown {
			t.Errorf("ParentMsgFromByte(%d): expected ParentUnknown, got %d", i, m)
		}
	}
}

func TestParentMsgRoundTrip(t *testing.T) {
	for _, i := range []int{0, 1, 2, 3, 4, 5, 6, 7, 10, 11, 12, 13, 14, 15, 16, 17} {
		if got := ParentMsgFromByte(uint8(i)).Byte(); got != uint8(i) {
			t.Errorf("ParentMsg round trip %d: got %d", i, got)
		}
	}
	// Ids 8 and 9 are deliberate gaps.
	if ParentMsgFromByte(8) != ParentUnknown || ParentMsgFromByte(9) != ParentUnknown {
		t.Error("Expected ids 8 and 9 to be unmapped")
	}
	if ParentUnknown.Byte() != 255 {
		t.Errorf("ParentUnknown.Byte(): expected 255, got %d", ParentUnknown.Byte())
	}
}
