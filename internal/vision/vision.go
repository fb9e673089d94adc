// Package vision declares the boundary types of the perception
// subsystem. Detector inference, image capture and storage live outside
// this agent; pilots only consume detection snapshots and push feedback
// commands.
package vision

// Class identifies a detected object class.
type Class uint32

const (
	ClassPerson Class = iota
	ClassAnimal
	ClassPylon
	ClassRover
)

// Detection is one detector hit from the current frame.
type Detection struct {
	Class      Class
	Confidence float32
	X1, Y1     float32
	X2, Y2     float32
}

// FilterClass returns the detections matching the given class.
func FilterClass(dets []Detection, class Class) []Detection {
	var out []Detection
	for _, d := range dets {
		if d.Class == class {
			out = append(out, d)
		}
	}
	return out
}

// Command is a feedback message to the perception subsystem.
type Command uint8

const (
	CommandPause Command = iota
	CommandResume
	CommandSwitchDetectorUp
	CommandSwitchDetectorDown
)
