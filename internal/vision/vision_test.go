package vision

import "testing"

func TestFilterClass(t *testing.T) {
	dets := []Detection{
		{Class: ClassPerson, Confidence: 0.9},
		{Class: ClassAnimal, Confidence: 0.8},
		{Class: ClassPerson, Confidence: 0.5},
		{Class: ClassPylon, Confidence: 0.7},
	}

	persons := FilterClass(dets, ClassPerson)
	if len(persons) != 2 {
		t.Fatalf("Expected 2 person detections, got %d", len(persons))
	}
	for _, d := range persons {
		if d.Class != ClassPerson {
			t.Errorf("Expected only person detections, got class %d", d.Class)
		}
	}

	if got := FilterClass(dets, ClassRover); got != nil {
		t.Errorf("Expected nil for class with no hits, got %v", got)
	}
	if got := FilterClass(nil, ClassPerson); got != nil {
		t.Errorf("Expected nil for nil input, got %v", got)
	}
}
