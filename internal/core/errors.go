// Package core defines sentinel errors.
package core

import "errors"

// Sentinel errors shared across the agent.
var (
	// Advertisement decoding errors
	ErrPayloadTooShort = errors.New("rover: advertisement payload too short")

	// Radio errors
	ErrNoAdapter    = errors.New("rover: no bluetooth adapter available")
	ErrRadioCommand = errors.New("rover: radio vendor command failed")
	ErrScanStopped  = errors.New("rover: discovery scan stopped")

	// Pilot errors
	ErrNoPilot = errors.New("rover: no pilot registered for mode")

	// Configuration errors
	ErrConfigInvalid = errors.New("rover: invalid configuration")
)
