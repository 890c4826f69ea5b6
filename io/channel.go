// Package io provides the program and data image formats, and the
// channels that observe the system bus of the emulator.
package io

// Channel receives every value latched onto the system bus.
type Channel interface {
	// Rewind resets the channel to its initial state.
	Rewind()
	// Send a single bus value to the channel.
	Send(value uint8) error
}
