// Package audio handles input device discovery, selection, and PCM capture.
package audio

import "fmt"

// Format is the negotiated capture format descriptor.
type Format struct {
	SampleRate int
	Channels   int
}

// Valid reports whether the format describes usable hardware state.
func (f Format) Valid() bool {
	return f.SampleRate > 0 && f.Channels > 0
}

func (f Format) String() string {
	return fmt.Sprintf("%dHz/%dch", f.SampleRate, f.Channels)
}

// chunkSize returns the byte length of one 20ms s16 chunk for this format.
func (f Format) chunkSize() int {
	return f.SampleRate * f.Channels * 2 / 50
}
