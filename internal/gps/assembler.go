// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package gps

// Assembler collects the sentences of one fix cycle into a Coordinate.
// A cycle ends when an RMC sentence arrives, even if GGA or GSA were
// missing or broken; nothing else ends a cycle.
type Assembler struct {
	decoder Decoder
	current Coordinate
}

// NewAssembler returns an Assembler with a fresh in-progress coordinate.
// debugf may be nil.
func NewAssembler(debugf func(format string, args ...any)) *Assembler {
	return &Assembler{
		decoder: Decoder{Debugf: debugf},
		current: NewCoordinate(),
	}
}

// Feed decodes one line. When the line completes a fix it returns the
// finished coordinate and true, and the Assembler starts over from defaults.
func (a *Assembler) Feed(line string) (Coordinate, bool) {
	if !a.decoder.Decode(Classify(line), line, &a.current) {
		return Coordinate{}, false
	}
	done := a.current
	a.current = NewCoordinate()
	return done, true
}

// Pending returns a copy of the coordinate being assembled.
func (a *Assembler) Pending() Coordinate {
	return a.current
}
