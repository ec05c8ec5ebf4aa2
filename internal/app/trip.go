// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"fmt"
	"io"
	"log"

	"github.com/relabs-tech/trip_odometer/internal/config"
	"github.com/relabs-tech/trip_odometer/internal/gps"
	"github.com/relabs-tech/trip_odometer/internal/odometer"
)

// Trip wires the sentence assembler to the odometer for one run.
type Trip struct {
	assembler   *gps.Assembler
	accumulator *odometer.Accumulator

	// OnAccept, when set, is called with every accepted fix.
	OnAccept func(gps.Fix)
}

// NewTrip builds a Trip from cfg's thresholds and debug switch.
func NewTrip(cfg *config.Config) *Trip {
	var debugf func(string, ...any)
	if cfg.DebugDecodedSentences {
		debugf = log.Printf
	}
	return &Trip{
		assembler:   gps.NewAssembler(debugf),
		accumulator: odometer.New(cfg.Thresholds()),
	}
}

// Feed processes one NMEA line. It never fails; the error return lets it
// be handed straight to source.EachLine.
func (t *Trip) Feed(line string) error {
	c, done := t.assembler.Feed(line)
	if !done {
		return nil
	}
	if t.accumulator.Add(c) == odometer.OutcomeAccepted && t.OnAccept != nil {
		t.OnAccept(t.accumulator.LastFix())
	}
	return nil
}

// Result returns the totals and series gathered so far.
func (t *Trip) Result() odometer.Result {
	return t.accumulator.Result()
}

// Summary returns the running totals.
func (t *Trip) Summary() odometer.Summary {
	return t.accumulator.Summary()
}

// PrintSummary writes the end-of-trip report.
func PrintSummary(w io.Writer, s odometer.Summary) {
	fmt.Fprintf(w, "\nTotal distance: %.4fKm\n", s.TotalKm)
	fmt.Fprintf(w, "Points used: %d\n", s.Used)
	fmt.Fprintf(w, "Points skipped: %d\n\n", s.Skipped)
}
