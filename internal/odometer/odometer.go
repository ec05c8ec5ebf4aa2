// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package odometer decides, fix by fix, whether a completed coordinate adds
// distance to the trip, and keeps the accepted track and chart series.
package odometer

import (
	"github.com/relabs-tech/trip_odometer/internal/gps"
)

// Default thresholds. Changing them changes the computed distance.
const (
	DefaultMinSpeedKmh       = 7.0
	DefaultMinDistanceMeters = 10.0
	DefaultMaxPDOP           = 2.5
	DefaultMaxAccuracy       = 12.0
)

// Thresholds configure the accept/reject policy.
type Thresholds struct {
	MinSpeedKmh       float64
	MinDistanceMeters float64
	MaxPDOP           float64
	// MaxAccuracy is carried through configuration but never consulted by
	// the acceptance predicate.
	MaxAccuracy float64
}

// DefaultThresholds returns the stock policy.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MinSpeedKmh:       DefaultMinSpeedKmh,
		MinDistanceMeters: DefaultMinDistanceMeters,
		MaxPDOP:           DefaultMaxPDOP,
		MaxAccuracy:       DefaultMaxAccuracy,
	}
}

// Outcome tells what Add did with a coordinate.
type Outcome int

const (
	// OutcomeDiscarded: no prior fix yet and c has no fix either.
	OutcomeDiscarded Outcome = iota
	// OutcomeBootstrapped: c became the first reference fix.
	OutcomeBootstrapped
	OutcomeAccepted
	OutcomeRejected
)

func (o Outcome) String() string {
	switch o {
	case OutcomeBootstrapped:
		return "bootstrapped"
	case OutcomeAccepted:
		return "accepted"
	case OutcomeRejected:
		return "rejected"
	default:
		return "discarded"
	}
}

// HasFix reports whether the receiver had a usable position fix.
func HasFix(c gps.Coordinate) bool {
	return c.Status == gps.StatusActive && c.FixQuality > 0 && c.FixType > gps.NoFixType
}

// Charts holds the per-fix series, index-aligned with the track.
type Charts struct {
	Speed      []float64 `json:"speed_kmh"`
	PDOP       []float64 `json:"pdop"`
	Satellites []int     `json:"satellites"`
	Altitude   []float64 `json:"altitude_m"`
}

// Result is what renderers and printers get at the end of a run.
type Result struct {
	TotalMeters float64      `json:"total_meters"`
	Used        int          `json:"used"`
	Skipped     int          `json:"skipped"`
	Track       []gps.LatLon `json:"track"`
	Charts      Charts       `json:"charts"`
}

// TotalKm returns the trip distance in kilometers.
func (r Result) TotalKm() float64 {
	return r.TotalMeters / 1000
}

// Accumulator is the odometer state of one run. It is not safe for
// concurrent use.
type Accumulator struct {
	thresholds Thresholds

	totalMeters float64
	used        int
	skipped     int
	previous    gps.Coordinate

	track  []gps.LatLon
	charts Charts

	lastIncrement float64
}

// New returns an empty Accumulator using t.
func New(t Thresholds) *Accumulator {
	return &Accumulator{thresholds: t}
}

// Add consumes one completed coordinate.
func (a *Accumulator) Add(c gps.Coordinate) Outcome {
	a.lastIncrement = 0

	if a.previous.IsZeroPosition() {
		if !HasFix(c) {
			return OutcomeDiscarded
		}
		a.previous = c
		return OutcomeBootstrapped
	}

	inc := gps.DistanceMeters(a.previous.Lat, a.previous.Lon, c.Lat, c.Lon)
	if !a.shouldCount(c, inc) {
		a.skipped++
		return OutcomeRejected
	}

	a.totalMeters += inc
	a.lastIncrement = inc
	a.previous = c
	a.used++

	a.track = append(a.track, c.Position())
	a.charts.Speed = append(a.charts.Speed, c.SpeedKmh)
	a.charts.PDOP = append(a.charts.PDOP, c.PDOP)
	a.charts.Satellites = append(a.charts.Satellites, c.TrackedSatellites)
	a.charts.Altitude = append(a.charts.Altitude, c.AltitudeM)

	return OutcomeAccepted
}

// shouldCount is the acceptance predicate: a fix, some motion (speed or
// displacement), and good enough geometry.
func (a *Accumulator) shouldCount(c gps.Coordinate, inc float64) bool {
	t := a.thresholds
	moving := c.SpeedKmh >= t.MinSpeedKmh || inc >= t.MinDistanceMeters
	return HasFix(c) && moving && c.PDOP <= t.MaxPDOP
}

// Previous returns the reference fix the next coordinate is measured from.
func (a *Accumulator) Previous() gps.Coordinate {
	return a.previous
}

// TotalMeters returns the distance accumulated so far.
func (a *Accumulator) TotalMeters() float64 { return a.totalMeters }

// Used returns how many coordinates were accepted.
func (a *Accumulator) Used() int { return a.used }

// Skipped returns how many coordinates were rejected after a prior fix existed.
func (a *Accumulator) Skipped() int { return a.skipped }

// LastFix describes the most recent accepted coordinate. It is only
// meaningful right after Add returned OutcomeAccepted.
func (a *Accumulator) LastFix() gps.Fix {
	i := a.used - 1
	if i < 0 {
		return gps.Fix{}
	}
	return gps.Fix{
		Index:       i,
		Latitude:    a.track[i].Lat,
		Longitude:   a.track[i].Lon,
		SpeedKmh:    a.charts.Speed[i],
		PDOP:        a.charts.PDOP[i],
		Satellites:  a.charts.Satellites[i],
		AltitudeM:   a.charts.Altitude[i],
		IncrementM:  a.lastIncrement,
		TotalMeters: a.totalMeters,
	}
}

// Summary returns the running totals without copying the series.
func (a *Accumulator) Summary() Summary {
	return Summary{
		TotalMeters: a.totalMeters,
		TotalKm:     a.totalMeters / 1000,
		Used:        a.used,
		Skipped:     a.skipped,
	}
}

// Result returns a copy of the totals and series.
func (a *Accumulator) Result() Result {
	return Result{
		TotalMeters: a.totalMeters,
		Used:        a.used,
		Skipped:     a.skipped,
		Track:       append([]gps.LatLon(nil), a.track...),
		Charts: Charts{
			Speed:      append([]float64(nil), a.charts.Speed...),
			PDOP:       append([]float64(nil), a.charts.PDOP...),
			Satellites: append([]int(nil), a.charts.Satellites...),
			Altitude:   append([]float64(nil), a.charts.Altitude...),
		},
	}
}

// Summary is the textual part of a Result.
type Summary struct {
	TotalMeters float64 `json:"total_meters"`
	TotalKm     float64 `json:"total_km"`
	Used        int     `json:"used"`
	Skipped     int     `json:"skipped"`
}

// Summary returns the totals of r without the series.
func (r Result) Summary() Summary {
	return Summary{
		TotalMeters: r.TotalMeters,
		TotalKm:     r.TotalKm(),
		Used:        r.Used,
		Skipped:     r.Skipped,
	}
}
