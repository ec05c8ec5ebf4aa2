// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package gps

// Status is the fix validity flag carried by RMC.
type Status string

const (
	StatusActive Status = "A"
	StatusVoid   Status = "V"
)

// Fix type codes reported by GSA.
const (
	NoFixType = 1
	Fix2D     = 2
	Fix3D     = 3
)

// PDOPUnreliable is written when a GSA sentence cannot be decoded.
// It is far above any sane MAX_PDOP so the fix is always rejected downstream.
const PDOPUnreliable = 100.0

// Coordinate is the record assembled from one fix cycle (GGA, GSA, ... up to RMC).
type Coordinate struct {
	Status            Status
	SpeedKmh          float64 // ground speed
	Lat               float64 // decimal degrees
	Lon               float64 // decimal degrees
	FixQuality        int     // 0 = no fix
	TrackedSatellites int
	PDOP              float64
	AltitudeM         float64
	FixType           int // 1 = no fix, 2 = 2D, 3 = 3D
}

// NewCoordinate returns a record with the defaults of a fresh fix attempt.
func NewCoordinate() Coordinate {
	return Coordinate{
		Status:  StatusVoid,
		FixType: NoFixType,
	}
}

// IsZeroPosition reports whether c sits on the 0,0 "no prior fix" sentinel.
// A genuine fix at exactly 0,0 cannot be told apart.
func (c Coordinate) IsZeroPosition() bool {
	return c.Lat == 0 && c.Lon == 0
}

// LatLon is one point of an accepted track.
type LatLon struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Position returns the lat/lon pair of c.
func (c Coordinate) Position() LatLon {
	return LatLon{Lat: c.Lat, Lon: c.Lon}
}
