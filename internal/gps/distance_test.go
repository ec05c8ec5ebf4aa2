// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package gps

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceMeters_SamePointIsZero(t *testing.T) {
	for _, p := range [][2]float64{{0, 0}, {48.1173, 11.5166}, {-33.9, 151.2}, {89.9, -179.9}} {
		assert.Zero(t, DistanceMeters(p[0], p[1], p[0], p[1]))
	}
}

func TestDistanceMeters_Symmetric(t *testing.T) {
	pairs := [][4]float64{
		{0, 0, 0, 1},
		{48.1173, 11.5166, 48.2, 11.7},
		{-33.9, 151.2, 40.7, -74.0},
		{10, 10, 10.00005, 10},
	}
	for _, p := range pairs {
		ab := DistanceMeters(p[0], p[1], p[2], p[3])
		ba := DistanceMeters(p[2], p[3], p[0], p[1])
		assert.InDelta(t, ab, ba, 1e-9)
	}
}

func TestDistanceMeters_OneDegreeAtEquator(t *testing.T) {
	want := EarthRadiusMeters * math.Pi / 180
	got := DistanceMeters(0, 0, 0, 1)
	assert.InDelta(t, want, got, 1e-6)
	assert.InDelta(t, 111226.3, got, 1)
}

func TestDistanceMeters_SmallDisplacement(t *testing.T) {
	got := DistanceMeters(10, 10, 10.00005, 10)
	assert.InDelta(t, 5.56, got, 0.01)
}
