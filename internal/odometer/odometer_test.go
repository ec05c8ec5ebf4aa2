// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package odometer

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relabs-tech/trip_odometer/internal/gps"
)

func goodFix(lat, lon, speed float64) gps.Coordinate {
	return gps.Coordinate{
		Status:            gps.StatusActive,
		SpeedKmh:          speed,
		Lat:               lat,
		Lon:               lon,
		FixQuality:        1,
		TrackedSatellites: 8,
		PDOP:              1.0,
		AltitudeM:         500,
		FixType:           gps.Fix3D,
	}
}

// bootstrapped returns an accumulator whose reference fix is at 10,10.
func bootstrapped(t *testing.T) *Accumulator {
	t.Helper()
	a := New(DefaultThresholds())
	require.Equal(t, OutcomeBootstrapped, a.Add(goodFix(10, 10, 0)))
	return a
}

func TestHasFix(t *testing.T) {
	assert.True(t, HasFix(goodFix(1, 1, 0)))

	void := goodFix(1, 1, 0)
	void.Status = gps.StatusVoid
	assert.False(t, HasFix(void))

	noQuality := goodFix(1, 1, 0)
	noQuality.FixQuality = 0
	assert.False(t, HasFix(noQuality))

	negativeQuality := goodFix(1, 1, 0)
	negativeQuality.FixQuality = -1
	assert.False(t, HasFix(negativeQuality))

	noFixType := goodFix(1, 1, 0)
	noFixType.FixType = gps.NoFixType
	assert.False(t, HasFix(noFixType))

	twoD := goodFix(1, 1, 0)
	twoD.FixType = gps.Fix2D
	assert.True(t, HasFix(twoD))

	assert.False(t, HasFix(gps.NewCoordinate()))
}

func TestAdd_FirstFixWithoutFixIsDiscarded(t *testing.T) {
	a := New(DefaultThresholds())

	c := goodFix(10, 10, 50)
	c.Status = gps.StatusVoid
	assert.Equal(t, OutcomeDiscarded, a.Add(c))
	assert.Equal(t, OutcomeDiscarded, a.Add(gps.NewCoordinate()))

	assert.Zero(t, a.Used())
	assert.Zero(t, a.Skipped())
	assert.True(t, a.Previous().IsZeroPosition())
}

func TestAdd_BootstrapAttributesNothing(t *testing.T) {
	a := bootstrapped(t)

	assert.Zero(t, a.TotalMeters())
	assert.Zero(t, a.Used())
	assert.Zero(t, a.Skipped())
	assert.Equal(t, 10.0, a.Previous().Lat)
	assert.Empty(t, a.Result().Track)
}

func TestAdd_JitterRejected(t *testing.T) {
	a := bootstrapped(t)
	before := a.Previous()

	assert.Equal(t, OutcomeRejected, a.Add(goodFix(10.00005, 10, 3)))

	assert.Equal(t, 1, a.Skipped())
	assert.Zero(t, a.Used())
	assert.Zero(t, a.TotalMeters())
	assert.Equal(t, before, a.Previous())
}

func TestAdd_SpeedClauseAccepts(t *testing.T) {
	a := bootstrapped(t)
	c := goodFix(10.00005, 10, 20)

	assert.Equal(t, OutcomeAccepted, a.Add(c))

	want := gps.DistanceMeters(10, 10, 10.00005, 10)
	assert.Less(t, want, DefaultMinDistanceMeters)
	assert.Equal(t, 1, a.Used())
	assert.InDelta(t, want, a.TotalMeters(), 1e-9)
	assert.Equal(t, c, a.Previous())
}

func TestAdd_DistanceClauseAccepts(t *testing.T) {
	a := bootstrapped(t)
	assert.Equal(t, OutcomeAccepted, a.Add(goodFix(10.001, 10, 0)))
	assert.InDelta(t, 111.2, a.TotalMeters(), 0.1)
}

func TestAdd_PDOPGateDominates(t *testing.T) {
	a := bootstrapped(t)
	c := goodFix(10.01, 10, 50)
	c.PDOP = 3.0

	assert.Equal(t, OutcomeRejected, a.Add(c))
	assert.Equal(t, 1, a.Skipped())
	assert.Zero(t, a.TotalMeters())
}

func TestAdd_PDOPAtLimitAccepted(t *testing.T) {
	a := bootstrapped(t)
	c := goodFix(10.01, 10, 50)
	c.PDOP = DefaultMaxPDOP
	assert.Equal(t, OutcomeAccepted, a.Add(c))
}

func TestAdd_RMCOnlyCycleRejected(t *testing.T) {
	a := bootstrapped(t)

	c := gps.NewCoordinate()
	c.Status = gps.StatusActive
	c.SpeedKmh = 40

	assert.Equal(t, OutcomeRejected, a.Add(c))
	assert.Equal(t, 1, a.Skipped())
	assert.Equal(t, 10.0, a.Previous().Lat)
}

func TestAdd_RejectedFixDoesNotMoveReference(t *testing.T) {
	a := bootstrapped(t)

	far := goodFix(10.01, 10, 50)
	far.PDOP = 5
	require.Equal(t, OutcomeRejected, a.Add(far))

	// Measured against 10,10, not against the rejected point.
	require.Equal(t, OutcomeAccepted, a.Add(goodFix(10.0005, 10, 0)))
	assert.InDelta(t, gps.DistanceMeters(10, 10, 10.0005, 10), a.TotalMeters(), 1e-9)
}

func TestAdd_SeriesStayAligned(t *testing.T) {
	a := bootstrapped(t)

	for i := 1; i <= 5; i++ {
		c := goodFix(10+float64(i)*0.001, 10, float64(10*i))
		c.TrackedSatellites = i
		c.AltitudeM = float64(100 * i)
		c.PDOP = 1 + float64(i)/10
		a.Add(c)
		a.Add(goodFix(10+float64(i)*0.001, 10, 0)) // stationary jitter
	}

	r := a.Result()
	assert.Equal(t, 5, r.Used)
	assert.Equal(t, 5, r.Skipped)
	require.Len(t, r.Track, 5)
	require.Len(t, r.Charts.Speed, 5)
	require.Len(t, r.Charts.PDOP, 5)
	require.Len(t, r.Charts.Satellites, 5)
	require.Len(t, r.Charts.Altitude, 5)
	for i := 0; i < 5; i++ {
		assert.InDelta(t, 10+float64(i+1)*0.001, r.Track[i].Lat, 1e-12)
		assert.Equal(t, float64(10*(i+1)), r.Charts.Speed[i])
		assert.Equal(t, i+1, r.Charts.Satellites[i])
		assert.Equal(t, float64(100*(i+1)), r.Charts.Altitude[i])
	}

	last := a.LastFix()
	assert.Equal(t, 4, last.Index)
	assert.Equal(t, 5, last.Satellites)
	assert.InDelta(t, r.TotalMeters, last.TotalMeters, 1e-9)
}

func TestAdd_EndToEndSteadyTrip(t *testing.T) {
	const n = 20
	step := 50 / (gps.EarthRadiusMeters * math.Pi / 180)

	a := New(DefaultThresholds())
	for i := 0; i < n; i++ {
		a.Add(goodFix(45+float64(i)*step, 7, 30))
	}

	r := a.Result()
	assert.Equal(t, n-1, r.Used)
	assert.Zero(t, r.Skipped)
	assert.InDelta(t, 50*float64(n-1), r.TotalMeters, 0.01)
	assert.InDelta(t, r.TotalMeters/1000, r.TotalKm(), 1e-12)
}

func TestResult_IsACopy(t *testing.T) {
	a := bootstrapped(t)
	a.Add(goodFix(10.01, 10, 50))

	r := a.Result()
	r.Track[0].Lat = 0
	r.Charts.Speed[0] = 0

	assert.Equal(t, 10.01, a.Result().Track[0].Lat)
	assert.Equal(t, 50.0, a.Result().Charts.Speed[0])
}

func TestThresholds_MaxAccuracyIgnored(t *testing.T) {
	th := DefaultThresholds()
	th.MaxAccuracy = 0
	a := New(th)
	a.Add(goodFix(10, 10, 0))
	assert.Equal(t, OutcomeAccepted, a.Add(goodFix(10.01, 10, 50)))
}

func TestOutcome_String(t *testing.T) {
	assert.Equal(t, "accepted", OutcomeAccepted.String())
	assert.Equal(t, "rejected", OutcomeRejected.String())
	assert.Equal(t, "bootstrapped", OutcomeBootstrapped.String())
	assert.Equal(t, "discarded", OutcomeDiscarded.String())
}

func TestSummary_MatchesResult(t *testing.T) {
	a := bootstrapped(t)
	a.Add(goodFix(10.01, 10, 50))
	a.Add(goodFix(10.01, 10, 0))

	assert.Equal(t, a.Result().Summary(), a.Summary())
	assert.Equal(t, 1, a.Summary().Used)
	assert.Equal(t, 1, a.Summary().Skipped)
}
