// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relabs-tech/trip_odometer/internal/config"
	"github.com/relabs-tech/trip_odometer/internal/gps"
	"github.com/relabs-tech/trip_odometer/internal/odometer"
	"github.com/relabs-tech/trip_odometer/internal/source"
)

type recordingPublisher struct {
	fixes     []gps.Fix
	summaries []odometer.Summary
	closed    bool
}

func (p *recordingPublisher) PublishFix(f gps.Fix) error {
	p.fixes = append(p.fixes, f)
	return nil
}

func (p *recordingPublisher) PublishSummary(s odometer.Summary) error {
	p.summaries = append(p.summaries, s)
	return nil
}

func (p *recordingPublisher) Close() { p.closed = true }

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.MapOutput = filepath.Join(dir, "trip.html")
	cfg.ChartOutput = filepath.Join(dir, "chart.png")
	return cfg
}

func TestRunOdometer_WritesArtifacts(t *testing.T) {
	cfg := testConfig(t)
	pub := &recordingPublisher{}
	var out bytes.Buffer

	require.NoError(t, runOdometer(cfg, strings.NewReader(steadyTrip(5)), &out, pub))

	assert.Contains(t, out.String(), "Total distance: 0.2000Km")
	assert.Contains(t, out.String(), "Points used: 4")
	assert.Contains(t, out.String(), "Points skipped: 0")

	assert.FileExists(t, cfg.MapOutput)
	assert.FileExists(t, cfg.ChartOutput)

	assert.Len(t, pub.fixes, 4)
	require.Len(t, pub.summaries, 1)
	assert.Equal(t, 4, pub.summaries[0].Used)
}

func TestRunOdometer_NothingUsedSkipsRendering(t *testing.T) {
	cfg := testConfig(t)
	var out bytes.Buffer

	// A single fix only bootstraps the odometer.
	require.NoError(t, runOdometer(cfg, strings.NewReader(steadyTrip(1)), &out, nil))

	assert.Contains(t, out.String(), "Points used: 0")
	assert.NoFileExists(t, cfg.MapOutput)
	assert.NoFileExists(t, cfg.ChartOutput)
}

func TestRunOdometer_MissingInput(t *testing.T) {
	err := RunOdometer(filepath.Join(t.TempDir(), "missing.nmea"))
	assert.ErrorIs(t, err, source.ErrInputNotFound)
}

func TestRunOdometer_UnwritableOutput(t *testing.T) {
	cfg := testConfig(t)
	cfg.MapOutput = filepath.Join(t.TempDir(), "no-such-dir", "trip.html")

	err := runOdometer(cfg, strings.NewReader(steadyTrip(3)), &bytes.Buffer{}, nil)
	assert.Error(t, err)
	_, statErr := os.Stat(cfg.ChartOutput)
	assert.True(t, os.IsNotExist(statErr))
}
