// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/relabs-tech/trip_odometer/internal/config"
	"github.com/relabs-tech/trip_odometer/internal/gps"
	"github.com/relabs-tech/trip_odometer/internal/render"
	"github.com/relabs-tech/trip_odometer/internal/source"
)

// RunOdometer computes the distance of the trip recorded at path, prints
// the summary and, when any fix was used, writes the map and the charts.
// Accepted fixes are also published to MQTT when a broker is configured.
func RunOdometer(path string) error {
	cfg := config.Get()
	if cfg == nil {
		cfg = config.Default()
	}

	f, err := source.OpenFile(path)
	if err != nil {
		return err
	}
	defer f.Close()

	var pub Publisher
	if cfg.MQTTBroker != "" {
		p, err := NewMQTTPublisher(cfg, cfg.MQTTClientIDOdometer)
		if err != nil {
			return err
		}
		defer p.Close()
		pub = p
	}

	return runOdometer(cfg, f, os.Stdout, pub)
}

func runOdometer(cfg *config.Config, in io.Reader, out io.Writer, pub Publisher) error {
	trip := NewTrip(cfg)
	if pub != nil {
		trip.OnAccept = func(fix gps.Fix) {
			if err := pub.PublishFix(fix); err != nil {
				log.Printf("odometer: %v", err)
			}
		}
	}

	if err := source.EachLine(in, trip.Feed); err != nil {
		return err
	}

	result := trip.Result()
	PrintSummary(out, result.Summary())

	if pub != nil {
		if err := pub.PublishSummary(result.Summary()); err != nil {
			log.Printf("odometer: %v", err)
		}
	}

	if result.Used == 0 {
		return nil
	}

	if err := render.WriteMap(cfg.MapOutput, result.Track, cfg.MapZoom); err != nil {
		return fmt.Errorf("odometer: %w", err)
	}
	log.Printf("odometer: trip map written to %s", cfg.MapOutput)

	if err := render.WriteChart(cfg.ChartOutput, result.Charts); err != nil {
		return fmt.Errorf("odometer: %w", err)
	}
	log.Printf("odometer: charts written to %s", cfg.ChartOutput)

	return nil
}
