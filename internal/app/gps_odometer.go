// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"log"

	"github.com/relabs-tech/trip_odometer/internal/config"
	"github.com/relabs-tech/trip_odometer/internal/gps"
	"github.com/relabs-tech/trip_odometer/internal/source"
)

// RunGPSOdometer reads NMEA from the GPS serial port, runs the odometer on
// the fly, and publishes every accepted fix plus the running totals to MQTT.
func RunGPSOdometer() error {
	cfg := config.Get()

	// ---- 1) Connect to MQTT broker ----
	pub, err := NewMQTTPublisher(cfg, cfg.MQTTClientIDOdometer)
	if err != nil {
		return err
	}
	defer pub.Close()

	// ---- 2) Open GPS serial port ----
	port, err := source.OpenSerial(cfg.GPSSerialPort, cfg.GPSBaudRate)
	if err != nil {
		return err
	}
	defer port.Close()
	log.Printf("GPS serial port opened on %s at %d baud", cfg.GPSSerialPort, cfg.GPSBaudRate)

	// ---- 3) Odometer loop ----
	trip := NewTrip(cfg)
	trip.OnAccept = func(fix gps.Fix) {
		publishLive(pub, trip, fix)
	}

	err = source.EachLine(port, trip.Feed)
	if err != nil {
		log.Printf("GPS read error: %v", err)
	}
	PrintSummary(log.Writer(), trip.Summary())
	return err
}

func publishLive(pub Publisher, trip *Trip, fix gps.Fix) {
	if err := pub.PublishFix(fix); err != nil {
		log.Printf("live: %v", err)
		return
	}
	if err := pub.PublishSummary(trip.Summary()); err != nil {
		log.Printf("live: %v", err)
		return
	}
	log.Printf("live: fix #%d lat=%.6f lon=%.6f +%.1fm total=%.1fm",
		fix.Index, fix.Latitude, fix.Longitude, fix.IncrementM, fix.TotalMeters)
}
