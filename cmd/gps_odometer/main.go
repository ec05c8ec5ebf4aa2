// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package main

import (
	"log"

	"github.com/relabs-tech/trip_odometer/internal/app"
	"github.com/relabs-tech/trip_odometer/internal/config"
)

func main() {
	log.Println("starting trip odometer on live GPS (NMEA → MQTT)")

	// Load configuration
	if err := config.InitGlobal(config.DefaultPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if config.Get().MQTTBroker == "" {
		log.Fatalf("MQTT_BROKER must be set in %s", config.DefaultPath)
	}

	if err := app.RunGPSOdometer(); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
