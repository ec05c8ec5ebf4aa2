// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/trip_odometer/internal/config"
	"github.com/relabs-tech/trip_odometer/internal/gps"
	"github.com/relabs-tech/trip_odometer/internal/odometer"
)

// RunConsoleMQTT prints accepted fixes and trip totals as they are published.
func RunConsoleMQTT() error {
	cfg := config.Get()

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDConsole)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	log.Printf("console: connected to MQTT broker at %s", cfg.MQTTBroker)

	fixToken := client.Subscribe(cfg.TopicTripFix, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var f gps.Fix
		if err := json.Unmarshal(msg.Payload(), &f); err != nil {
			log.Printf("console: fix unmarshal error: %v", err)
			return
		}
		fmt.Println(formatFix(f))
	})
	fixToken.Wait()
	if fixToken.Error() != nil {
		return fixToken.Error()
	}
	log.Printf("console: subscribed to %s", cfg.TopicTripFix)

	summaryToken := client.Subscribe(cfg.TopicTripSummary, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var s odometer.Summary
		if err := json.Unmarshal(msg.Payload(), &s); err != nil {
			log.Printf("console: summary unmarshal error: %v", err)
			return
		}
		fmt.Println(formatSummary(s))
	})
	summaryToken.Wait()
	if summaryToken.Error() != nil {
		return summaryToken.Error()
	}
	log.Printf("console: subscribed to %s", cfg.TopicTripSummary)

	// Wait for Ctrl+C
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Println("console: shutting down")
	client.Disconnect(250)
	return nil
}

func formatFix(f gps.Fix) string {
	return fmt.Sprintf(
		"[FIX ] #%-5d lat=%.6f lon=%.6f speed=%5.1fkm/h pdop=%.1f sats=%2d alt=%.0fm +%.1fm",
		f.Index, f.Latitude, f.Longitude, f.SpeedKmh, f.PDOP, f.Satellites, f.AltitudeM, f.IncrementM,
	)
}

func formatSummary(s odometer.Summary) string {
	return fmt.Sprintf("[TRIP] total=%.4fkm used=%d skipped=%d", s.TotalKm, s.Used, s.Skipped)
}
