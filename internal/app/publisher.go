// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"encoding/json"
	"fmt"
	"log"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/trip_odometer/internal/config"
	"github.com/relabs-tech/trip_odometer/internal/gps"
	"github.com/relabs-tech/trip_odometer/internal/odometer"
)

// Publisher sends accepted fixes and trip summaries somewhere.
type Publisher interface {
	PublishFix(gps.Fix) error
	PublishSummary(odometer.Summary) error
	Close()
}

// MQTTPublisher publishes JSON payloads to the trip topics.
type MQTTPublisher struct {
	client       mqtt.Client
	fixTopic     string
	summaryTopic string
}

// NewMQTTPublisher connects to cfg.MQTTBroker as clientID.
func NewMQTTPublisher(cfg *config.Config, clientID string) (*MQTTPublisher, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(clientID)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("mqtt connect %s: %w", cfg.MQTTBroker, token.Error())
	}
	log.Printf("connected to MQTT broker at %s", cfg.MQTTBroker)

	return &MQTTPublisher{
		client:       client,
		fixTopic:     cfg.TopicTripFix,
		summaryTopic: cfg.TopicTripSummary,
	}, nil
}

// PublishFix publishes one accepted fix.
func (p *MQTTPublisher) PublishFix(f gps.Fix) error {
	return p.publish(p.fixTopic, false, f)
}

// PublishSummary publishes the trip totals, retained so late subscribers
// see the latest ones.
func (p *MQTTPublisher) PublishSummary(s odometer.Summary) error {
	return p.publish(p.summaryTopic, true, s)
}

func (p *MQTTPublisher) publish(topic string, retained bool, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	token := p.client.Publish(topic, 0, retained, payload)
	token.Wait()
	if token.Error() != nil {
		return fmt.Errorf("publish %s: %w", topic, token.Error())
	}
	return nil
}

// Close disconnects from the broker.
func (p *MQTTPublisher) Close() {
	p.client.Disconnect(250)
}
