// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package config

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/relabs-tech/trip_odometer/internal/odometer"
)

// DefaultPath is where the commands look for their configuration file.
const DefaultPath = "odometer_config.txt"

// Config holds all application configuration values.
type Config struct {
	// Odometer thresholds
	MinSpeedKmh       float64
	MinDistanceMeters float64
	MaxPDOP           float64
	MaxAccuracy       float64 // carried, not used by the acceptance predicate

	// Debug
	DebugDecodedSentences bool

	// Rendering
	MapOutput   string
	ChartOutput string
	MapZoom     int

	// MQTT (an empty broker disables publishing in the offline odometer)
	MQTTBroker           string
	MQTTClientIDOdometer string
	MQTTClientIDWeb      string
	MQTTClientIDConsole  string

	// Topics
	TopicTripFix     string
	TopicTripSummary string

	// GPS
	GPSSerialPort string
	GPSBaudRate   int

	// Web Server
	WebServerPort int
}

// Package-level unexported variables for the singleton:
//   - globalConfig: only reachable through InitGlobal and Get.
//   - configOnce: InitGlobal runs its load once, even if called repeatedly.
//   - configMu: write lock while initializing, read lock in Get.
var (
	globalConfig *Config
	configOnce   sync.Once
	configMu     sync.RWMutex
)

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		MinSpeedKmh:       odometer.DefaultMinSpeedKmh,
		MinDistanceMeters: odometer.DefaultMinDistanceMeters,
		MaxPDOP:           odometer.DefaultMaxPDOP,
		MaxAccuracy:       odometer.DefaultMaxAccuracy,

		MapOutput:   "trip.html",
		ChartOutput: "chart.png",
		MapZoom:     17,

		MQTTClientIDOdometer: "trip-odometer",
		MQTTClientIDWeb:      "trip-odometer-web",
		MQTTClientIDConsole:  "trip-odometer-console",

		TopicTripFix:     "trip/fix",
		TopicTripSummary: "trip/summary",

		GPSSerialPort: "/dev/serial0",
		GPSBaudRate:   9600,

		WebServerPort: 8080,
	}
}

// Load reads the configuration file and returns a Config struct.
// Keys absent from the file keep their Default values.
func Load(configPath string) (*Config, error) {
	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	return Parse(file)
}

// LoadOptional is Load, except that a missing file yields Default().
func LoadOptional(configPath string) (*Config, error) {
	cfg, err := Load(configPath)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Parse reads KEY=VALUE lines from r.
func Parse(r io.Reader) (*Config, error) {
	cfg := Default()
	scanner := bufio.NewScanner(r)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Parse KEY=VALUE
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid config line %d: %q", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		if err := cfg.setValue(key, value); err != nil {
			return nil, fmt.Errorf("config line %d: %w", lineNum, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// setValue sets a config value based on the key.
func (c *Config) setValue(key, value string) error {
	switch key {
	// Odometer thresholds
	case "MIN_SPEED":
		return parseThreshold(key, value, &c.MinSpeedKmh)
	case "MIN_DISTANCE":
		return parseThreshold(key, value, &c.MinDistanceMeters)
	case "MAX_PDOP":
		return parseThreshold(key, value, &c.MaxPDOP)
	case "MAX_ACCURACY":
		return parseThreshold(key, value, &c.MaxAccuracy)

	// Debug
	case "DEBUG_DECODED_SENTENCES":
		v, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid DEBUG_DECODED_SENTENCES %q: %w", value, err)
		}
		c.DebugDecodedSentences = v

	// Rendering
	case "MAP_OUTPUT":
		c.MapOutput = value
	case "CHART_OUTPUT":
		c.ChartOutput = value
	case "MAP_ZOOM":
		zoom, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid MAP_ZOOM %q: %w", value, err)
		}
		if zoom < 1 || zoom > 20 {
			return fmt.Errorf("MAP_ZOOM must be 1-20, got %d", zoom)
		}
		c.MapZoom = zoom

	// MQTT
	case "MQTT_BROKER":
		c.MQTTBroker = value
	case "MQTT_CLIENT_ID_ODOMETER":
		c.MQTTClientIDOdometer = value
	case "MQTT_CLIENT_ID_WEB":
		c.MQTTClientIDWeb = value
	case "MQTT_CLIENT_ID_CONSOLE":
		c.MQTTClientIDConsole = value

	// Topics
	case "TOPIC_TRIP_FIX":
		c.TopicTripFix = value
	case "TOPIC_TRIP_SUMMARY":
		c.TopicTripSummary = value

	// GPS
	case "GPS_SERIAL_PORT":
		c.GPSSerialPort = value
	case "GPS_BAUD_RATE":
		rate, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid GPS_BAUD_RATE %q: %w", value, err)
		}
		c.GPSBaudRate = rate

	// Web Server
	case "WEB_SERVER_PORT":
		port, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid WEB_SERVER_PORT %q: %w", value, err)
		}
		c.WebServerPort = port

	default:
		return fmt.Errorf("unknown config key: %q", key)
	}

	return nil
}

func parseThreshold(key, value string, dst *float64) error {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	if v < 0 {
		return fmt.Errorf("%s must not be negative, got %g", key, v)
	}
	*dst = v
	return nil
}

// validate checks that all required fields are set.
func (c *Config) validate() error {
	if c.TopicTripFix == "" {
		return fmt.Errorf("TOPIC_TRIP_FIX is required")
	}
	if c.TopicTripSummary == "" {
		return fmt.Errorf("TOPIC_TRIP_SUMMARY is required")
	}
	if c.GPSBaudRate <= 0 {
		return fmt.Errorf("GPS_BAUD_RATE must be positive")
	}
	if c.WebServerPort <= 0 || c.WebServerPort > 65535 {
		return fmt.Errorf("WEB_SERVER_PORT must be 1-65535, got %d", c.WebServerPort)
	}
	return nil
}

// Thresholds returns the odometer policy described by c.
func (c *Config) Thresholds() odometer.Thresholds {
	return odometer.Thresholds{
		MinSpeedKmh:       c.MinSpeedKmh,
		MinDistanceMeters: c.MinDistanceMeters,
		MaxPDOP:           c.MaxPDOP,
		MaxAccuracy:       c.MaxAccuracy,
	}
}

// InitGlobal initializes the global configuration from file, falling back
// to Default when the file does not exist. Only the first call loads.
func InitGlobal(configPath string) error {
	var err error
	configOnce.Do(func() {
		configMu.Lock()
		defer configMu.Unlock()
		globalConfig, err = LoadOptional(configPath)
	})
	return err
}

// Get returns the global configuration instance.
// InitGlobal must be called first, or this will return nil.
func Get() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return globalConfig
}
