// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/relabs-tech/trip_odometer/internal/app"
	"github.com/relabs-tech/trip_odometer/internal/config"
	"github.com/relabs-tech/trip_odometer/internal/source"
)

const usage = "Please pass a file with NMEA sentences as parameter. Exiting..."

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(1)
	}

	// Load configuration (optional file)
	if err := config.InitGlobal(config.DefaultPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := app.RunOdometer(os.Args[1]); err != nil {
		if errors.Is(err, source.ErrInputNotFound) {
			fmt.Fprintln(os.Stderr, usage)
			os.Exit(1)
		}
		log.Fatalf("fatal: %v", err)
	}
}
