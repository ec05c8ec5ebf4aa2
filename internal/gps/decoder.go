// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package gps

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	nmea "github.com/adrianmo/go-nmea"
)

// SentenceKind is the closed set of sentence types the decoder understands.
type SentenceKind int

const (
	KindUnknown SentenceKind = iota
	KindGGA
	KindRMC
	KindGLL
	KindGSA
)

func (k SentenceKind) String() string {
	switch k {
	case KindGGA:
		return "GGA"
	case KindRMC:
		return "RMC"
	case KindGLL:
		return "GLL"
	case KindGSA:
		return "GSA"
	default:
		return "unknown"
	}
}

// KnotsToKmh converts RMC ground speed to km/h.
const KnotsToKmh = 1.852

// Checksums are not validated; recorded trips often carry truncated or
// rewritten checksum suffixes.
var parser = nmea.SentenceParser{
	CheckCRC: func(nmea.BaseSentence, string) error { return nil },
}

// Classify decides the kind of a raw line by looking for the sentence
// identifier in its address field ("$GPGGA", "$GNRMC", ...).
func Classify(line string) SentenceKind {
	address := line
	if comma := strings.IndexByte(line, ','); comma != -1 {
		address = line[:comma]
	}
	switch {
	case strings.Contains(address, "GGA"):
		return KindGGA
	case strings.Contains(address, "RMC"):
		return KindRMC
	case strings.Contains(address, "GLL"):
		return KindGLL
	case strings.Contains(address, "GSA"):
		return KindGSA
	default:
		return KindUnknown
	}
}

// Decoder writes the fields of one sentence into an in-progress Coordinate.
// Debugf, when set, receives a line per decoded sentence.
type Decoder struct {
	Debugf func(format string, args ...any)
}

// Decode applies line to c using the zero Decoder.
func Decode(kind SentenceKind, line string, c *Coordinate) bool {
	return Decoder{}.Decode(kind, line, c)
}

// Decode applies line, already classified as kind, to c and reports whether
// the sentence closes the fix cycle. Only RMC closes a cycle, whether or not
// it decoded. Malformed input never escapes: the fields owned by the
// sentence type fall back to their sentinels and every other field of c is
// left as it was.
func (d Decoder) Decode(kind SentenceKind, line string, c *Coordinate) bool {
	switch kind {
	case KindGGA:
		d.decodeGGA(line, c)
	case KindRMC:
		d.decodeRMC(line, c)
		return true
	case KindGLL:
		d.decodeGLL(line)
	case KindGSA:
		d.decodeGSA(line, c)
	}
	return false
}

func (d Decoder) decodeGGA(line string, c *Coordinate) {
	m, quality, err := parseGGA(line)
	if err != nil {
		c.Lat = 0
		c.Lon = 0
		c.AltitudeM = 0
		c.FixQuality = 0
		d.debugf("[GGA] decode error: %v", err)
		return
	}

	c.Lat = m.Latitude
	c.Lon = m.Longitude
	c.FixQuality = quality
	c.TrackedSatellites = int(m.NumSatellites)
	c.AltitudeM = m.Altitude

	d.debugf("[GGA] time=%s lat=%.6f lon=%.6f quality=%d hdop=%.1f alt=%.1f sats=%d",
		m.Time, m.Latitude, m.Longitude, quality, m.HDOP, m.Altitude, m.NumSatellites)
}

// GGA fields used: 1-4 position, 5 fix quality, 6 satellites, 8 altitude.
func parseGGA(line string) (nmea.GGA, int, error) {
	s, err := parseAs(line, nmea.TypeGGA)
	if err != nil {
		return nmea.GGA{}, 0, err
	}
	m := s.(nmea.GGA)
	if err := requireFields(m.BaseSentence, 1, 2, 3, 4, 5, 6, 8); err != nil {
		return nmea.GGA{}, 0, err
	}
	if err := requireFinite(m.Latitude, m.Longitude, m.Altitude); err != nil {
		return nmea.GGA{}, 0, err
	}
	quality, err := strconv.Atoi(m.FixQuality)
	if err != nil {
		return nmea.GGA{}, 0, fmt.Errorf("nmea: fix quality: %w", err)
	}
	return m, quality, nil
}

func (d Decoder) decodeRMC(line string, c *Coordinate) {
	m, err := parseRMC(line)
	if err != nil {
		c.SpeedKmh = 0
		c.Status = StatusVoid
		d.debugf("[RMC] decode error: %v", err)
		return
	}

	c.Status = StatusVoid
	if m.Validity == nmea.ValidRMC {
		c.Status = StatusActive
	}
	c.SpeedKmh = m.Speed * KnotsToKmh

	d.debugf("[RMC] time=%s status=%s lat=%.6f lon=%.6f speed=%.1fkn",
		m.Time, m.Validity, m.Latitude, m.Longitude, m.Speed)
}

// RMC fields used: 1 status, 6 speed over ground.
func parseRMC(line string) (nmea.RMC, error) {
	s, err := parseAs(line, nmea.TypeRMC)
	if err != nil {
		return nmea.RMC{}, err
	}
	m := s.(nmea.RMC)
	if err := requireFields(m.BaseSentence, 1, 6); err != nil {
		return nmea.RMC{}, err
	}
	if err := requireFinite(m.Speed); err != nil {
		return nmea.RMC{}, err
	}
	return m, nil
}

// GLL carries nothing the odometer needs; it is only echoed when debugging.
func (d Decoder) decodeGLL(line string) {
	if d.Debugf == nil {
		return
	}
	s, err := parseAs(line, nmea.TypeGLL)
	if err != nil {
		d.debugf("[GLL] decode error: %v", err)
		return
	}
	m := s.(nmea.GLL)
	d.debugf("[GLL] time=%s status=%s lat=%.6f lon=%.6f",
		m.Time, m.Validity, m.Latitude, m.Longitude)
}

func (d Decoder) decodeGSA(line string, c *Coordinate) {
	m, fixType, err := parseGSA(line)
	if err != nil {
		c.FixType = NoFixType
		c.PDOP = PDOPUnreliable
		d.debugf("[GSA] decode error: %v", err)
		return
	}

	c.FixType = fixType
	c.PDOP = m.PDOP

	d.debugf("[GSA] mode=%s fix_type=%d pdop=%.1f", m.Mode, fixType, m.PDOP)
}

// GSA fields used: 1 fix type, 14 PDOP.
func parseGSA(line string) (nmea.GSA, int, error) {
	s, err := parseAs(line, nmea.TypeGSA)
	if err != nil {
		return nmea.GSA{}, 0, err
	}
	m := s.(nmea.GSA)
	if err := requireFields(m.BaseSentence, 1, 14); err != nil {
		return nmea.GSA{}, 0, err
	}
	if err := requireFinite(m.PDOP); err != nil {
		return nmea.GSA{}, 0, err
	}
	fixType, err := strconv.Atoi(m.FixType)
	if err != nil {
		return nmea.GSA{}, 0, fmt.Errorf("nmea: fix type: %w", err)
	}
	return m, fixType, nil
}

// requireFields fails when any of the given payload fields is missing or
// blank. go-nmea reads a blank numeric field as 0 without complaint.
func requireFields(s nmea.BaseSentence, idx ...int) error {
	for _, i := range idx {
		if i >= len(s.Fields) || strings.TrimSpace(s.Fields[i]) == "" {
			return fmt.Errorf("nmea: %s field %d is empty", s.Type, i)
		}
	}
	return nil
}

// requireFinite rejects Inf and NaN, which strconv.ParseFloat accepts.
func requireFinite(vals ...float64) error {
	for _, v := range vals {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return fmt.Errorf("nmea: non-finite value %v", v)
		}
	}
	return nil
}

func (d Decoder) debugf(format string, args ...any) {
	if d.Debugf != nil {
		d.Debugf(format, args...)
	}
}

// parseAs parses line with go-nmea and checks it produced the expected type.
func parseAs(line, want string) (nmea.Sentence, error) {
	s, err := parser.Parse(normalize(line))
	if err != nil {
		return nil, err
	}
	if s.DataType() != want {
		return nil, fmt.Errorf("nmea: expected %s sentence, got %s", want, s.DataType())
	}
	return s, nil
}

// normalize drops leading noise before '$' and supplies a placeholder
// checksum when the suffix is missing, so go-nmea only judges the fields.
func normalize(line string) string {
	line = strings.TrimSpace(line)
	if start := strings.IndexByte(line, '$'); start > 0 {
		line = line[start:]
	}
	if !strings.Contains(line, "*") {
		line += "*00"
	}
	return line
}
