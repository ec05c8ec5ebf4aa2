package gps

// Fix is an accepted trip point suitable for JSON and MQTT.
type Fix struct {
	Index       int     `json:"index"`        // position in the accepted track
	Latitude    float64 `json:"lat"`          // decimal degrees
	Longitude   float64 `json:"lon"`          // decimal degrees
	SpeedKmh    float64 `json:"speed_kmh"`    // speed over ground
	PDOP        float64 `json:"pdop"`         // position dilution of precision
	Satellites  int     `json:"satellites"`   // tracked satellites
	AltitudeM   float64 `json:"altitude_m"`   // meters
	IncrementM  float64 `json:"increment_m"`  // distance added by this fix
	TotalMeters float64 `json:"total_meters"` // trip distance after this fix
}
