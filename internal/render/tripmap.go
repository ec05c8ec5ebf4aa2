// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package render

import (
	"errors"
	"fmt"
	"html/template"
	"io"
	"os"

	"github.com/relabs-tech/trip_odometer/internal/gps"
)

var tripMapTemplate = template.Must(template.New("trip").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Trip</title>
<link rel="stylesheet" href="https://unpkg.com/leaflet@1.9.4/dist/leaflet.css">
<script src="https://unpkg.com/leaflet@1.9.4/dist/leaflet.js"></script>
<style>html, body, #map { height: 100%; margin: 0; }</style>
</head>
<body>
<div id="map"></div>
<script>
var track = {{.Track}};
var map = L.map('map').setView([{{.Center.Lat}}, {{.Center.Lon}}], {{.Zoom}});
L.tileLayer('https://tile.openstreetmap.org/{z}/{x}/{y}.png', {
  maxZoom: 19,
  attribution: '&copy; OpenStreetMap contributors'
}).addTo(map);
var latlngs = track.map(function (p) { return [p.lat, p.lon]; });
latlngs.forEach(function (ll) {
  L.circleMarker(ll, {radius: 1, color: '#FF0000'}).addTo(map);
});
L.polyline(latlngs, {color: 'cornflowerblue', weight: 1}).addTo(map);
</script>
</body>
</html>
`))

// ErrEmptyTrack is returned when there is nothing to draw.
var ErrEmptyTrack = errors.New("render: empty track")

type tripMapData struct {
	Track  []gps.LatLon
	Center gps.LatLon
	Zoom   int
}

// WriteMapTo writes an HTML map of track, centred on its first point, with
// every accepted point as a marker and a line joining them.
func WriteMapTo(w io.Writer, track []gps.LatLon, zoom int) error {
	if len(track) == 0 {
		return ErrEmptyTrack
	}
	return tripMapTemplate.Execute(w, tripMapData{
		Track:  track,
		Center: track[0],
		Zoom:   zoom,
	})
}

// WriteMap is WriteMapTo into a file at path.
func WriteMap(path string, track []gps.LatLon, zoom int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create map: %w", err)
	}
	defer f.Close()

	if err := WriteMapTo(f, track, zoom); err != nil {
		return fmt.Errorf("write map: %w", err)
	}
	return f.Close()
}
