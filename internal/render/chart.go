// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/relabs-tech/trip_odometer/internal/odometer"
)

// Chart geometry, in pixels.
const (
	chartWidth   = 1900
	chartHeight  = 1000
	marginLeft   = 190
	marginRight  = 40
	marginTop    = 20
	marginBottom = 30
	panelGap     = 24
)

var (
	colorBackground = color.RGBA{0xff, 0xff, 0xff, 0xff}
	colorAxis       = color.RGBA{0x80, 0x80, 0x80, 0xff}
	colorText       = color.RGBA{0x20, 0x20, 0x20, 0xff}
	colorSeries     = color.RGBA{0x1f, 0x77, 0xb4, 0xff}
)

type panel struct {
	label  string
	values []float64
}

// WriteChart renders the four stacked series of c into a PNG at path.
func WriteChart(path string, c odometer.Charts) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create chart: %w", err)
	}
	defer f.Close()

	if err := png.Encode(f, DrawChart(c)); err != nil {
		return fmt.Errorf("encode chart: %w", err)
	}
	return f.Close()
}

// DrawChart draws speed, PDOP, tracked satellites and altitude as four
// panels sharing the accepted-fix index as x axis.
func DrawChart(c odometer.Charts) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, chartWidth, chartHeight))
	draw.Draw(img, img.Bounds(), &image.Uniform{colorBackground}, image.Point{}, draw.Src)

	sats := make([]float64, len(c.Satellites))
	for i, s := range c.Satellites {
		sats[i] = float64(s)
	}
	panels := []panel{
		{label: "Speed [Km/h]", values: c.Speed},
		{label: "PDOP", values: c.PDOP},
		{label: "Tracked Sat. [Units]", values: sats},
		{label: "Alt [m]", values: c.Altitude},
	}

	drawer := &font.Drawer{
		Dst:  img,
		Src:  &image.Uniform{colorText},
		Face: basicfont.Face7x13,
	}

	panelHeight := (chartHeight - marginTop - marginBottom - panelGap*(len(panels)-1)) / len(panels)
	for i, p := range panels {
		top := marginTop + i*(panelHeight+panelGap)
		area := image.Rect(marginLeft, top, chartWidth-marginRight, top+panelHeight)
		drawPanel(img, drawer, area, p)
	}

	n := len(c.Speed)
	drawer.Dot = fixed.P(marginLeft, chartHeight-8)
	drawer.DrawString("0")
	last := fmt.Sprintf("%d", max(n-1, 0))
	drawer.Dot = fixed.P(chartWidth-marginRight-font.MeasureString(basicfont.Face7x13, last).Round(), chartHeight-8)
	drawer.DrawString(last)

	return img
}

func drawPanel(img *image.RGBA, drawer *font.Drawer, area image.Rectangle, p panel) {
	drawRect(img, area, colorAxis)

	lo, hi := bounds(p.values)

	drawer.Dot = fixed.P(8, area.Min.Y+area.Dy()/2+4)
	drawer.DrawString(p.label)
	drawer.Dot = fixed.P(area.Min.X-70, area.Min.Y+13)
	drawer.DrawString(fmt.Sprintf("%8.1f", hi))
	drawer.Dot = fixed.P(area.Min.X-70, area.Max.Y-3)
	drawer.DrawString(fmt.Sprintf("%8.1f", lo))

	inner := area.Inset(4)
	point := func(i int, v float64) image.Point {
		x := inner.Min.X
		if len(p.values) > 1 {
			x += i * (inner.Dx() - 1) / (len(p.values) - 1)
		}
		frac := min(max((v-lo)/(hi-lo), 0), 1)
		y := inner.Max.Y - 1 - int(frac*float64(inner.Dy()-1))
		return image.Point{X: x, Y: y}
	}

	// Non-finite samples leave a gap in the line.
	var prev image.Point
	havePrev := false
	for i, v := range p.values {
		if !finite(v) {
			havePrev = false
			continue
		}
		cur := point(i, v)
		if havePrev {
			drawLine(img, prev, cur, colorSeries)
		} else {
			img.Set(cur.X, cur.Y, colorSeries)
		}
		prev, havePrev = cur, true
	}
}

// bounds returns the range of the finite values in v, widened when flat so
// it can be scaled.
func bounds(v []float64) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, x := range v {
		if !finite(x) {
			continue
		}
		lo = min(lo, x)
		hi = max(hi, x)
	}
	if lo > hi {
		return 0, 1
	}
	if hi == lo {
		lo--
		hi++
	}
	return lo, hi
}

func finite(v float64) bool {
	return !math.IsInf(v, 0) && !math.IsNaN(v)
}

func drawRect(img *image.RGBA, r image.Rectangle, c color.Color) {
	for x := r.Min.X; x < r.Max.X; x++ {
		img.Set(x, r.Min.Y, c)
		img.Set(x, r.Max.Y-1, c)
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		img.Set(r.Min.X, y, c)
		img.Set(r.Max.X-1, y, c)
	}
}

// drawLine is Bresenham's line between a and b inclusive.
func drawLine(img *image.RGBA, a, b image.Point, c color.Color) {
	dx := abs(b.X - a.X)
	dy := -abs(b.Y - a.Y)
	sx, sy := 1, 1
	if a.X > b.X {
		sx = -1
	}
	if a.Y > b.Y {
		sy = -1
	}
	err := dx + dy
	for {
		img.Set(a.X, a.Y, c)
		if a == b {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			a.X += sx
		}
		if e2 <= dx {
			err += dx
			a.Y += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
