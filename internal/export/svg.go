package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/rn7cvj-dvfu/6-semester-mcm/internal/analysis"
)

// Palette cycles through these stroke colors for successive series.
var Palette = []string{"#00ff00", "#ff6f00", "#29b6f6", "#ec407a", "#ffee58", "#ab47bc"}

// Series is one polyline of a plot.
type Series struct {
	Name   string
	Points []analysis.Point
}

type bounds struct {
	minX, maxX, minY, maxY float64
}

func (b *bounds) add(p analysis.Point) {
	if !finite(p) {
		return
	}
	b.minX = math.Min(b.minX, p.X)
	b.maxX = math.Max(b.maxX, p.X)
	b.minY = math.Min(b.minY, p.Y)
	b.maxY = math.Max(b.maxY, p.Y)
}

// pad widens the box by 10% and keeps degenerate ranges non-zero.
func (b *bounds) pad() {
	rangeX := b.maxX - b.minX
	rangeY := b.maxY - b.minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	b.minX -= rangeX * 0.1
	b.maxX += rangeX * 0.1
	b.minY -= rangeY * 0.1
	b.maxY += rangeY * 0.1
}

func (b *bounds) project(p analysis.Point, width, height int) (float64, float64) {
	x := (p.X - b.minX) / (b.maxX - b.minX) * float64(width)
	y := float64(height) - (p.Y-b.minY)/(b.maxY-b.minY)*float64(height)
	return x, y
}

func newBounds() *bounds {
	return &bounds{minX: math.Inf(1), maxX: math.Inf(-1), minY: math.Inf(1), maxY: math.Inf(-1)}
}

func finite(p analysis.Point) bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}

func header(sb *strings.Builder, width, height int) {
	fmt.Fprintf(sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height)
}

// PathSVG draws every series as a polyline on shared axes. Non-finite points
// break the line. It returns "" when no series has two finite points.
func PathSVG(series []Series, width, height int) string {
	b := newBounds()
	drawable := 0
	for _, s := range series {
		n := 0
		for _, p := range s.Points {
			if finite(p) {
				b.add(p)
				n++
			}
		}
		if n >= 2 {
			drawable++
		}
	}
	if drawable == 0 {
		return ""
	}
	b.pad()

	var sb strings.Builder
	header(&sb, width, height)

	for i, s := range series {
		color := Palette[i%len(Palette)]
		fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5"`, color)
		if s.Name != "" {
			fmt.Fprintf(&sb, ` data-name="%s"`, s.Name)
		}
		sb.WriteString(` d="`)

		move := true
		for _, p := range s.Points {
			if !finite(p) {
				move = true
				continue
			}
			x, y := b.project(p, width, height)
			if move {
				fmt.Fprintf(&sb, "M%.1f,%.1f", x, y)
				move = false
			} else {
				fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
			}
		}
		sb.WriteString("\"/>\n")
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// ScatterSVG draws one dot per point colored by value on a blue to red ramp
// between lo and hi.
func ScatterSVG(points []analysis.Point, values []float64, lo, hi float64, width, height int) (string, error) {
	if len(points) != len(values) {
		return "", fmt.Errorf("export: %d points but %d values", len(points), len(values))
	}
	if len(points) == 0 {
		return "", nil
	}

	b := newBounds()
	for _, p := range points {
		b.add(p)
	}
	b.pad()

	var sb strings.Builder
	header(&sb, width, height)
	sb.WriteString("<g>\n")
	for i, p := range points {
		if !finite(p) {
			continue
		}
		x, y := b.project(p, width, height)
		fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="1" fill="%s"/>`+"\n", x, y, ramp(values[i], lo, hi))
	}
	sb.WriteString("</g>\n</svg>")
	return sb.String(), nil
}

func ramp(v, lo, hi float64) string {
	f := 0.5
	if hi > lo {
		f = (v - lo) / (hi - lo)
	}
	if math.IsNaN(f) {
		f = 0.5
	}
	f = math.Max(0, math.Min(1, f))
	r := int(math.Round(255 * f))
	return fmt.Sprintf("#%02x40%02x", r, 255-r)
}
