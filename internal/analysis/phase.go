package analysis

import (
	"strings"

	"github.com/rn7cvj-dvfu/6-semester-mcm/internal/dynamo"
)

type Point struct{ X, Y float64 }

// Portrait holds two state components of a trajectory plotted against each
// other, e.g. prey against predators or x against y on the rotating disk.
type Portrait struct {
	XIndex, YIndex int
	Points         []Point
}

// NewPortrait extracts components xIdx and yIdx of every sample. It returns
// nil if either index is out of range.
func NewPortrait(traj *dynamo.Trajectory, xIdx, yIdx int) *Portrait {
	if traj.Len() == 0 {
		return nil
	}
	_, x0 := traj.At(0)
	if xIdx < 0 || yIdx < 0 || xIdx >= len(x0) || yIdx >= len(x0) {
		return nil
	}

	p := &Portrait{XIndex: xIdx, YIndex: yIdx, Points: make([]Point, traj.Len())}
	for i, x := range traj.States {
		p.Points[i] = Point{X: x[xIdx], Y: x[yIdx]}
	}
	return p
}

// NewSection records components recordX and recordY each time component
// crossIdx crosses threshold upward, interpolating between samples.
func NewSection(traj *dynamo.Trajectory, crossIdx int, threshold float64, recordX, recordY int) *Portrait {
	if traj.Len() == 0 {
		return nil
	}
	_, x0 := traj.At(0)
	for _, idx := range []int{crossIdx, recordX, recordY} {
		if idx < 0 || idx >= len(x0) {
			return nil
		}
	}

	p := &Portrait{XIndex: recordX, YIndex: recordY}
	for i := 1; i < traj.Len(); i++ {
		prev, cur := traj.States[i-1], traj.States[i]
		if prev[crossIdx] < threshold && cur[crossIdx] >= threshold {
			frac := (threshold - prev[crossIdx]) / (cur[crossIdx] - prev[crossIdx])
			p.Points = append(p.Points, Point{
				X: prev[recordX] + frac*(cur[recordX]-prev[recordX]),
				Y: prev[recordY] + frac*(cur[recordY]-prev[recordY]),
			})
		}
	}
	return p
}

// ASCII renders the points on a width x height character canvas with axes
// drawn where they are visible.
func (p *Portrait) ASCII(width, height int) string {
	if p == nil || len(p.Points) == 0 || width < 2 || height < 2 {
		return ""
	}

	minX, maxX := p.Points[0].X, p.Points[0].X
	minY, maxY := p.Points[0].Y, p.Points[0].Y
	for _, pt := range p.Points {
		minX, maxX = min(minX, pt.X), max(maxX, pt.X)
		minY, maxY = min(minY, pt.Y), max(maxY, pt.Y)
	}

	rangeX, rangeY := maxX-minX, maxY-minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX, rangeY = maxX-minX, maxY-minY

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	col := func(x float64) int { return int((x - minX) / rangeX * float64(width-1)) }
	row := func(y float64) int { return height - 1 - int((y-minY)/rangeY*float64(height-1)) }

	for _, pt := range p.Points {
		r, c := row(pt.Y), col(pt.X)
		if r >= 0 && r < height && c >= 0 && c < width {
			canvas[r][c] = '•'
		}
	}

	if minX <= 0 && maxX >= 0 {
		c := col(0)
		for r := 0; r < height; r++ {
			if canvas[r][c] == ' ' {
				canvas[r][c] = '│'
			}
		}
	}
	if minY <= 0 && maxY >= 0 {
		r := row(0)
		for c := 0; c < width; c++ {
			if canvas[r][c] == ' ' {
				canvas[r][c] = '─'
			}
		}
	}

	var sb strings.Builder
	for _, line := range canvas {
		sb.WriteString(string(line))
		sb.WriteRune('\n')
	}
	return sb.String()
}
