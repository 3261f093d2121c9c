package viz

import (
	"math"
	"strings"

	"github.com/san-kum/armsim/internal/kinematics"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		for j := range c.Grid[i] {
			c.Grid[i][j] = 0x2800 // Empty braille char
		}
	}
	return c
}

// Set lights the dot at (x, y) in sub-pixel coordinates.
// The canvas size in sub-pixels is (Width*2) x (Height*4).
func (c *Canvas) Set(x, y int) {
	// Early bounds check for negative coordinates
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}

	subX := x % 2
	subY := y % 4

	c.Grid[row][col] |= rune(pixelMap[subY][subX])
}

// Clear resets the canvas
func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = 0x2800
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// IsSet reports whether the dot at (x, y) is lit.
func (c *Canvas) IsSet(x, y int) bool {
	if x < 0 || y < 0 || x/2 >= c.Width || y/4 >= c.Height {
		return false
	}
	return c.Grid[y/4][x/2]&rune(pixelMap[y%4][x%2]) != 0
}

// WorldToCanvas maps a world point to sub-pixels. The base sits at the
// centre and a circle of radius reach*1.1 fits the shorter side.
func (c *Canvas) WorldToCanvas(p kinematics.Point, reach float64) (int, int) {
	w, h := float64(c.Width*2), float64(c.Height*4)
	scale := math.Min(w, h) / 2 / (reach * 1.1)
	return int(math.Round(w/2 + p.X*scale)), int(math.Round(h/2 - p.Y*scale))
}

// DrawArm draws the links of arm at pose q with a small cross on every joint.
func (c *Canvas) DrawArm(arm *kinematics.Arm, q kinematics.Angles) {
	joints := arm.JointPositions(q)
	reach := arm.Reach()
	for i := 1; i < len(joints); i++ {
		x0, y0 := c.WorldToCanvas(joints[i-1], reach)
		x1, y1 := c.WorldToCanvas(joints[i], reach)
		c.DrawLine(x0, y0, x1, y1)
	}
	for _, j := range joints {
		x, y := c.WorldToCanvas(j, reach)
		c.Set(x-1, y)
		c.Set(x+1, y)
		c.Set(x, y-1)
		c.Set(x, y+1)
	}
}

// DrawPath plots every point of path as a single dot.
func (c *Canvas) DrawPath(path []kinematics.Point, reach float64) {
	for _, p := range path {
		c.Set(c.WorldToCanvas(p, reach))
	}
}

// DrawTarget draws an X centred on p.
func (c *Canvas) DrawTarget(p kinematics.Point, reach float64) {
	x, y := c.WorldToCanvas(p, reach)
	c.DrawLine(x-2, y-2, x+2, y+2)
	c.DrawLine(x-2, y+2, x+2, y-2)
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
