package vision

import (
	"image"

	"github.com/san-kum/armsim/internal/kinematics"
)

// DefaultPixelsPerUnit maps 100 pixels to one unit of link length.
const DefaultPixelsPerUnit = 100.0

// PixelMapper converts image pixels into workspace coordinates. Origin is
// the pixel under the arm base; FlipY makes image-down map to world-down.
type PixelMapper struct {
	PixelsPerUnit float64
	Origin        image.Point
	FlipY         bool
}

func NewPixelMapper() PixelMapper {
	return PixelMapper{PixelsPerUnit: DefaultPixelsPerUnit}
}

func (m PixelMapper) ToWorld(p image.Point) kinematics.Point {
	scale := m.PixelsPerUnit
	if scale == 0 {
		scale = DefaultPixelsPerUnit
	}
	x := float64(p.X-m.Origin.X) / scale
	y := float64(p.Y-m.Origin.Y) / scale
	if m.FlipY {
		y = -y
	}
	return kinematics.Point{X: x, Y: y}
}
