package vision

import (
	"image"
	"image/color"
)

type HSV struct {
	H, S, V uint8
}

// ToHSV converts c to 8-bit HSV with hue halved into [0, 180).
func ToHSV(c color.Color) HSV {
	r32, g32, b32, _ := c.RGBA()
	r, g, b := int(r32>>8), int(g32>>8), int(b32>>8)

	hi, lo := max(r, g, b), min(r, g, b)
	delta := hi - lo
	if hi == 0 || delta == 0 {
		return HSV{V: uint8(hi)}
	}
	s := (delta*255 + hi/2) / hi

	var h float64
	switch hi {
	case r:
		h = 60 * float64(g-b) / float64(delta)
	case g:
		h = 120 + 60*float64(b-r)/float64(delta)
	default:
		h = 240 + 60*float64(r-g)/float64(delta)
	}
	if h < 0 {
		h += 360
	}
	hue := int(h/2 + 0.5)
	if hue >= 180 {
		hue -= 180
	}
	return HSV{H: uint8(hue), S: uint8(s), V: uint8(hi)}
}

// ColorRange is an inclusive HSV box.
type ColorRange struct {
	Label        string
	Lower, Upper HSV
}

func (r ColorRange) Contains(p HSV) bool {
	return p.H >= r.Lower.H && p.H <= r.Upper.H &&
		p.S >= r.Lower.S && p.S <= r.Upper.S &&
		p.V >= r.Lower.V && p.V <= r.Upper.V
}

// DefaultRanges are checked in this order.
var DefaultRanges = []ColorRange{
	{Label: "red", Lower: HSV{0, 70, 50}, Upper: HSV{10, 255, 255}},
	{Label: "green", Lower: HSV{50, 70, 50}, Upper: HSV{70, 255, 255}},
	{Label: "blue", Lower: HSV{100, 70, 50}, Upper: HSV{130, 255, 255}},
}

// ColorDetector thresholds each range and reports the centroid of its
// largest 8-connected blob.
type ColorDetector struct {
	Ranges    []ColorRange
	MinPixels int
}

func NewColorDetector() *ColorDetector {
	return &ColorDetector{Ranges: DefaultRanges, MinPixels: 1}
}

// Detect returns at most one detection per range, in range order. Ranges
// whose largest blob is smaller than MinPixels are skipped.
func (d *ColorDetector) Detect(img image.Image) ([]Detection, error) {
	bounds := img.Bounds()
	if bounds.Empty() {
		return nil, ErrEmptyImage
	}

	w, h := bounds.Dx(), bounds.Dy()
	pixels := make([]HSV, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			pixels[y*w+x] = ToHSV(img.At(bounds.Min.X+x, bounds.Min.Y+y))
		}
	}

	var found []Detection
	mask := make([]bool, w*h)
	for _, r := range d.Ranges {
		for i, p := range pixels {
			mask[i] = r.Contains(p)
		}
		b, ok := largestBlob(mask, w, h)
		if !ok || b.area < d.MinPixels {
			continue
		}
		found = append(found, Detection{
			Label:  r.Label,
			Center: image.Pt(bounds.Min.X+b.sumX/b.area, bounds.Min.Y+b.sumY/b.area),
			Area:   b.area,
		})
	}
	return found, nil
}

type blob struct {
	area, sumX, sumY int
}

// largestBlob labels 8-connected regions of mask with an explicit stack.
func largestBlob(mask []bool, w, h int) (blob, bool) {
	seen := make([]bool, len(mask))
	var best blob
	var stack []int

	for start := range mask {
		if !mask[start] || seen[start] {
			continue
		}

		var cur blob
		seen[start] = true
		stack = append(stack[:0], start)
		for len(stack) > 0 {
			i := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			x, y := i%w, i/w
			cur.area++
			cur.sumX += x
			cur.sumY += y

			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					nx, ny := x+dx, y+dy
					if nx < 0 || ny < 0 || nx >= w || ny >= h {
						continue
					}
					j := ny*w + nx
					if mask[j] && !seen[j] {
						seen[j] = true
						stack = append(stack, j)
					}
				}
			}
		}
		if cur.area > best.area {
			best = cur
		}
	}
	return best, best.area > 0
}
