package vision

import (
	"errors"
	"fmt"
	"image"
	"os"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

var (
	ErrNoDetection = errors.New("vision: nothing detected")
	ErrEmptyImage  = errors.New("vision: empty image")
)

// Detection is one labelled object with its pixel centroid.
type Detection struct {
	Label  string
	Center image.Point
	Area   int
}

// Detector finds labelled objects in a frame. Implementations return
// detections in priority order.
type Detector interface {
	Detect(img image.Image) ([]Detection, error)
}

// First returns the highest-priority detection d finds in img.
func First(d Detector, img image.Image) (Detection, error) {
	found, err := d.Detect(img)
	if err != nil {
		return Detection{}, err
	}
	if len(found) == 0 {
		return Detection{}, ErrNoDetection
	}
	return found[0], nil
}

// LoadImage decodes a PNG, JPEG, GIF, BMP or WebP file.
func LoadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}
