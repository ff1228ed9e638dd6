package world

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"math"
	"os"

	"github.com/ojrac/opensimplex-go"
)

// InverseCenterDistanceField builds a w by h field that is 1 at the center
// and falls to 0 at the corners.
func InverseCenterDistanceField(w, h int) *Field {
	f := NewField(w, h)
	cx, cy := float64(w)/2, float64(h)/2
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dx, dy := float64(x)-cx, float64(y)-cy
			f.Set(x, y, math.Sqrt(dx*dx+dy*dy))
		}
	}
	f.Normalize()
	f.Invert()
	return f
}

// NoiseParams configures NoiseField.
type NoiseParams struct {
	Scale   float64 // cells per noise unit
	Octaves int
	Seed    int64
}

// NoiseField builds a normalized fractal simplex-noise field.
func NoiseField(w, h int, p NoiseParams) *Field {
	f := NewField(w, h)
	noise := opensimplex.New(p.Seed)
	scale := p.Scale
	if scale <= 0 {
		scale = 1
	}
	octaves := max(p.Octaves, 1)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var sum float64
			freq, amp := 1.0, 1.0
			for o := 0; o < octaves; o++ {
				sum += amp * noise.Eval2(float64(x)*freq/scale, float64(y)*freq/scale)
				freq *= 2
				amp *= 0.5
			}
			f.Set(x, y, sum)
		}
	}
	f.Normalize()
	return f
}

// ImageField builds a field from the red channel of img, normalized.
func ImageField(img image.Image) *Field {
	b := img.Bounds()
	f := NewField(b.Dx(), b.Dy())
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			r, _, _, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			f.Set(x, y, float64(r>>8)/255)
		}
	}
	f.Normalize()
	return f
}

// DecodeField decodes a PNG or JPEG image into a field.
func DecodeField(r io.Reader) (*Field, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decoding field image: %w", err)
	}
	return ImageField(img), nil
}

// LoadField reads an image file into a field.
func LoadField(path string) (*Field, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening field image: %w", err)
	}
	defer file.Close()
	return DecodeField(file)
}
