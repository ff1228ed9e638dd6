package world

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Field is a static scalar grid, normalized to [0,1] once built.
// Values are stored row-major: index = y*Width + x.
type Field struct {
	Width, Height int
	Values        []float64
}

// NewField returns a zeroed w by h field.
func NewField(w, h int) *Field {
	if w <= 0 || h <= 0 {
		panic(fmt.Sprintf("world: invalid field size %dx%d", w, h))
	}
	return &Field{Width: w, Height: h, Values: make([]float64, w*h)}
}

// Get returns the value at grid cell (x, y), or 0 outside the grid.
// A nil field reads as 0 everywhere.
func (f *Field) Get(x, y int) float64 {
	if f == nil || x < 0 || y < 0 || x >= f.Width || y >= f.Height {
		return 0
	}
	return f.Values[y*f.Width+x]
}

// Set stores v at grid cell (x, y). Out-of-range cells are ignored.
func (f *Field) Set(x, y int, v float64) {
	if x < 0 || y < 0 || x >= f.Width || y >= f.Height {
		return
	}
	f.Values[y*f.Width+x] = v
}

// Normalize shifts the minimum to 0 and then scales the maximum to 1.
// A field whose values are all equal ends up all zero.
func (f *Field) Normalize() {
	floats.AddConst(-floats.Min(f.Values), f.Values)
	if hi := floats.Max(f.Values); hi != 0 {
		floats.Scale(1/hi, f.Values)
	}
}

// Invert maps every value v to 1 - v.
func (f *Field) Invert() {
	for i, v := range f.Values {
		f.Values[i] = 1 - v
	}
}

// Sample returns the value under world position (x, y) for a world of the
// given size, rounding to the nearest cell.
func (f *Field) Sample(x, y, worldW, worldH float64) float64 {
	if f == nil {
		return 0
	}
	gx := math.Round(float64(f.Width) * x / worldW)
	gy := math.Round(float64(f.Height) * y / worldH)
	if gx < 0 || gy < 0 {
		return 0
	}
	return f.Get(int(gx), int(gy))
}

// Cell returns the cell index under world position (x, y), truncating.
func (f *Field) Cell(x, y, worldW, worldH float64) (int, int) {
	return int(float64(f.Width) * x / worldW), int(float64(f.Height) * y / worldH)
}
