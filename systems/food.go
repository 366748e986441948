package systems

import (
	"github.com/ojrac/opensimplex-go"

	"github.com/pthm-cable/genogrid/config"
	"github.com/pthm-cable/genogrid/genome"
)

// FoodField marks the cells of a torus grid that hold food. Food is placed
// where fractal simplex noise exceeds a threshold, so it clusters in patches.
type FoodField struct {
	width, height int
	initial       []bool
	cells         []bool
	remaining     int
}

// NewFoodField generates a field of the given size from seed.
func NewFoodField(width, height int, cfg config.FoodConfig, seed int64) *FoodField {
	noise := opensimplex.NewNormalized(seed)
	octaves := max(1, cfg.Octaves)

	f := &FoodField{
		width:   width,
		height:  height,
		initial: make([]bool, width*height),
		cells:   make([]bool, width*height),
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if fbm(noise, float64(x)*cfg.Scale, float64(y)*cfg.Scale, octaves) > cfg.Threshold {
				f.initial[y*width+x] = true
			}
		}
	}
	f.Reset()
	return f
}

// fbm sums octaves of noise and renormalizes to [0, 1].
func fbm(noise opensimplex.Noise, x, y float64, octaves int) float64 {
	var sum, norm float64
	amp, freq := 1.0, 1.0
	for i := 0; i < octaves; i++ {
		sum += amp * noise.Eval2(x*freq, y*freq)
		norm += amp
		amp *= 0.5
		freq *= 2
	}
	return sum / norm
}

// Reset restores every eaten cell.
func (f *FoodField) Reset() {
	copy(f.cells, f.initial)
	f.remaining = 0
	for _, has := range f.cells {
		if has {
			f.remaining++
		}
	}
}

// Has reports whether (x, y) holds food. Coordinates wrap.
func (f *FoodField) Has(x, y int) bool {
	return f.cells[f.index(x, y)]
}

// Eat consumes the food at (x, y), reporting whether there was any.
func (f *FoodField) Eat(x, y int) bool {
	i := f.index(x, y)
	if !f.cells[i] {
		return false
	}
	f.cells[i] = false
	f.remaining--
	return true
}

// Remaining returns the number of cells still holding food.
func (f *FoodField) Remaining() int { return f.remaining }

// Total returns the number of food cells after a reset.
func (f *FoodField) Total() int {
	n := 0
	for _, has := range f.initial {
		if has {
			n++
		}
	}
	return n
}

func (f *FoodField) index(x, y int) int {
	return genome.Wrap(y, f.height)*f.width + genome.Wrap(x, f.width)
}
