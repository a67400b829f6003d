package imageutil

import (
	"image"
	"sort"
)

// FlattenBackground removes slow lighting changes from a page. The page
// is cut into square cells, cells along its longest side, and the median
// of each cell is taken as the local paper level. Those levels are
// interpolated bilinearly, extrapolating past the outer cell centres, and
// every pixel is divided by its level and rescaled to the mean level.
//
// Dark pages are flattened on their negative so that black paper does not
// divide to zero. Medians only track the paper while ink covers less than
// half of every cell. A uniform page comes back unchanged; cells below 1
// return a copy.
func FlattenBackground(img *GrayImage, cells int) *GrayImage {
	if cells < 1 {
		return img.Clone()
	}
	bg := estimateBackground(img, cells)

	var target float64
	for _, v := range bg.levels {
		target += v
	}
	target /= float64(len(bg.levels))

	dark := target < 128
	if dark {
		target = 255 - target
	}

	width, height := img.Width(), img.Height()
	dst := NewGrayImage(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := float64(img.Pix[y*img.Stride+x])
			level := bg.at(x, y)
			if dark {
				v, level = 255-v, 255-level
			}
			out := v * (target / max(level, 1))
			if dark {
				out = 255 - clampFloat(out, 0, 255)
			}
			dst.Pix[y*dst.Stride+x] = clampUint8(out)
		}
	}
	return dst
}

type background struct {
	cols, rows []axisWeight
	nx         int
	levels     []float64 // row-major cell medians
}

// axisWeight locates a pixel between two neighbouring cell centres.
type axisWeight struct {
	i0, i1 int
	w      float64
}

func estimateBackground(img *GrayImage, cells int) *background {
	width, height := img.Width(), img.Height()
	size := (max(width, height) + cells - 1) / cells

	xStarts, xCentres := cellSpans(width, size)
	yStarts, yCentres := cellSpans(height, size)

	bg := &background{nx: len(xStarts)}
	for _, y0 := range yStarts {
		for _, x0 := range xStarts {
			cell := image.Rect(x0, y0, min(x0+size, width), min(y0+size, height))
			bg.levels = append(bg.levels, cellMedian(img, cell))
		}
	}

	bg.cols = make([]axisWeight, width)
	for x := range bg.cols {
		bg.cols[x] = weightAt(xCentres, float64(x))
	}
	bg.rows = make([]axisWeight, height)
	for y := range bg.rows {
		bg.rows[y] = weightAt(yCentres, float64(y))
	}
	return bg
}

func (bg *background) at(x, y int) float64 {
	c, r := bg.cols[x], bg.rows[y]
	level := func(i, j int) float64 { return bg.levels[j*bg.nx+i] }
	top := level(c.i0, r.i0)*(1-c.w) + level(c.i1, r.i0)*c.w
	bottom := level(c.i0, r.i1)*(1-c.w) + level(c.i1, r.i1)*c.w
	return top*(1-r.w) + bottom*r.w
}

// cellSpans splits n pixels into runs of size; the last run may be
// shorter. It returns each run's start and centre.
func cellSpans(n, size int) (starts []int, centres []float64) {
	for s := 0; s < n; s += size {
		e := min(s+size, n)
		starts = append(starts, s)
		centres = append(centres, float64(s+e-1)/2)
	}
	return starts, centres
}

func weightAt(centres []float64, p float64) axisWeight {
	if len(centres) == 1 {
		return axisWeight{}
	}
	i := clampInt(sort.SearchFloat64s(centres, p)-1, 0, len(centres)-2)
	return axisWeight{
		i0: i,
		i1: i + 1,
		w:  (p - centres[i]) / (centres[i+1] - centres[i]),
	}
}

// cellMedian returns the lower median of the pixels in r.
func cellMedian(img *GrayImage, r image.Rectangle) float64 {
	var hist [256]int
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := img.Pix[y*img.Stride:]
		for x := r.Min.X; x < r.Max.X; x++ {
			hist[row[x]]++
		}
	}
	half := (r.Dx()*r.Dy() + 1) / 2
	acc := 0
	for v, n := range hist {
		acc += n
		if acc >= half {
			return float64(v)
		}
	}
	return 255
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
