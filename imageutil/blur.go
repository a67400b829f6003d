package imageutil

import "math"

// binomialWeights returns the normalised row 2*radius of Pascal's
// triangle, a discrete Gaussian with sigma = sqrt(radius/2).
func binomialWeights(radius int) []float64 {
	n := 2 * radius
	w := make([]float64, n+1)
	w[0] = 1
	for i := 1; i <= n; i++ {
		for j := i; j > 0; j-- {
			w[j] += w[j-1]
		}
	}
	scale := math.Ldexp(1, -n)
	for i := range w {
		w[i] *= scale
	}
	return w
}

// GaussianBlurGray smooths a grayscale image with a separable binomial
// kernel spanning 2*radius+1 pixels; radius 1 is the classic 1-2-1 blur.
// Edge pixels are replicated. A radius below 1 returns a copy.
func GaussianBlurGray(img *GrayImage, radius int) *GrayImage {
	if radius < 1 {
		return img.Clone()
	}
	w := binomialWeights(radius)
	width, height := img.Width(), img.Height()

	// Horizontal pass into floats, vertical pass back to bytes, so only
	// the final value is rounded.
	tmp := make([]float64, width*height)
	for y := 0; y < height; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+width]
		for x := 0; x < width; x++ {
			var sum float64
			for k, wk := range w {
				sum += wk * float64(row[clampInt(x+k-radius, 0, width-1)])
			}
			tmp[y*width+x] = sum
		}
	}

	dst := NewGrayImage(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var sum float64
			for k, wk := range w {
				sum += wk * tmp[clampInt(y+k-radius, 0, height-1)*width+x]
			}
			dst.Pix[y*dst.Stride+x] = clampUint8(sum)
		}
	}
	return dst
}

// clampInt clamps an integer to the given range.
func clampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// clampUint8 clamps a float64 to [0, 255] and converts to uint8.
func clampUint8(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(math.Round(v))
}
