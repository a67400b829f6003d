package imageutil

import "math"

// EqualizeAdaptive performs contrast limited adaptive histogram
// equalisation (CLAHE) on a grayscale image.
//
// The image is divided into a tilesX x tilesY grid. Each tile gets its own
// equalisation curve built from a histogram clipped at clipLimit times the
// mean bin height; the clipped excess is spread evenly over all bins. Each
// output pixel blends the curves of the four nearest tile centres
// bilinearly so that tile seams do not show. A clipLimit <= 0 disables
// clipping.
//
// Histograms are kept in floating point so the curve of a tile depends only
// on its intensity distribution, not on its pixel count. A uniform image
// therefore stays uniform.
func EqualizeAdaptive(img *GrayImage, tilesX, tilesY int, clipLimit float64) *GrayImage {
	width, height := img.Width(), img.Height()
	tx := clampInt(tilesX, 1, width)
	ty := clampInt(tilesY, 1, height)

	luts := make([][256]uint8, tx*ty)
	for j := 0; j < ty; j++ {
		y0, y1 := j*height/ty, (j+1)*height/ty
		for i := 0; i < tx; i++ {
			x0, x1 := i*width/tx, (i+1)*width/tx
			luts[j*tx+i] = tileCurve(img, x0, y0, x1, y1, clipLimit)
		}
	}

	tileW := float64(width) / float64(tx)
	tileH := float64(height) / float64(ty)
	dst := NewGrayImage(width, height)

	for y := 0; y < height; y++ {
		ya, yb, wy := neighbourTiles(float64(y), tileH, ty)
		for x := 0; x < width; x++ {
			xa, xb, wx := neighbourTiles(float64(x), tileW, tx)
			v := img.Pix[y*img.Stride+x]

			top := (1-wx)*float64(luts[ya*tx+xa][v]) + wx*float64(luts[ya*tx+xb][v])
			bottom := (1-wx)*float64(luts[yb*tx+xa][v]) + wx*float64(luts[yb*tx+xb][v])
			dst.Pix[y*dst.Stride+x] = clampUint8((1-wy)*top + wy*bottom)
		}
	}

	return dst
}

// tileCurve builds the clipped equalisation curve of one tile.
func tileCurve(img *GrayImage, x0, y0, x1, y1 int, clipLimit float64) [256]uint8 {
	var hist [256]float64
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			hist[img.Pix[y*img.Stride+x]]++
		}
	}
	area := float64((x1 - x0) * (y1 - y0))

	if clipLimit > 0 {
		limit := clipLimit * area / 256
		var excess float64
		for i := range hist {
			if hist[i] > limit {
				excess += hist[i] - limit
				hist[i] = limit
			}
		}
		inc := excess / 256
		for i := range hist {
			hist[i] += inc
		}
	}

	var lut [256]uint8
	var cdf float64
	for i := range hist {
		cdf += hist[i]
		lut[i] = clampUint8(cdf * 255 / area)
	}
	return lut
}

// neighbourTiles returns the two tile indices whose centres bracket the
// pixel centre at pos, and the weight of the second one.
func neighbourTiles(pos, tileSize float64, tiles int) (a, b int, w float64) {
	f := (pos+0.5)/tileSize - 0.5
	a = int(math.Floor(f))
	w = f - float64(a)
	b = a + 1
	if a < 0 {
		a, b, w = 0, 0, 0
	}
	if b > tiles-1 {
		b = tiles - 1
		if a > b {
			a = b
		}
		w = 0
	}
	return a, b, w
}
