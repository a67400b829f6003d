// Package imageutil provides the pure Go raster primitives used by the
// font identification pipeline: grayscale conversion, resampling,
// convolution, local contrast equalisation, automatic thresholding and
// connected component labelling.
package imageutil

import (
	"image"
	"image/color"
)

// RGB represents a color in the RGB color space with 8-bit channels.
type RGB struct {
	R, G, B uint8
}

// RGBAImage wraps image.RGBA with convenience methods for pixel access.
// The wrapped image always has its origin at (0, 0).
type RGBAImage struct {
	*image.RGBA
}

// NewRGBAImage creates a new RGBAImage with the specified dimensions.
func NewRGBAImage(width, height int) *RGBAImage {
	return &RGBAImage{
		RGBA: image.NewRGBA(image.Rect(0, 0, width, height)),
	}
}

// RGBAImageFromImage converts any image.Image to an RGBAImage anchored
// at the origin.
func RGBAImageFromImage(img image.Image) *RGBAImage {
	bounds := img.Bounds()
	rgba := NewRGBAImage(bounds.Dx(), bounds.Dy())

	if src, ok := img.(*image.RGBA); ok {
		for y := 0; y < bounds.Dy(); y++ {
			srcOff := src.PixOffset(bounds.Min.X, bounds.Min.Y+y)
			copy(rgba.Pix[y*rgba.Stride:y*rgba.Stride+bounds.Dx()*4], src.Pix[srcOff:srcOff+bounds.Dx()*4])
		}
		return rgba
	}

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			rgba.Set(x-bounds.Min.X, y-bounds.Min.Y, img.At(x, y))
		}
	}
	return rgba
}

// Width returns the image width.
func (img *RGBAImage) Width() int {
	return img.Bounds().Dx()
}

// Height returns the image height.
func (img *RGBAImage) Height() int {
	return img.Bounds().Dy()
}

// SetRGB sets the RGB value at (x, y).
func (img *RGBAImage) SetRGB(x, y int, c RGB) {
	img.SetRGBA(x, y, color.RGBA{R: c.R, G: c.G, B: c.B, A: 255})
}

// GrayImage wraps image.Gray for single-channel images such as
// luminance planes, binary masks and normalized glyphs. The wrapped
// image always has its origin at (0, 0).
type GrayImage struct {
	*image.Gray
}

// NewGrayImage creates a new GrayImage with the specified dimensions.
func NewGrayImage(width, height int) *GrayImage {
	return &GrayImage{
		Gray: image.NewGray(image.Rect(0, 0, width, height)),
	}
}

// NewFilledGrayImage creates a GrayImage with every pixel set to v.
func NewFilledGrayImage(width, height int, v uint8) *GrayImage {
	img := NewGrayImage(width, height)
	for i := range img.Pix {
		img.Pix[i] = v
	}
	return img
}

// GrayImageFromImage converts any image.Image to a GrayImage anchored at
// the origin. Colour sources are converted with ToGrayscale.
func GrayImageFromImage(img image.Image) *GrayImage {
	switch v := img.(type) {
	case *GrayImage:
		return v.Clone()
	case *RGBAImage:
		return ToGrayscale(v)
	}
	if g, ok := img.(*image.Gray); ok {
		b := g.Bounds()
		out := NewGrayImage(b.Dx(), b.Dy())
		for y := 0; y < b.Dy(); y++ {
			off := g.PixOffset(b.Min.X, b.Min.Y+y)
			copy(out.Pix[y*out.Stride:y*out.Stride+b.Dx()], g.Pix[off:off+b.Dx()])
		}
		return out
	}
	return ToGrayscale(RGBAImageFromImage(img))
}

// Width returns the image width.
func (img *GrayImage) Width() int {
	return img.Bounds().Dx()
}

// Height returns the image height.
func (img *GrayImage) Height() int {
	return img.Bounds().Dy()
}

// GetGray returns the grayscale value at (x, y).
func (img *GrayImage) GetGray(x, y int) uint8 {
	return img.Pix[y*img.Stride+x]
}

// SetGrayValue sets the grayscale value at (x, y).
func (img *GrayImage) SetGrayValue(x, y int, v uint8) {
	img.Pix[y*img.Stride+x] = v
}

// Clone creates a deep copy of the image.
func (img *GrayImage) Clone() *GrayImage {
	clone := NewGrayImage(img.Width(), img.Height())
	for y := 0; y < img.Height(); y++ {
		copy(clone.Pix[y*clone.Stride:y*clone.Stride+img.Width()],
			img.Pix[y*img.Stride:y*img.Stride+img.Width()])
	}
	return clone
}

// Crop copies the pixels inside r into a new image anchored at the origin.
// r is clipped to the image bounds; an empty intersection yields nil.
func (img *GrayImage) Crop(r image.Rectangle) *GrayImage {
	r = r.Intersect(img.Bounds())
	if r.Empty() {
		return nil
	}
	out := NewGrayImage(r.Dx(), r.Dy())
	for y := 0; y < r.Dy(); y++ {
		off := (r.Min.Y+y)*img.Stride + r.Min.X
		copy(out.Pix[y*out.Stride:y*out.Stride+r.Dx()], img.Pix[off:off+r.Dx()])
	}
	return out
}

// Invert returns the photographic negative of the image.
func (img *GrayImage) Invert() *GrayImage {
	out := NewGrayImage(img.Width(), img.Height())
	for y := 0; y < img.Height(); y++ {
		for x := 0; x < img.Width(); x++ {
			out.Pix[y*out.Stride+x] = 255 - img.Pix[y*img.Stride+x]
		}
	}
	return out
}

// Histogram returns the 256-bin intensity histogram of the image.
func (img *GrayImage) Histogram() [256]int {
	var hist [256]int
	for y := 0; y < img.Height(); y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+img.Width()]
		for _, v := range row {
			hist[v]++
		}
	}
	return hist
}

// Equal reports whether both images have the same size and pixels.
func (img *GrayImage) Equal(other *GrayImage) bool {
	if other == nil || img.Width() != other.Width() || img.Height() != other.Height() {
		return false
	}
	for y := 0; y < img.Height(); y++ {
		for x := 0; x < img.Width(); x++ {
			if img.Pix[y*img.Stride+x] != other.Pix[y*other.Stride+x] {
				return false
			}
		}
	}
	return true
}
