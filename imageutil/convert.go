package imageutil

// ToGrayscale converts an RGBA image to grayscale using the standard
// luminance formula: Y = 0.299*R + 0.587*G + 0.114*B
// This matches the BT.601 standard used by OpenCV's COLOR_BGR2GRAY.
// Alpha is ignored; transparent pixels convert by their stored colour.
func ToGrayscale(img *RGBAImage) *GrayImage {
	width, height := img.Width(), img.Height()
	gray := NewGrayImage(width, height)

	for y := 0; y < height; y++ {
		src := img.Pix[y*img.Stride : y*img.Stride+width*4]
		dst := gray.Pix[y*gray.Stride : y*gray.Stride+width]
		for x := range dst {
			r, g, b := int(src[x*4]), int(src[x*4+1]), int(src[x*4+2])
			// Integer math, scaled by 1000 and rounded
			lum := (299*r + 587*g + 114*b + 500) / 1000
			if lum > 255 {
				lum = 255
			}
			dst[x] = uint8(lum)
		}
	}

	return gray
}
