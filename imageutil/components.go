package imageutil

import "image"

// Component is a maximal 8-connected region of foreground pixels.
type Component struct {
	// Label is the 1-based label assigned in raster scan order of the
	// component's first pixel.
	Label int
	// Bounds is the tight bounding box of the region.
	Bounds image.Rectangle
	// Area is the number of foreground pixels in the region.
	Area int
	// External is false when the region lies inside a hole of another
	// region, e.g. a dot drawn inside an "o".
	External bool
}

// Labels holds the per-pixel component labels of a mask; 0 is background.
type Labels struct {
	Width, Height int
	Pix           []int32
}

// At returns the label at (x, y).
func (l *Labels) At(x, y int) int {
	return int(l.Pix[y*l.Width+x])
}

var (
	neighbours8 = [8]image.Point{{-1, -1}, {0, -1}, {1, -1}, {-1, 0}, {1, 0}, {-1, 1}, {0, 1}, {1, 1}}
	neighbours4 = [4]image.Point{{0, -1}, {-1, 0}, {1, 0}, {0, 1}}
)

// LabelComponents labels the 8-connected regions of pixels equal to fg.
// Components are returned in raster order of their first pixel. Pixels
// beyond the image edge count as background, so regions touching the
// border are always external.
func LabelComponents(mask *GrayImage, fg uint8) (*Labels, []Component) {
	width, height := mask.Width(), mask.Height()
	labels := &Labels{Width: width, Height: height, Pix: make([]int32, width*height)}
	var comps []Component
	var stack []image.Point

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if mask.Pix[y*mask.Stride+x] != fg || labels.Pix[y*width+x] != 0 {
				continue
			}
			label := int32(len(comps) + 1)
			comp := Component{Label: int(label), Bounds: image.Rect(x, y, x+1, y+1)}

			labels.Pix[y*width+x] = label
			stack = append(stack[:0], image.Pt(x, y))
			for len(stack) > 0 {
				p := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				comp.Area++
				comp.Bounds = comp.Bounds.Union(image.Rect(p.X, p.Y, p.X+1, p.Y+1))

				for _, d := range neighbours8 {
					nx, ny := p.X+d.X, p.Y+d.Y
					if nx < 0 || ny < 0 || nx >= width || ny >= height {
						continue
					}
					i := ny*width + nx
					if labels.Pix[i] == 0 && mask.Pix[ny*mask.Stride+nx] == fg {
						labels.Pix[i] = label
						stack = append(stack, image.Pt(nx, ny))
					}
				}
			}
			comps = append(comps, comp)
		}
	}

	markExternal(mask, fg, labels, comps)
	return labels, comps
}

// markExternal flood fills the background that is 4-connected to the
// image frame and flags every component that touches it.
func markExternal(mask *GrayImage, fg uint8, labels *Labels, comps []Component) {
	width, height := labels.Width, labels.Height
	outside := make([]bool, width*height)
	var stack []image.Point

	push := func(x, y int) {
		i := y*width + x
		if !outside[i] && mask.Pix[y*mask.Stride+x] != fg {
			outside[i] = true
			stack = append(stack, image.Pt(x, y))
		}
	}
	for x := 0; x < width; x++ {
		push(x, 0)
		push(x, height-1)
	}
	for y := 0; y < height; y++ {
		push(0, y)
		push(width-1, y)
	}

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, d := range neighbours4 {
			nx, ny := p.X+d.X, p.Y+d.Y
			if nx < 0 || ny < 0 || nx >= width || ny >= height {
				continue
			}
			push(nx, ny)
		}
	}

	for i := range comps {
		b := comps[i].Bounds
		if b.Min.X == 0 || b.Min.Y == 0 || b.Max.X == width || b.Max.Y == height {
			comps[i].External = true
		}
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			label := labels.Pix[y*width+x]
			if label == 0 || comps[label-1].External {
				continue
			}
			for _, d := range neighbours4 {
				nx, ny := x+d.X, y+d.Y
				if nx < 0 || ny < 0 || nx >= width || ny >= height {
					continue
				}
				if outside[ny*width+nx] {
					comps[label-1].External = true
					break
				}
			}
		}
	}
}
