package fontid

import (
	"image"
	"testing"

	"github.com/wbrown/fontid/imageutil"
)

// maskOf binarises a synthetic dark-on-light page without equalisation.
func maskOf(page *imageutil.RGBAImage) *BinaryMask {
	return &BinaryMask{
		GrayImage: imageutil.Binarize(imageutil.ToGrayscale(page), 128, true),
		Threshold: 128,
	}
}

func TestSegmentMinAreaFilter(t *testing.T) {
	page := imageutil.CreateBlocksImage(100, 40, white, black,
		image.Rect(5, 5, 10, 10),   // 5x5 speck, area 25
		image.Rect(30, 5, 50, 25),  // 20x20 stroke, area 400
		image.Rect(70, 5, 77, 12),  // 7x7, area 49
		image.Rect(80, 30, 90, 35), // 10x5, area 50
	)

	candidates := Segment(maskOf(page), DefaultConfig())
	if len(candidates) != 2 {
		t.Fatalf("Expected 2 candidates, got %d", len(candidates))
	}
	if candidates[0].Bounds != image.Rect(30, 5, 50, 25) || candidates[0].Area != 400 {
		t.Errorf("Unexpected first candidate %v area %d", candidates[0].Bounds, candidates[0].Area)
	}
	if candidates[1].Area != 50 {
		t.Errorf("Expected a region of exactly the minimum area to be kept, got area %d", candidates[1].Area)
	}
}

func TestSegmentConfigurableMinArea(t *testing.T) {
	page := imageutil.CreateBlocksImage(40, 20, white, black, image.Rect(5, 5, 10, 10))
	cfg := DefaultConfig()
	cfg.MinArea = 20
	if n := len(Segment(maskOf(page), cfg)); n != 1 {
		t.Errorf("Expected the speck to pass a lower threshold, got %d candidates", n)
	}
}

func TestSegmentRejectsOversizedRegions(t *testing.T) {
	page := imageutil.CreateBlocksImage(100, 40, white, black,
		// An edge along two borders: little ink, a box over half the page.
		image.Rect(0, 0, 60, 5),
		image.Rect(0, 0, 5, 40),
		image.Rect(70, 10, 85, 30), // glyph
	)

	candidates := Segment(maskOf(page), DefaultConfig())
	if len(candidates) != 1 {
		t.Fatalf("Expected only the glyph, got %d candidates", len(candidates))
	}
	if candidates[0].Bounds != image.Rect(70, 10, 85, 30) {
		t.Errorf("Expected the glyph, got %v", candidates[0].Bounds)
	}

	// Away from the border only the ink area counts, so a thin frame
	// around most of the page is kept.
	frame := imageutil.CreateRingImage(100, 40, image.Rect(2, 2, 98, 38), 3, 0, white, black)
	if n := len(Segment(maskOf(frame), DefaultConfig())); n != 1 {
		t.Errorf("Expected the frame to be kept, got %d candidates", n)
	}

	// A solid region holding most of the page is rejected wherever it is.
	slab := imageutil.CreateBlocksImage(100, 40, white, black, image.Rect(2, 2, 98, 38))
	if n := len(Segment(maskOf(slab), DefaultConfig())); n != 0 {
		t.Errorf("Expected the slab to be rejected, got %d candidates", n)
	}

	cfg := DefaultConfig()
	cfg.MaxRegionFraction = 1
	if n := len(Segment(maskOf(page), cfg)); n != 2 {
		t.Errorf("Expected the filter to be disabled, got %d candidates", n)
	}
}

func TestSegmentBlankMask(t *testing.T) {
	mask, err := Preprocess(imageutil.CreateSolidImage(64, 64, white), DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	if candidates := Segment(mask, DefaultConfig()); len(candidates) != 0 {
		t.Errorf("Expected no candidates on a blank page, got %d", len(candidates))
	}
}

func TestSegmentSkipsEnclosedRegions(t *testing.T) {
	page := imageutil.CreateRingImage(60, 60, image.Rect(10, 10, 50, 50), 6, 10, white, black)

	candidates := Segment(maskOf(page), DefaultConfig())
	if len(candidates) != 1 {
		t.Fatalf("Expected only the outer ring, got %d candidates", len(candidates))
	}
	if candidates[0].Bounds != image.Rect(10, 10, 50, 50) {
		t.Errorf("Expected ring bounds, got %v", candidates[0].Bounds)
	}
	// The dot stays in the crop.
	if v := candidates[0].Image.GetGray(20, 20); v != MaskInk {
		t.Errorf("Expected enclosed ink inside the crop, got %d", v)
	}
}

func TestSegmentReadingOrder(t *testing.T) {
	page := imageutil.CreateBlocksImage(100, 80, white, black,
		image.Rect(50, 10, 60, 30), // B: first in raster order
		image.Rect(10, 12, 20, 28), // A: same line, further left
		image.Rect(30, 50, 40, 70), // D
		image.Rect(10, 52, 20, 68), // C
	)
	mask := maskOf(page)

	cfg := DefaultConfig()
	got := Segment(mask, cfg)
	want := []image.Point{{10, 12}, {50, 10}, {10, 52}, {30, 50}}
	if len(got) != len(want) {
		t.Fatalf("Expected %d candidates, got %d", len(want), len(got))
	}
	for i, c := range got {
		if c.Bounds.Min != want[i] {
			t.Errorf("Reading order %d: expected %v, got %v", i, want[i], c.Bounds.Min)
		}
		if c.Index != i {
			t.Errorf("Expected index %d, got %d", i, c.Index)
		}
	}

	cfg.ReadingOrder = false
	raster := Segment(mask, cfg)
	wantRaster := []image.Point{{50, 10}, {10, 12}, {30, 50}, {10, 52}}
	for i, c := range raster {
		if c.Bounds.Min != wantRaster[i] {
			t.Errorf("Raster order %d: expected %v, got %v", i, wantRaster[i], c.Bounds.Min)
		}
	}
}

func TestSegmentCropIsMaskInsideBounds(t *testing.T) {
	page := imageutil.CreateBlocksImage(40, 40, white, black, image.Rect(5, 5, 25, 15), image.Rect(5, 15, 10, 35))
	candidates := Segment(maskOf(page), DefaultConfig())
	if len(candidates) != 1 {
		t.Fatalf("Expected one L-shaped candidate, got %d", len(candidates))
	}
	c := candidates[0]
	if c.Image.Width() != 20 || c.Image.Height() != 30 {
		t.Errorf("Expected 20x30 crop, got %dx%d", c.Image.Width(), c.Image.Height())
	}
	if c.Image.GetGray(0, 29) != MaskInk || c.Image.GetGray(19, 29) != MaskPaper {
		t.Error("Crop does not match the mask")
	}
}

func TestSegmentDeterministic(t *testing.T) {
	page := imageutil.ApplyShadow(twoBlockPage(paper, ink), 0.4)
	mask, _ := Preprocess(page, DefaultConfig())

	a := Segment(mask, DefaultConfig())
	b := Segment(mask, DefaultConfig())
	if len(a) != len(b) {
		t.Fatalf("Candidate counts differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].Bounds != b[i].Bounds || !a[i].Image.Equal(b[i].Image) {
			t.Errorf("Candidate %d differs between runs", i)
		}
	}
}
