package fontid

import (
	"errors"
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
)

func parseTestFont(t *testing.T, ttf []byte) *truetype.Font {
	t.Helper()
	f, err := freetype.ParseFont(ttf)
	if err != nil {
		t.Fatalf("Failed to parse font: %v", err)
	}
	return f
}

// darkest returns the lowest value of g inside r.
func darkest(g *NormalizedGlyph, r image.Rectangle) uint8 {
	v := uint8(255)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			v = min(v, g.GetGray(x, y))
		}
	}
	return v
}

func TestRenderGlyph(t *testing.T) {
	f := parseTestFont(t, goregular.TTF)
	gr := NewGlyphRenderer(DefaultConfig())

	g, err := gr.Render(f, 'H')
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if g.Width() != 200 || g.Height() != 200 {
		t.Fatalf("Expected 200x200 glyph, got %dx%d", g.Width(), g.Height())
	}

	// Cropped to the ink, so ink reaches every edge of the canvas.
	edges := map[string]image.Rectangle{
		"top":    image.Rect(0, 0, 200, 3),
		"bottom": image.Rect(0, 197, 200, 200),
		"left":   image.Rect(0, 0, 3, 200),
		"right":  image.Rect(197, 0, 200, 200),
	}
	for name, r := range edges {
		if v := darkest(g, r); v >= 128 {
			t.Errorf("Expected ink along the %s edge, darkest pixel is %d", name, v)
		}
	}
	// Both stems run the full height.
	for _, y := range []int{10, 100, 190} {
		if v := darkest(g, image.Rect(0, y, 40, y+1)); v >= 128 {
			t.Errorf("Expected the left stem at row %d, darkest pixel is %d", y, v)
		}
		if v := darkest(g, image.Rect(160, y, 200, y+1)); v >= 128 {
			t.Errorf("Expected the right stem at row %d, darkest pixel is %d", y, v)
		}
	}
	// The gap between the stems above the crossbar is paper.
	if v := g.GetGray(100, 20); v != GlyphPaper {
		t.Errorf("Expected paper inside the H, got %d", v)
	}
}

func TestRenderDeterministic(t *testing.T) {
	f := parseTestFont(t, goregular.TTF)
	gr := NewGlyphRenderer(DefaultConfig())
	a, _ := gr.Render(f, 'g')
	b, _ := gr.Render(f, 'g')
	if a == nil || !a.Equal(b.GrayImage) {
		t.Error("Rendering the same rune twice should give identical glyphs")
	}
}

func TestRenderDegenerate(t *testing.T) {
	f := parseTestFont(t, goregular.TTF)
	gr := NewGlyphRenderer(DefaultConfig())

	for _, r := range []rune{' ', '\U0001F600'} {
		if _, err := gr.Render(f, r); !errors.Is(err, ErrDegenerateGlyph) {
			t.Errorf("%q: expected ErrDegenerateGlyph, got %v", r, err)
		}
	}
}

func TestFontName(t *testing.T) {
	name := FontName(parseTestFont(t, gomono.TTF), "fallback")
	if name == "" || name == "fallback" {
		t.Fatalf("Expected the font's own name, got %q", name)
	}
	for _, r := range name {
		if r == ' ' {
			t.Errorf("Font name %q should not contain spaces", name)
		}
	}
}

func TestSanitizeFontName(t *testing.T) {
	tests := map[string]string{
		"Times New Roman":      "Times-New-Roman",
		`Foo: Bar/Baz "Bold"?`: "Foo-BarBaz-Bold",
		`<Weird>|Font*\Name`:   "WeirdFontName",
		"AlreadyClean-Regular": "AlreadyClean-Regular",
	}
	for in, want := range tests {
		if got := SanitizeFontName(in); got != want {
			t.Errorf("SanitizeFontName(%q): expected %q, got %q", in, want, got)
		}
	}
}

func TestLoadFont(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "goregular.ttf")
	if err := os.WriteFile(path, goregular.TTF, 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFont(path); err != nil {
		t.Errorf("LoadFont failed: %v", err)
	}

	bad := filepath.Join(dir, "bad.ttf")
	os.WriteFile(bad, []byte("not a font"), 0644)
	if _, err := LoadFont(bad); !errors.Is(err, ErrLoad) {
		t.Errorf("Expected ErrLoad for a corrupt font, got %v", err)
	}
	if _, err := LoadFont(filepath.Join(dir, "missing.ttf")); !errors.Is(err, ErrLoad) {
		t.Errorf("Expected ErrLoad for a missing font, got %v", err)
	}
}
