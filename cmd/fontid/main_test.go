package main

import (
	"bytes"
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/golang/freetype"
	"github.com/wbrown/fontid"
	"github.com/wbrown/fontid/imageutil"
	"golang.org/x/image/font/gofont/goregular"
)

var (
	white = imageutil.RGB{R: 255, G: 255, B: 255}
	black = imageutil.RGB{R: 0, G: 0, B: 0}
)

// writeModel renders a few Go Regular glyphs into the layout font2glyph
// writes and points -model at it.
func writeModel(t *testing.T) {
	t.Helper()
	f, err := freetype.ParseFont(goregular.TTF)
	if err != nil {
		t.Fatal(err)
	}

	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "Go-Regular"), 0755); err != nil {
		t.Fatal(err)
	}
	gr := fontid.NewGlyphRenderer(fontid.DefaultConfig())
	for _, r := range "HTo" {
		g, err := gr.Render(f, r)
		if err != nil {
			t.Fatal(err)
		}
		path := filepath.Join(dir, "Go-Regular", string(r)+".png")
		if err := imageutil.SaveGrayImage(g.GrayImage, path); err != nil {
			t.Fatal(err)
		}
	}
	labels, err := fontid.NewLabelSet("Go-Regular")
	if err != nil {
		t.Fatal(err)
	}
	if err := fontid.WriteLabelSet(filepath.Join(dir, "class_indices.json"), labels); err != nil {
		t.Fatal(err)
	}

	old := *modelDir
	*modelDir = dir
	t.Cleanup(func() { *modelDir = old })
}

func writePage(t *testing.T, page *imageutil.RGBAImage) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "page.png")
	if err := imageutil.SavePNG(page, path); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunBlankPage(t *testing.T) {
	writeModel(t)
	page := imageutil.ApplyShadow(imageutil.CreateSolidImage(200, 100, white), 0.4)

	var out bytes.Buffer
	if err := run(&out, writePage(t, page)); err != nil {
		t.Fatalf("A blank page should not be an error: %v", err)
	}
	if got := out.String(); got != "No characters detected.\n" {
		t.Errorf("Expected the no characters message, got %q", got)
	}
}

func TestRunPrintsPredictions(t *testing.T) {
	writeModel(t)
	page := imageutil.CreateBlocksImage(120, 60, white, black, image.Rect(20, 10, 40, 50))

	var out bytes.Buffer
	if err := run(&out, writePage(t, page)); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	want := "Font predictions:\nGo-Regular: 1.0000\n"
	if got := out.String(); got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestRunMissingImage(t *testing.T) {
	writeModel(t)
	var out bytes.Buffer
	if err := run(&out, filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Error("Expected an error for a missing image")
	}
	if out.Len() != 0 {
		t.Errorf("Expected no output on failure, got %q", out.String())
	}
}
