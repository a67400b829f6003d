package fontid

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/golang/freetype/truetype"
	"github.com/wbrown/fontid/imageutil"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
)

const prototypeChars = "ABCEHKRSTaegmrs"

// renderPrototypes renders prototypeChars in each font, keyed by label.
func renderPrototypes(t *testing.T, cfg Config, fonts map[string]*truetype.Font) map[string][]*NormalizedGlyph {
	t.Helper()
	gr := NewGlyphRenderer(cfg)
	protos := make(map[string][]*NormalizedGlyph)
	for label, f := range fonts {
		for _, r := range prototypeChars {
			g, err := gr.Render(f, r)
			if err != nil {
				t.Fatalf("Render %q in %s: %v", r, label, err)
			}
			protos[label] = append(protos[label], g)
		}
	}
	return protos
}

func testFonts(t *testing.T) map[string]*truetype.Font {
	return map[string]*truetype.Font{
		"Go-Regular": parseTestFont(t, goregular.TTF),
		"Go-Mono":    parseTestFont(t, gomono.TTF),
	}
}

func TestTemplateClassifier(t *testing.T) {
	cfg := DefaultConfig()
	fonts := testFonts(t)
	labels := mustLabels(t, "Go-Mono", "Go-Regular")

	tc, err := NewTemplateClassifier(labels, renderPrototypes(t, cfg, fonts), cfg)
	if err != nil {
		t.Fatalf("NewTemplateClassifier failed: %v", err)
	}

	gr := NewGlyphRenderer(cfg)
	for label, f := range fonts {
		for _, r := range "Reg" {
			g, err := gr.Render(f, r)
			if err != nil {
				t.Fatal(err)
			}
			pred, err := tc.Classify(context.Background(), g)
			if err != nil {
				t.Fatalf("Classify failed: %v", err)
			}
			if len(pred) != labels.Len() {
				t.Fatalf("Expected %d scores, got %d", labels.Len(), len(pred))
			}
			if pred[0].Label != label {
				t.Errorf("%q in %s: expected top label %s, got %v", r, label, label, pred)
			}
			if total := pred.Total(); total < 0.999999 || total > 1.000001 {
				t.Errorf("Scores should sum to 1, got %f", total)
			}
		}
	}
}

func TestTemplateClassifierMissingPrototypes(t *testing.T) {
	cfg := DefaultConfig()
	labels := mustLabels(t, "Go-Mono", "Go-Regular", "Go-Bold")

	_, err := NewTemplateClassifier(labels, renderPrototypes(t, cfg, testFonts(t)), cfg)
	if !errors.Is(err, ErrClassifierUnavailable) {
		t.Errorf("Expected ErrClassifierUnavailable, got %v", err)
	}

	protos := map[string][]*NormalizedGlyph{
		"Go-Mono":    {{GrayImage: imageutil.NewFilledGrayImage(200, 200, GlyphPaper)}},
		"Go-Regular": {{GrayImage: imageutil.NewFilledGrayImage(200, 200, GlyphPaper)}},
		"Go-Bold":    {{GrayImage: imageutil.NewFilledGrayImage(200, 200, GlyphPaper)}},
		"Helvetica":  {{GrayImage: imageutil.NewFilledGrayImage(200, 200, GlyphPaper)}},
	}
	if _, err := NewTemplateClassifier(labels, protos, cfg); !errors.Is(err, ErrClassifierUnavailable) {
		t.Errorf("Expected ErrClassifierUnavailable for an unknown label, got %v", err)
	}
}

func TestTemplateClassifierCancelled(t *testing.T) {
	cfg := DefaultConfig()
	labels := mustLabels(t, "Go-Mono", "Go-Regular")
	tc, err := NewTemplateClassifier(labels, renderPrototypes(t, cfg, testFonts(t)), cfg)
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	g := &NormalizedGlyph{GrayImage: imageutil.NewFilledGrayImage(200, 200, GlyphPaper)}
	if _, err := tc.Classify(ctx, g); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestLoadTemplateClassifier(t *testing.T) {
	cfg := DefaultConfig()
	dir := t.TempDir()
	protos := renderPrototypes(t, cfg, testFonts(t))
	for label, glyphs := range protos {
		if err := os.MkdirAll(filepath.Join(dir, label), 0755); err != nil {
			t.Fatal(err)
		}
		for i, g := range glyphs {
			path := filepath.Join(dir, label, fmt.Sprintf("%02d.png", i))
			if err := imageutil.SaveGrayImage(g.GrayImage, path); err != nil {
				t.Fatal(err)
			}
		}
	}

	labels := mustLabels(t, "Go-Mono", "Go-Regular")
	tc, err := LoadTemplateClassifier(dir, labels, cfg)
	if err != nil {
		t.Fatalf("LoadTemplateClassifier failed: %v", err)
	}

	pred, err := tc.Classify(context.Background(), protos["Go-Mono"][3])
	if err != nil {
		t.Fatal(err)
	}
	if pred[0].Label != "Go-Mono" {
		t.Errorf("Expected Go-Mono, got %v", pred)
	}

	if _, err := LoadTemplateClassifier(filepath.Join(dir, "missing"), labels, cfg); !errors.Is(err, ErrClassifierUnavailable) {
		t.Errorf("Expected ErrClassifierUnavailable for a missing dir, got %v", err)
	}
}
