package fontid

import (
	"context"
	"fmt"
	"image"
	"math"
	"os"
	"path/filepath"
	"sort"

	"github.com/steakknife/hamming"
	"github.com/wbrown/fontid/imageutil"
)

// glyphBits is a glyph binarised at mid-grey and packed eight pixels per
// byte, ink set.
type glyphBits []uint8

func packGlyph(g *imageutil.GrayImage) glyphBits {
	n := g.Width() * g.Height()
	bits := make(glyphBits, (n+7)/8)
	i := 0
	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			if g.Pix[y*g.Stride+x] < 128 {
				bits[i/8] |= 1 << uint(i%8)
			}
			i++
		}
	}
	return bits
}

// TemplateClassifier scores a glyph against rendered reference glyphs of
// every font. Each label's raw score is the best bitwise similarity over
// its prototypes; a softmax at the configured temperature turns the raw
// scores into a distribution.
type TemplateClassifier struct {
	labels        *LabelSet
	size          image.Point
	interpolation imageutil.Interpolation
	temperature   float64
	prototypes    [][]glyphBits // by label index
}

// NewTemplateClassifier builds a classifier from in-memory prototypes keyed
// by label. Every canonical label needs at least one prototype.
func NewTemplateClassifier(labels *LabelSet, prototypes map[string][]*NormalizedGlyph, cfg Config) (*TemplateClassifier, error) {
	if labels == nil {
		return nil, configErrorf("template classifier", "no label set")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	tc := &TemplateClassifier{
		labels:        labels,
		size:          cfg.ClassifierSize,
		interpolation: cfg.Interpolation,
		temperature:   cfg.Temperature,
		prototypes:    make([][]glyphBits, labels.Len()),
	}
	for name, glyphs := range prototypes {
		i := labels.Index(name)
		if i < 0 {
			return nil, classifierError("template classifier", "", fmt.Errorf("prototypes for unknown label %q", name))
		}
		for _, g := range glyphs {
			tc.prototypes[i] = append(tc.prototypes[i], tc.pack(g))
		}
	}
	for i, protos := range tc.prototypes {
		if len(protos) == 0 {
			return nil, classifierError("template classifier", "", fmt.Errorf("no prototypes for label %q", labels.Name(i)))
		}
	}
	return tc, nil
}

// LoadTemplateClassifier loads prototypes from dir/<label>/*.png, the
// layout font2glyph writes.
func LoadTemplateClassifier(dir string, labels *LabelSet, cfg Config) (*TemplateClassifier, error) {
	if _, err := os.Stat(dir); err != nil {
		return nil, classifierError("load templates", dir, err)
	}
	if labels == nil {
		return nil, configErrorf("load templates", "no label set")
	}

	prototypes := make(map[string][]*NormalizedGlyph, labels.Len())
	for _, name := range labels.Names() {
		paths, err := filepath.Glob(filepath.Join(dir, name, "*.png"))
		if err != nil {
			return nil, classifierError("load templates", dir, err)
		}
		sort.Strings(paths)
		for _, path := range paths {
			g, err := LoadGlyph(path)
			if err != nil {
				return nil, classifierError("load templates", path, err)
			}
			prototypes[name] = append(prototypes[name], g)
		}
	}
	return NewTemplateClassifier(labels, prototypes, cfg)
}

func (tc *TemplateClassifier) pack(g *NormalizedGlyph) glyphBits {
	return packGlyph(imageutil.ResizeGray(g.GrayImage, tc.size.X, tc.size.Y, tc.interpolation))
}

// Labels returns the label set the classifier scores.
func (tc *TemplateClassifier) Labels() *LabelSet {
	return tc.labels
}

// Classify implements Classifier.
func (tc *TemplateClassifier) Classify(ctx context.Context, glyph *NormalizedGlyph) (RankedPrediction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if glyph == nil || glyph.GrayImage == nil || glyph.Bounds().Empty() {
		return nil, classifierError("classify", "", ErrDegenerateGlyph)
	}

	in := tc.pack(glyph)
	total := float64(tc.size.X * tc.size.Y)

	raw := make([]float64, len(tc.prototypes))
	best := math.Inf(-1)
	for i, protos := range tc.prototypes {
		raw[i] = math.Inf(-1)
		for _, p := range protos {
			s := 1 - float64(hamming.Uint8s(in, p))/total
			if s > raw[i] {
				raw[i] = s
			}
		}
		if raw[i] > best {
			best = raw[i]
		}
	}

	var sum float64
	for i := range raw {
		raw[i] = math.Exp((raw[i] - best) / tc.temperature)
		sum += raw[i]
	}

	pred := make(RankedPrediction, len(raw))
	for i, v := range raw {
		pred[i] = LabeledScore{Label: tc.labels.Name(i), Score: v / sum}
	}
	pred.Sort()
	return pred, nil
}
