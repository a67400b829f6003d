package fontid

import (
	"context"

	"github.com/wbrown/fontid/imageutil"
)

// Classifier maps one normalized glyph to a score for every canonical
// label. Scores are non-negative and sum to 1. Implementations must be
// safe for concurrent use; the predictor classifies glyphs in parallel.
type Classifier interface {
	Classify(ctx context.Context, glyph *NormalizedGlyph) (RankedPrediction, error)
}

// ClassifierFunc adapts a plain function to the Classifier interface.
type ClassifierFunc func(ctx context.Context, glyph *NormalizedGlyph) (RankedPrediction, error)

// Classify calls f.
func (f ClassifierFunc) Classify(ctx context.Context, glyph *NormalizedGlyph) (RankedPrediction, error) {
	return f(ctx, glyph)
}

// LoadGlyph reads a glyph image from disk, e.g. one written by an
// Exporter or rendered by font2glyph. The image is converted to grayscale
// and otherwise used as is.
func LoadGlyph(path string) (*NormalizedGlyph, error) {
	gray, err := imageutil.LoadGrayImage(path)
	if err != nil {
		return nil, loadError("load glyph", path, err)
	}
	return &NormalizedGlyph{GrayImage: gray}, nil
}
