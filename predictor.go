package fontid

import (
	"context"
	"errors"
	"image"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/wbrown/fontid/imageutil"
	"golang.org/x/sync/errgroup"
)

// Predictor runs the whole identification pipeline for one image at a
// time. It holds the canonical label set and the classifier, both
// read-only, so a single Predictor may serve concurrent calls.
type Predictor struct {
	labels     *LabelSet
	classifier Classifier
	cfg        Config
	normalizer *Normalizer
	exporter   *Exporter
	logger     log.FieldLogger
}

// PredictorOption is a functional option for configuring a Predictor.
type PredictorOption func(*Predictor)

// WithConfig replaces DefaultConfig.
func WithConfig(cfg Config) PredictorOption {
	return func(p *Predictor) {
		p.cfg = cfg
	}
}

// WithWorkers sets the number of glyphs classified concurrently.
func WithWorkers(n int) PredictorOption {
	return func(p *Predictor) {
		p.cfg.Workers = n
	}
}

// WithLogger sets the logger; the default is the logrus standard logger.
func WithLogger(logger log.FieldLogger) PredictorOption {
	return func(p *Predictor) {
		p.logger = logger
	}
}

// WithExporter writes debug images after every successful prediction.
func WithExporter(e *Exporter) PredictorOption {
	return func(p *Predictor) {
		p.exporter = e
	}
}

// NewPredictor creates a Predictor. Options are applied in order, so
// WithWorkers after WithConfig overrides the config's worker count.
func NewPredictor(labels *LabelSet, classifier Classifier, opts ...PredictorOption) (*Predictor, error) {
	if labels == nil {
		return nil, configErrorf("new predictor", "no label set")
	}
	if classifier == nil {
		return nil, classifierError("new predictor", "", errors.New("no classifier"))
	}

	p := &Predictor{
		labels:     labels,
		classifier: classifier,
		cfg:        DefaultConfig(),
		logger:     log.StandardLogger(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if err := p.cfg.Validate(); err != nil {
		return nil, err
	}
	p.normalizer = NewNormalizer(p.cfg)
	return p, nil
}

// Config returns the configuration in use.
func (p *Predictor) Config() Config {
	return p.cfg
}

// Labels returns the canonical label set.
func (p *Predictor) Labels() *LabelSet {
	return p.labels
}

// Result is the outcome of one prediction.
type Result struct {
	// Ranking covers every canonical label.
	Ranking RankedPrediction
	// Candidates are the segmented regions that produced Glyphs, in order.
	Candidates []GlyphCandidate
	Glyphs     []*NormalizedGlyph
	Threshold  uint8
	Polarity   Polarity
}

// NoEvidence reports that no glyph reached the classifier, in which case
// every label in Ranking scores 0.
func (r *Result) NoEvidence() bool {
	return len(r.Glyphs) == 0
}

// PredictFile loads the image at path and runs Predict on it.
func (p *Predictor) PredictFile(ctx context.Context, path string) (*Result, error) {
	img, err := imageutil.LoadImage(path)
	if err != nil {
		return nil, loadError("predict", path, err)
	}
	p.logger.WithFields(log.Fields{
		"path":   path,
		"width":  img.Width(),
		"height": img.Height(),
	}).Debug("Loaded image")
	return p.Predict(ctx, img)
}

// Predict identifies the font of the text in img. A page without glyphs
// is not an error; see Result.NoEvidence. A classifier failure aborts the
// whole prediction.
func (p *Predictor) Predict(ctx context.Context, img image.Image) (*Result, error) {
	start := time.Now()

	mask, err := Preprocess(img, p.cfg)
	if err != nil {
		return nil, err
	}
	p.logger.WithFields(log.Fields{
		"stage":     "preprocess",
		"threshold": mask.Threshold,
		"polarity":  mask.Polarity,
	}).Debug("Binarized image")

	candidates := Segment(mask, p.cfg)
	p.logger.WithFields(log.Fields{
		"stage":  "segment",
		"glyphs": len(candidates),
	}).Debug("Detected characters")

	res := &Result{Threshold: mask.Threshold, Polarity: mask.Polarity}
	for _, c := range candidates {
		g, err := p.normalizer.Normalize(c)
		if err != nil {
			p.logger.WithField("index", c.Index).WithError(err).Debug("Dropped glyph")
			continue
		}
		res.Candidates = append(res.Candidates, c)
		res.Glyphs = append(res.Glyphs, g)
	}

	predictions, err := p.classifyAll(ctx, res.Glyphs)
	if err != nil {
		return nil, err
	}
	res.Ranking = Aggregate(p.labels, predictions)

	p.logger.WithFields(log.Fields{
		"stage":    "aggregate",
		"glyphs":   len(res.Glyphs),
		"duration": time.Since(start),
	}).Debug("Predicted fonts")

	if p.exporter != nil {
		p.export(img, res)
	}
	return res, nil
}

// classifyAll classifies every glyph with at most cfg.Workers in flight.
// Predictions keep the glyph order.
func (p *Predictor) classifyAll(ctx context.Context, glyphs []*NormalizedGlyph) ([]RankedPrediction, error) {
	predictions := make([]RankedPrediction, len(glyphs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.Workers)
	for i, glyph := range glyphs {
		g.Go(func() error {
			in := p.normalizer.Resample(glyph, p.cfg.ClassifierSize)
			pred, err := p.classifier.Classify(gctx, in)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
					return err
				}
				p.logger.WithField("index", i).WithError(err).Error("Classification failed")
				if errors.Is(err, ErrClassifierUnavailable) {
					return err
				}
				return classifierError("classify", "", err)
			}
			predictions[i] = pred
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return predictions, nil
}

func (p *Predictor) export(img image.Image, res *Result) {
	if err := p.exporter.WriteGlyphs(res.Glyphs); err != nil {
		p.logger.WithError(err).Warn("Failed to export glyphs")
	}
	if err := p.exporter.WriteOverlay(img, res.Candidates); err != nil {
		p.logger.WithError(err).Warn("Failed to export overlay")
	}
	p.logger.WithField("dir", p.exporter.Dir).Debug("Exported character images")
}
