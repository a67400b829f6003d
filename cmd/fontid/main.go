// Command fontid predicts the typeface used in an image of text.
//
//	fontid -model glyphs/ page.png
//
// The model directory holds one sub-directory of reference glyphs per
// font, as written by font2glyph, and a class_indices.json label map.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/pterm/pterm"
	log "github.com/sirupsen/logrus"
	"github.com/wbrown/fontid"
)

var (
	modelDir   = flag.String("model", "", "Directory of reference glyphs (required)")
	labelsFile = flag.String("labels", "", "Class index file (default: <model>/class_indices.json)")
	verbose    = flag.Bool("v", false, "Verbose logging")
	exportDir  = flag.String("export", "", "Export normalized glyphs and a bounding box overlay to this directory")
	showScores = flag.Bool("scores", false, "Show the scores as a table")
	topN       = flag.Int("n", 5, "Number of fonts to print, 0 for all")
	workers    = flag.Int("workers", 0, "Number of glyphs to classify concurrently (default from FONTID_WORKERS or 1)")
	minArea    = flag.Int("min-area", 0, "Minimum glyph area in pixels (default from FONTID_MIN_AREA or 50)")
	timeout    = flag.Duration("timeout", 0, "Abort the prediction after this long, 0 for no limit")
)

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] IMAGE\n", filepath.Base(os.Args[0]))
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	flag.Parse()

	if *verbose {
		log.Info("Setting verbose logging")
		log.SetLevel(log.DebugLevel)
	}

	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warnf("Failed to load .env: %v", err)
	}

	if flag.NArg() != 1 || *modelDir == "" {
		usage()
		os.Exit(2)
	}

	if err := run(os.Stdout, flag.Arg(0)); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

// run predicts the fonts in imagePath and writes the result to out. A page
// without characters is a normal outcome and returns nil.
func run(out io.Writer, imagePath string) error {
	cfg, err := fontid.ConfigFromEnv()
	if err != nil {
		return err
	}
	if *workers > 0 {
		cfg.Workers = *workers
	}
	if *minArea > 0 {
		cfg.MinArea = *minArea
	}

	path := *labelsFile
	if path == "" {
		path = filepath.Join(*modelDir, "class_indices.json")
	}
	labels, err := fontid.LoadLabelSet(path)
	if err != nil {
		return err
	}

	start := time.Now()
	classifier, err := fontid.LoadTemplateClassifier(*modelDir, labels, cfg)
	if err != nil {
		return err
	}
	log.WithFields(log.Fields{
		"fonts":    labels.Len(),
		"duration": time.Since(start),
	}).Debug("Loaded reference glyphs")

	opts := []fontid.PredictorOption{fontid.WithConfig(cfg)}
	if *exportDir != "" {
		opts = append(opts, fontid.WithExporter(fontid.NewExporter(*exportDir)))
	}
	predictor, err := fontid.NewPredictor(labels, classifier, opts...)
	if err != nil {
		return err
	}

	ctx := context.Background()
	if *timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *timeout)
		defer cancel()
	}

	log.Debug("Starting text detection and normalization...")
	res, err := predictor.PredictFile(ctx, imagePath)
	if err != nil {
		return err
	}
	log.Debugf("Detected %d characters.", len(res.Glyphs))
	if *exportDir != "" {
		log.Debugf("Exported character images to %s", *exportDir)
	}

	if res.NoEvidence() {
		fmt.Fprintln(out, "No characters detected.")
		return nil
	}

	ranking := res.Ranking.Top(*topN)
	if *showScores {
		return printTable(ranking, len(res.Glyphs))
	}
	fmt.Fprintln(out, "Font predictions:")
	for _, s := range ranking {
		fmt.Fprintln(out, s)
	}
	return nil
}

// printTable shows the ranking with each font's share of the total votes.
func printTable(ranking fontid.RankedPrediction, glyphs int) error {
	data := [][]string{
		{"Rank", "Font", "Score", "Share"},
	}
	for i, s := range ranking {
		data = append(data, []string{
			fmt.Sprintf("%d", i+1),
			s.Label,
			fmt.Sprintf("%.4f", s.Score),
			fmt.Sprintf("%.1f%%", 100*s.Score/float64(glyphs)),
		})
	}
	pterm.Printf("Font predictions over %d characters:\n", glyphs)
	if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}
	return nil
}
