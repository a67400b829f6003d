package fontid

import (
	"fmt"
	"image"
	"os"
	"strconv"
	"strings"

	"github.com/wbrown/fontid/imageutil"
)

// Denoise selects the optional smoothing applied to the grayscale page
// before contrast equalisation.
type Denoise string

const (
	DenoiseNone     Denoise = "none"
	DenoiseGaussian Denoise = "gaussian"
	DenoiseMedian   Denoise = "median"
)

// Config holds the tunable constants of the pipeline. The zero value is
// not usable; start from DefaultConfig.
type Config struct {
	// MinArea is the smallest foreground pixel count a component needs to
	// be kept as a glyph candidate.
	MinArea int
	// MaxRegionFraction rejects components too large to be a glyph: any
	// whose ink covers more than this fraction of the page, and any that
	// touches the page border with a bounding box covering more than this
	// fraction. Such regions are shading, page edges or fingers. 1
	// disables the filter.
	MaxRegionFraction float64
	// BackgroundCells is the number of background estimation cells along
	// the longest page side; 0 disables background flattening.
	BackgroundCells int
	// TileGrid is the number of contrast equalisation tiles across and down.
	TileGrid image.Point
	// ClipLimit bounds each tile's histogram bins, as a multiple of the
	// mean bin height.
	ClipLimit float64
	Denoise   Denoise
	// MinContrast is the smallest intensity range a page must span to be
	// thresholded at all. Flatter pages are treated as blank.
	MinContrast int
	// GlyphSize is the segmentation-time canvas every glyph is stretched to.
	GlyphSize image.Point
	// ClassifierSize is the resolution classifiers consume.
	ClassifierSize image.Point
	// Interpolation is shared by both glyph resizes and the renderer.
	Interpolation imageutil.Interpolation
	// ReadingOrder sorts candidates into lines, left to right. When false
	// candidates keep the raster order of their first pixel.
	ReadingOrder bool
	// Workers bounds concurrent classification per image.
	Workers int
	// Temperature is the softmax temperature of the template classifier.
	Temperature float64
}

// DefaultConfig returns the configuration used by the command line tools.
func DefaultConfig() Config {
	return Config{
		MinArea:           50,
		MaxRegionFraction: 0.5,
		BackgroundCells:   4,
		TileGrid:          image.Pt(8, 8),
		ClipLimit:         2.0,
		Denoise:           DenoiseNone,
		MinContrast:       32,
		GlyphSize:         image.Pt(200, 200),
		ClassifierSize:    image.Pt(64, 64),
		Interpolation:     imageutil.InterpolationArea,
		ReadingOrder:      true,
		Workers:           1,
		Temperature:       0.05,
	}
}

// ConfigFromEnv overlays FONTID_* environment variables onto
// DefaultConfig. Unparseable values are reported as ErrConfig.
//
//	FONTID_MIN_AREA, FONTID_MAX_REGION_FRACTION, FONTID_BACKGROUND_CELLS,
//	FONTID_TILE_GRID ("8x8"), FONTID_CLIP_LIMIT,
//	FONTID_DENOISE, FONTID_MIN_CONTRAST, FONTID_GLYPH_SIZE ("200x200"),
//	FONTID_CLASSIFIER_SIZE, FONTID_INTERPOLATION, FONTID_READING_ORDER,
//	FONTID_WORKERS, FONTID_TEMPERATURE
func ConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()
	var err error

	if cfg.MinArea, err = getEnvAsIntOrDefault("FONTID_MIN_AREA", cfg.MinArea); err != nil {
		return cfg, err
	}
	if cfg.MaxRegionFraction, err = getEnvAsFloatOrDefault("FONTID_MAX_REGION_FRACTION", cfg.MaxRegionFraction); err != nil {
		return cfg, err
	}
	if cfg.BackgroundCells, err = getEnvAsIntOrDefault("FONTID_BACKGROUND_CELLS", cfg.BackgroundCells); err != nil {
		return cfg, err
	}
	if cfg.TileGrid, err = getEnvAsSizeOrDefault("FONTID_TILE_GRID", cfg.TileGrid); err != nil {
		return cfg, err
	}
	if cfg.ClipLimit, err = getEnvAsFloatOrDefault("FONTID_CLIP_LIMIT", cfg.ClipLimit); err != nil {
		return cfg, err
	}
	cfg.Denoise = Denoise(strings.ToLower(getEnvOrDefault("FONTID_DENOISE", string(cfg.Denoise))))
	if cfg.MinContrast, err = getEnvAsIntOrDefault("FONTID_MIN_CONTRAST", cfg.MinContrast); err != nil {
		return cfg, err
	}
	if cfg.GlyphSize, err = getEnvAsSizeOrDefault("FONTID_GLYPH_SIZE", cfg.GlyphSize); err != nil {
		return cfg, err
	}
	if cfg.ClassifierSize, err = getEnvAsSizeOrDefault("FONTID_CLASSIFIER_SIZE", cfg.ClassifierSize); err != nil {
		return cfg, err
	}
	if v := os.Getenv("FONTID_INTERPOLATION"); v != "" {
		if cfg.Interpolation, err = imageutil.ParseInterpolation(v); err != nil {
			return cfg, configError("env", "FONTID_INTERPOLATION", err)
		}
	}
	if v := os.Getenv("FONTID_READING_ORDER"); v != "" {
		if cfg.ReadingOrder, err = strconv.ParseBool(v); err != nil {
			return cfg, configError("env", "FONTID_READING_ORDER", err)
		}
	}
	if cfg.Workers, err = getEnvAsIntOrDefault("FONTID_WORKERS", cfg.Workers); err != nil {
		return cfg, err
	}
	if cfg.Temperature, err = getEnvAsFloatOrDefault("FONTID_TEMPERATURE", cfg.Temperature); err != nil {
		return cfg, err
	}

	return cfg, cfg.Validate()
}

// Validate reports the first unusable field as ErrConfig.
func (c Config) Validate() error {
	switch {
	case c.MinArea < 1:
		return configErrorf("validate", "min area must be positive, got %d", c.MinArea)
	case c.MaxRegionFraction <= 0 || c.MaxRegionFraction > 1:
		return configErrorf("validate", "max region fraction must be in (0, 1], got %g", c.MaxRegionFraction)
	case c.BackgroundCells < 0:
		return configErrorf("validate", "background cells must not be negative, got %d", c.BackgroundCells)
	case c.TileGrid.X < 1 || c.TileGrid.Y < 1:
		return configErrorf("validate", "tile grid must be positive, got %v", c.TileGrid)
	case c.ClipLimit <= 0:
		return configErrorf("validate", "clip limit must be positive, got %g", c.ClipLimit)
	case c.Denoise != DenoiseNone && c.Denoise != DenoiseGaussian && c.Denoise != DenoiseMedian:
		return configErrorf("validate", "unknown denoise mode %q", c.Denoise)
	case c.MinContrast < 0 || c.MinContrast > 255:
		return configErrorf("validate", "min contrast must be in [0, 255], got %d", c.MinContrast)
	case c.GlyphSize.X < 1 || c.GlyphSize.Y < 1:
		return configErrorf("validate", "glyph size must be positive, got %v", c.GlyphSize)
	case c.ClassifierSize.X < 1 || c.ClassifierSize.Y < 1:
		return configErrorf("validate", "classifier size must be positive, got %v", c.ClassifierSize)
	case c.Workers < 1:
		return configErrorf("validate", "workers must be at least 1, got %d", c.Workers)
	case c.Temperature <= 0:
		return configErrorf("validate", "temperature must be positive, got %g", c.Temperature)
	}
	return nil
}

// ParseSize parses "WxH" (or a single number for a square).
func ParseSize(s string) (image.Point, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	w, h, found := strings.Cut(s, "x")
	if !found {
		h = w
	}
	x, err := strconv.Atoi(w)
	if err != nil {
		return image.Point{}, fmt.Errorf("invalid size %q: %w", s, err)
	}
	y, err := strconv.Atoi(h)
	if err != nil {
		return image.Point{}, fmt.Errorf("invalid size %q: %w", s, err)
	}
	return image.Pt(x, y), nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsIntOrDefault(key string, defaultValue int) (int, error) {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue, nil
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue, configError("env", key, err)
	}
	return value, nil
}

func getEnvAsFloatOrDefault(key string, defaultValue float64) (float64, error) {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue, nil
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue, configError("env", key, err)
	}
	return value, nil
}

func getEnvAsSizeOrDefault(key string, defaultValue image.Point) (image.Point, error) {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue, nil
	}
	value, err := ParseSize(valueStr)
	if err != nil {
		return defaultValue, configError("env", key, err)
	}
	return value, nil
}
