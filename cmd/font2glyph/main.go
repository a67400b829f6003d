// Command font2glyph renders reference glyphs for fontid.
//
//	font2glyph -fonts /usr/share/fonts/truetype -output glyphs/
//
// Every font becomes a directory named after its sanitised full name,
// holding one PNG per character named by its hex code point. The label
// map class_indices.json lists the fonts alphabetically.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cheggaaa/pb/v3"
	"github.com/golang/freetype/truetype"
	log "github.com/sirupsen/logrus"
	"github.com/wbrown/fontid"
	"github.com/wbrown/fontid/imageutil"
)

const defaultChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

var (
	fontsPath = flag.String("fonts", "", "TrueType font file or directory of fonts (required)")
	outputDir = flag.String("output", "glyphs", "Output directory")
	chars     = flag.String("chars", defaultChars, "Characters to render")
	size      = flag.String("size", "200x200", "Glyph size")
	nameOnly  = flag.Bool("name", false, "Print the sanitised name of each font and exit")
	verbose   = flag.Bool("v", false, "Verbose logging")
)

type namedFont struct {
	name string
	path string
	font *truetype.Font
}

func main() {
	flag.Parse()

	if *verbose {
		log.Info("Setting verbose logging")
		log.SetLevel(log.DebugLevel)
	}

	if *fontsPath == "" {
		fmt.Println("Please provide fonts using the -fonts flag")
		flag.PrintDefaults()
		os.Exit(2)
	}

	paths, err := fontFiles(*fontsPath)
	if err != nil {
		log.Fatalf("Error finding fonts: %v", err)
	}

	fonts, err := loadFonts(paths)
	if err != nil {
		log.Fatalf("Error loading fonts: %v", err)
	}

	if *nameOnly {
		for _, f := range fonts {
			fmt.Println(f.name)
		}
		return
	}

	cfg := fontid.DefaultConfig()
	if cfg.GlyphSize, err = fontid.ParseSize(*size); err != nil {
		log.Fatalf("Invalid -size: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	if err := renderAll(fonts, []rune(*chars), fontid.NewGlyphRenderer(cfg), *outputDir); err != nil {
		log.Fatalf("Error rendering glyphs: %v", err)
	}
}

// fontFiles returns path itself or the .ttf files found beneath it.
func fontFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	var paths []string
	err = filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(p), ".ttf") {
			paths = append(paths, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, errors.New("no .ttf files found in " + path)
	}
	sort.Strings(paths)
	return paths, nil
}

// loadFonts parses every font and names it. Unparseable files are
// skipped; two files with the same name are an error since they would
// share one label.
func loadFonts(paths []string) ([]namedFont, error) {
	seen := make(map[string]string)
	var fonts []namedFont
	for _, path := range paths {
		f, err := fontid.LoadFont(path)
		if err != nil {
			log.Warnf("Skipping %s: %v", path, err)
			continue
		}
		fallback := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		name := fontid.FontName(f, fallback)
		if other, dup := seen[name]; dup {
			return nil, fmt.Errorf("%s and %s are both named %q", other, path, name)
		}
		seen[name] = path
		fonts = append(fonts, namedFont{name: name, path: path, font: f})
	}
	if len(fonts) == 0 {
		return nil, errors.New("no usable fonts")
	}
	sort.Slice(fonts, func(i, j int) bool { return fonts[i].name < fonts[j].name })
	return fonts, nil
}

func renderAll(fonts []namedFont, runes []rune, gr *fontid.GlyphRenderer, outDir string) error {
	names := make([]string, len(fonts))
	for i, f := range fonts {
		names[i] = f.name
	}
	labels, err := fontid.NewLabelSet(names...)
	if err != nil {
		return err
	}

	bar := pb.StartNew(len(fonts) * len(runes))
	defer bar.Finish()

	for _, f := range fonts {
		dir := filepath.Join(outDir, f.name)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}

		rendered := 0
		for _, r := range runes {
			bar.Increment()
			g, err := gr.Render(f.font, r)
			if errors.Is(err, fontid.ErrDegenerateGlyph) {
				log.Debugf("%s: skipping %q: %v", f.name, r, err)
				continue
			}
			if err != nil {
				return err
			}
			path := filepath.Join(dir, fmt.Sprintf("%04x.png", r))
			if err := imageutil.SaveGrayImage(g.GrayImage, path); err != nil {
				return err
			}
			rendered++
		}
		if rendered == 0 {
			return fmt.Errorf("%s (%s) has none of the requested characters", f.name, f.path)
		}
		log.Debugf("%s: rendered %d glyphs", f.name, rendered)
	}

	return fontid.WriteLabelSet(filepath.Join(outDir, "class_indices.json"), labels)
}
