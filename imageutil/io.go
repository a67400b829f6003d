package imageutil

import (
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/disintegration/imaging"
	_ "github.com/spakin/netpbm" // Register PBM/PGM/PPM/PAM decoders
	_ "golang.org/x/image/tiff"  // Register TIFF decoder
	_ "golang.org/x/image/webp"  // Register WebP decoder
)

// LoadImage loads an image from the specified path.
// Supports PNG, JPEG, GIF, TIFF, WebP and the Netpbm formats. JPEG EXIF
// orientation is applied so photographed pages come out upright.
func LoadImage(path string) (*RGBAImage, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	if img.Bounds().Empty() {
		return nil, fmt.Errorf("image %s has no pixels", path)
	}

	return RGBAImageFromImage(img), nil
}

// LoadGrayImage loads an image from path and converts it to grayscale.
func LoadGrayImage(path string) (*GrayImage, error) {
	img, err := LoadImage(path)
	if err != nil {
		return nil, err
	}
	return ToGrayscale(img), nil
}

// SavePNG saves an image as PNG to the specified path.
func SavePNG(img image.Image, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode png: %w", err)
	}
	return f.Close()
}

// SaveGrayImage saves a grayscale image as PNG to the specified path.
func SaveGrayImage(img *GrayImage, path string) error {
	return SavePNG(img.Gray, path)
}
