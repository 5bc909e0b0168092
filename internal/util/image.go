package util

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	_ "image/gif"
	_ "image/jpeg"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

var placeholderColor = color.RGBA{R: 240, G: 240, B: 245, A: 255}

// ResizeImage decodes an encoded image and scales it to exactly width x height.
func ResizeImage(data []byte, width, height int) (image.Image, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	if b := src.Bounds(); b.Dx() == width && b.Dy() == height {
		return src, nil
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
	return dst, nil
}

func SavePNG(path string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create image dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("failed to encode PNG: %w", err)
	}

	return nil
}

// PromptSidecarPath is where the prompt of a placeholder image is kept.
func PromptSidecarPath(imagePath string) string {
	return strings.TrimSuffix(imagePath, filepath.Ext(imagePath)) + "_prompt.txt"
}

// WritePlaceholder writes a flat light grey PNG of the requested size and
// stores the prompt that should have produced it next to it.
func WritePlaceholder(path string, width, height int, prompt string) error {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: placeholderColor}, image.Point{}, draw.Src)

	if err := SavePNG(path, img); err != nil {
		return err
	}
	if err := os.WriteFile(PromptSidecarPath(path), []byte(prompt), 0o644); err != nil {
		return fmt.Errorf("failed to write prompt file: %w", err)
	}
	return nil
}

func ImagePath(dir, platform, postID string) string {
	return filepath.Join(dir, fmt.Sprintf("%s_%s.png", platform, postID))
}
