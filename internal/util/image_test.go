package util

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodedPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

func TestResizeImage(t *testing.T) {
	img, err := ResizeImage(encodedPNG(t, 1024, 1024), 1200, 675)
	require.NoError(t, err)
	assert.Equal(t, 1200, img.Bounds().Dx())
	assert.Equal(t, 675, img.Bounds().Dy())

	_, err = ResizeImage([]byte("not an image"), 10, 10)
	assert.Error(t, err)
}

func TestWritePlaceholder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "images", "twitter_abc.png")
	require.NoError(t, WritePlaceholder(path, 1200, 675, "a sunny office"))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 1200, 675), img.Bounds())
	assert.Equal(t, color.RGBAModel.Convert(img.At(10, 10)), color.RGBA{R: 240, G: 240, B: 245, A: 255})

	prompt, err := os.ReadFile(filepath.Join(filepath.Dir(path), "twitter_abc_prompt.txt"))
	require.NoError(t, err)
	assert.Equal(t, "a sunny office", string(prompt))
}

func TestImagePath(t *testing.T) {
	assert.Equal(t, filepath.Join("out", "linkedin_123.png"), ImagePath("out", "linkedin", "123"))
}
