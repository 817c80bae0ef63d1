package texture

import (
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var discardLogger = slog.New(slog.NewTextHandler(&discardWriter{}, nil))

type discardWriter struct{}

func (d *discardWriter) Write(p []byte) (int, error) { return len(p), nil }

func solid(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func writePNG(t *testing.T, dir, name string, img image.Image) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
	return path
}

func TestPrepare_DownscalesLongestSide(t *testing.T) {
	img := Prepare(solid(400, 100, color.NRGBA{R: 200, A: 255}), 100)
	assert.Equal(t, 100, img.Bounds().Dx())
	assert.Equal(t, 25, img.Bounds().Dy())

	small := Prepare(solid(10, 20, color.NRGBA{A: 255}), 100)
	assert.Equal(t, image.Rect(0, 0, 10, 20), small.Bounds())
	assert.Nil(t, Prepare(nil, 10))
}

func TestOrient_QuarterTurns(t *testing.T) {
	src := solid(4, 2, color.NRGBA{G: 255, A: 255})
	assert.Equal(t, 2, Orient(src, 1).Bounds().Dx())
	assert.Equal(t, 4, Orient(src, 2).Bounds().Dx())
	assert.Equal(t, 2, Orient(src, 3).Bounds().Dx())
	assert.Equal(t, 4, Orient(src, 4).Bounds().Dx())
	assert.Equal(t, 2, Orient(src, -1).Bounds().Dx())
}

func TestFade_ScalesAlpha(t *testing.T) {
	src := solid(2, 2, color.NRGBA{R: 10, G: 20, B: 30, A: 200})
	out := Fade(src, 0.5)
	c := out.NRGBAAt(1, 1)
	assert.Equal(t, uint8(100), c.A)
	assert.Equal(t, uint8(10), c.R)

	assert.Equal(t, uint8(0), Fade(src, -1).NRGBAAt(0, 0).A)
	assert.Equal(t, uint8(200), Fade(src, 1).NRGBAAt(0, 0).A)
}

func TestLoader_FileIsCached(t *testing.T) {
	dir := t.TempDir()
	path := writePNG(t, dir, "a.png", solid(300, 150, color.NRGBA{B: 255, A: 255}))
	l, err := NewLoader(Options{MaxSide: 64, CacheSize: 2}, discardLogger)
	require.NoError(t, err)

	img, err := l.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 64, img.Bounds().Dx())
	assert.Equal(t, 1, l.CacheLen())

	again, err := l.Load("  " + path + " ")
	require.NoError(t, err)
	assert.Same(t, img.(*image.NRGBA), again.(*image.NRGBA))

	l.Purge()
	assert.Equal(t, 0, l.CacheLen())
}

func TestLoader_Errors(t *testing.T) {
	dir := t.TempDir()
	l, err := NewLoader(Options{}, discardLogger)
	require.NoError(t, err)

	_, err = l.Load("")
	assert.Error(t, err)

	_, err = l.Load(filepath.Join(dir, "missing.png"))
	assert.Error(t, err)

	_, err = l.Load(dir)
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.png")
	require.NoError(t, os.WriteFile(bad, []byte("not an image"), 0o644))
	_, err = l.Load(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode")
	assert.Equal(t, 0, l.CacheLen())
}

func TestLoader_RegisteredSources(t *testing.T) {
	l, err := NewLoader(Options{MaxSide: 8}, discardLogger)
	require.NoError(t, err)
	l.Register(RefGuide, func() (image.Image, error) { return solid(16, 16, color.NRGBA{A: 255}), nil })
	l.Register(RefScreen, func() (image.Image, error) { return nil, errors.New("no display") })

	img, err := l.Load(RefGuide)
	require.NoError(t, err)
	assert.Equal(t, 8, img.Bounds().Dx())

	_, err = l.Load(RefScreen)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no display")
	assert.Equal(t, 0, l.CacheLen())
}
