// Package texture loads overlay images and prepares them for the scene.
package texture

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// Prepare downscales img so neither side exceeds maxSide. Smaller images are
// returned as an NRGBA copy.
func Prepare(img image.Image, maxSide int) *image.NRGBA {
	if img == nil {
		return nil
	}
	b := img.Bounds()
	if maxSide > 0 && (b.Dx() > maxSide || b.Dy() > maxSide) {
		return imaging.Fit(img, maxSide, maxSide, imaging.Lanczos)
	}
	return imaging.Clone(img)
}

// Orient rotates img counterclockwise by quarterTurns * 90 degrees.
func Orient(img image.Image, quarterTurns int) image.Image {
	if img == nil {
		return nil
	}
	switch ((quarterTurns % 4) + 4) % 4 {
	case 1:
		return imaging.Rotate90(img)
	case 2:
		return imaging.Rotate180(img)
	case 3:
		return imaging.Rotate270(img)
	default:
		return img
	}
}

// Fade scales the alpha channel of img by opacity in [0,1].
func Fade(img image.Image, opacity float64) *image.NRGBA {
	if img == nil {
		return nil
	}
	if opacity >= 1 {
		return imaging.Clone(img)
	}
	if opacity < 0 {
		opacity = 0
	}
	return imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
		c.A = uint8(float64(c.A)*opacity + 0.5)
		return c
	})
}
