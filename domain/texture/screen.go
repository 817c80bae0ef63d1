package texture

import (
	"image"

	"github.com/pkg/errors"
	"github.com/vova616/screenshot"
)

// CaptureScreen grabs the primary display as an image source.
func CaptureScreen() (image.Image, error) {
	img, err := screenshot.CaptureScreen()
	if err != nil {
		return nil, errors.Wrap(err, "capture screen")
	}
	return img, nil
}
