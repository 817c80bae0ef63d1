package assets

import (
	"bytes"
	_ "embed"
	"image"
	"image/png"

	"github.com/pkg/errors"
)

// GuidePNG contains the raw PNG bytes of the built-in tracing guide: a grid
// with centre lines and two circles.
//
//go:embed guide.png
var GuidePNG []byte

// GuideImage decodes the embedded PNG into an image.Image.
func GuideImage() (image.Image, error) {
	if len(GuidePNG) == 0 {
		return nil, errors.New("embedded guide.png is empty")
	}
	img, err := png.Decode(bytes.NewReader(GuidePNG))
	if err != nil {
		return nil, errors.Wrap(err, "decode guide.png")
	}
	return img, nil
}
