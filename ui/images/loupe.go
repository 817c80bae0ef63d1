package images

import (
	"image"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
)

// Loupe crops a square of side size around centre and magnifies it by zoom.
// The square is shifted to stay inside the frame and shrinks only when the
// frame is smaller than size. Returns the magnified crop and the source
// rectangle relative to the frame.
func Loupe(frame image.Image, centre image.Point, size, zoom int) (*image.NRGBA, image.Rectangle, error) {
	if frame == nil {
		return nil, image.Rectangle{}, errors.New("nil frame")
	}
	b := frame.Bounds()
	if b.Empty() {
		return nil, image.Rectangle{}, errors.Errorf("empty frame %v", b)
	}
	if size < 1 {
		size = 1
	}
	if zoom < 1 {
		zoom = 1
	}
	w, h := min(size, b.Dx()), min(size, b.Dy())
	x0 := clampInt(centre.X-w/2, b.Min.X, b.Max.X-w)
	y0 := clampInt(centre.Y-h/2, b.Min.Y, b.Max.Y-h)
	rect := image.Rect(x0, y0, x0+w, y0+h)
	crop := imaging.Crop(frame, rect)
	if zoom == 1 {
		return crop, rect, nil
	}
	return imaging.Resize(crop, w*zoom, h*zoom, imaging.NearestNeighbor), rect, nil
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
