package view

import (
	"image"

	"github.com/soocke/surface-sketch-go/ui/images"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// ScenePreview shows the rendered scene and a magnified crop around the last
// tap. It owns two LabelWidgets and provides methods to update or reset them.
type ScenePreview interface {
	UpdatePreview(img image.Image)
	UpdateLoupe(img image.Image)
	Reset()
}

type scenePreview struct {
	sceneLabel *LabelWidget
	loupeLabel *LabelWidget
	maxW, maxH int
	prevScene  *Img // last Tk photo image instance for the scene
	prevLoupe  *Img // last Tk photo image instance for the loupe
}

// Internal state tracks current preview photos so we can dispose old images
// before replacing them, preventing accumulation of off-screen image data.

// NewScenePreview creates the preview labels, grids them and returns the view.
// Layout: scene spans columns 0-2; the loupe sits at column 3 of the provided row.
// The scene is scaled down to fit maxW x maxH.
func NewScenePreview(row, maxW, maxH int) ScenePreview {
	v := &scenePreview{maxW: max(maxW, 50), maxH: max(maxH, 50)}
	pngBytes := images.EncodePNG(placeholder(v.maxW, v.maxH))
	v.prevScene = NewPhoto(Data(pngBytes))
	v.prevLoupe = NewPhoto(Data(images.EncodePNG(placeholder(loupeSide, loupeSide))))
	v.sceneLabel = Label(Image(v.prevScene), Borderwidth(1), Relief("sunken"))
	v.loupeLabel = Label(Image(v.prevLoupe), Borderwidth(1), Relief("sunken"))
	Grid(v.sceneLabel, Row(row), Column(0), Columnspan(3), Sticky("we"), Padx("0.4m"), Pady("0.4m"))
	Grid(v.loupeLabel, Row(row), Column(3), Sticky("n"), Padx("0.4m"), Pady("0.4m"))
	return v
}

const loupeSide = 144

func placeholder(w, h int) image.Image { return image.NewRGBA(image.Rect(0, 0, w, h)) }

func (v *scenePreview) UpdatePreview(img image.Image) {
	if v.sceneLabel == nil || img == nil {
		return
	}
	// Scale for display only; the renderer already draws at viewport size.
	pngBytes := images.EncodePNG(images.ScaleToFit(img, v.maxW, v.maxH))
	// Replace previous photo to avoid retaining obsolete pixel buffers.
	if v.prevScene != nil {
		v.prevScene.Delete()
	}
	v.prevScene = NewPhoto(Data(pngBytes))
	v.sceneLabel.Configure(Image(v.prevScene))
}

func (v *scenePreview) UpdateLoupe(img image.Image) {
	if v.loupeLabel == nil || img == nil {
		return
	}
	pngBytes := images.EncodePNG(img)
	if v.prevLoupe != nil {
		v.prevLoupe.Delete()
	}
	v.prevLoupe = NewPhoto(Data(pngBytes))
	v.loupeLabel.Configure(Image(v.prevLoupe))
}

func (v *scenePreview) Reset() {
	if v.sceneLabel != nil {
		if v.prevScene != nil {
			v.prevScene.Delete()
		}
		v.prevScene = NewPhoto(Data(images.EncodePNG(placeholder(v.maxW, v.maxH))))
		v.sceneLabel.Configure(Image(v.prevScene))
	}
	if v.loupeLabel != nil {
		if v.prevLoupe != nil {
			v.prevLoupe.Delete()
		}
		v.prevLoupe = NewPhoto(Data(images.EncodePNG(placeholder(loupeSide, loupeSide))))
		v.loupeLabel.Configure(Image(v.prevLoupe))
	}
}
