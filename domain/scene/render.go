package scene

import (
	"image"
	"math"
	"sort"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"github.com/golang/geo/r2"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/soocke/surface-sketch-go/domain/texture"
)

const (
	backgroundHex = "#1d1f24"
	fillAlpha     = 0.28
	goldenAngle   = 137.508
)

// tint returns a stable colour for the i-th node.
func tint(i int) colorful.Color {
	return colorful.Hsv(math.Mod(float64(i)*goldenAngle, 360), 0.55, 0.95)
}

type projected struct {
	index   int
	node    Node
	corners [4]r2.Point
	centre  r2.Point
	depth   float64
}

// Render rasterizes the node graph as seen by the camera. hud lines are drawn
// in the top-left corner.
func (s *Scene) Render(hud ...string) image.Image {
	if s == nil || s.camera == nil {
		return nil
	}
	w, h := s.camera.Size()
	dc := gg.NewContext(w, h)
	dc.SetHexColor(backgroundHex)
	dc.Clear()

	var items []projected
	for i, handle := range s.order {
		n := *s.nodes[handle]
		if n.Extent.Degenerate() {
			continue
		}
		p, ok := s.project(n)
		if !ok {
			continue
		}
		p.index = i
		items = append(items, p)
	}
	// far to near
	sort.SliceStable(items, func(a, b int) bool { return items[a].depth > items[b].depth })

	for _, p := range items {
		c := tint(p.index)
		quadPath(dc, p.corners)
		dc.SetRGBA(c.R, c.G, c.B, fillAlpha)
		dc.Fill()
		if p.node.Texture != nil {
			drawTexture(dc, p)
		}
		quadPath(dc, p.corners)
		dc.SetRGBA(c.R, c.G, c.B, 0.9)
		dc.SetLineWidth(2)
		dc.Stroke()
		dc.DrawCircle(p.centre.X, p.centre.Y, 3)
		dc.Fill()
	}

	dc.SetHexColor("#f0f0f0")
	for i, line := range hud {
		dc.DrawString(line, 8, float64(16+14*i))
	}
	return dc.Image()
}

func (s *Scene) project(n Node) (projected, bool) {
	var p projected
	for i, v := range n.Corners() {
		pt, ok := s.camera.Project(v)
		if !ok {
			return projected{}, false
		}
		p.corners[i] = pt
	}
	centre, ok := s.camera.Project(n.Centre())
	if !ok {
		return projected{}, false
	}
	p.node = n
	p.centre = centre
	p.depth = s.camera.Depth(n.Centre())
	return p, true
}

func quadPath(dc *gg.Context, c [4]r2.Point) {
	dc.MoveTo(c[0].X, c[0].Y)
	for _, pt := range c[1:] {
		dc.LineTo(pt.X, pt.Y)
	}
	dc.ClosePath()
}

// drawTexture stretches the oriented, faded texture over the quad's bounding
// box and clips it to the quad outline.
func drawTexture(dc *gg.Context, p projected) {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, c := range p.corners {
		minX, maxX = math.Min(minX, c.X), math.Max(maxX, c.X)
		minY, maxY = math.Min(minY, c.Y), math.Max(maxY, c.Y)
	}
	bw, bh := int(math.Ceil(maxX-minX)), int(math.Ceil(maxY-minY))
	if bw < 1 || bh < 1 {
		return
	}
	img := texture.Orient(p.node.Texture, p.node.QuarterTurns())
	img = imaging.Resize(img, bw, bh, imaging.Linear)
	img = texture.Fade(img, p.node.Opacity)

	quadPath(dc, p.corners)
	dc.Clip()
	dc.DrawImage(img, int(math.Floor(minX)), int(math.Floor(minY)))
	dc.ResetClip()
}
